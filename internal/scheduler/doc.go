// Package scheduler runs the daemon's recurring maintenance jobs, such as
// evicting expired cookies and saving the vault. It is a single goroutine
// over a min-heap of events sorted by trigger time, sleeping at most 60
// seconds at a time so wall-clock jumps (NTP steps, system sleep) are
// noticed promptly. Nothing is persisted; jobs are re-added on start.
package scheduler
