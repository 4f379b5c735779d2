package scheduler

import "time"

// Event is a pending job run in the scheduler heap.
type Event struct {
	// Job names the job passed to the trigger callback.
	Job string
	// TriggerAt is the wall-clock time the job runs.
	TriggerAt time.Time
	// CronExpr re-schedules the job after it fires. Empty means one-shot.
	CronExpr string
}
