// Package cookies moves records between the jar and browser cookie stores.
// It reads Firefox (moz_cookies SQLite), Chrome (cookies SQLite, unencrypted
// values only) and Netscape cookies.txt files, and writes Netscape files.
//
// Cookie values are never logged. Only names, domains and the source path
// may appear in log output.
package cookies
