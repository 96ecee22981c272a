package store

import "time"

// DoctorRun records one completed `brew doctor` invocation.
type DoctorRun struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Output     string
	Deprecated []string // formulae flagged deprecated by this run
	Error      string   // empty when brew doctor produced output
}

// Removal records an uninstall issued from brewdesk.
type Removal struct {
	ID        int64
	Package   string
	RemovedAt time.Time
	Output    string
	Error     string // empty on success
}

// Succeeded reports whether the uninstall completed.
func (r *Removal) Succeeded() bool {
	return r.Error == ""
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
