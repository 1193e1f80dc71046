package action

import (
	"fmt"
	"time"
)

// Deadline is the soft wall-clock budget threaded through multi-step
// pipelines. Stages check Exceeded before starting; a stage already in
// flight is never cancelled.
type Deadline struct {
	Start  time.Time
	Budget time.Duration
}

// NewDeadline starts a budget clock now. A zero budget never expires.
func NewDeadline(budget time.Duration) Deadline {
	return Deadline{Start: time.Now(), Budget: budget}
}

func (d Deadline) Exceeded() bool {
	return d.Budget > 0 && time.Since(d.Start) > d.Budget
}

func (d Deadline) Elapsed() time.Duration {
	return time.Since(d.Start)
}

// TimeoutMessage describes an exceeded budget, including the elapsed figure.
func (d Deadline) TimeoutMessage(stage string) string {
	return fmt.Sprintf("%s skipped: budget of %s exceeded (elapsed %.1fs)",
		stage, d.Budget, d.Elapsed().Seconds())
}
