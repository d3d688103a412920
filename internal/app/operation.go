package app

import "time"

// Operation tracks one CLI invocation from start to finish for the log.
type Operation struct {
	RunID      string
	Name       string
	Parameters string
	Status     string // "success" or "error"
	Started    time.Time
}

// NewOperation creates an operation that is successful until told otherwise.
func NewOperation(runID, name, parameters string, started time.Time) *Operation {
	return &Operation{
		RunID:      runID,
		Name:       name,
		Parameters: parameters,
		Status:     "success",
		Started:    started,
	}
}

// Finish records err as the operation's outcome. A later nil does not clear an earlier failure.
func (op *Operation) Finish(err error) {
	if err != nil {
		op.Status = "error"
	}
}

// Failed reports whether any step of the operation failed.
func (op *Operation) Failed() bool {
	return op.Status == "error"
}
