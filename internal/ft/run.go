package ft

import (
	"fmt"
	"io"
)

// Stage is a state of the duplicate-finder run.
type Stage int

const (
	StageValidating Stage = iota
	StageScanning
	StageHashing
	StageClassifying
	StageRelocating
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageScanning:
		return "scanning"
	case StageHashing:
		return "hashing"
	case StageClassifying:
		return "classifying"
	case StageRelocating:
		return "relocating"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// RunStats are the counters reported in the final summary.
type RunStats struct {
	Scanned          int
	Hashed           int
	Skipped          int
	Errors           int
	Unique           int
	Duplicates       int
	Moved            int
	AlreadyOrganized int
	Conflicts        int
}

// RunContext carries the per-run state the orchestrator reads and writes.
// It is created at run start and discarded at run end; nothing else holds it.
type RunContext struct {
	ID    string
	Stage Stage
	Quiet bool
	Stats RunStats

	out         io.Writer
	auditWarned bool
}

// NewRunContext creates a RunContext in the Validating stage. Progress lines go to out.
func NewRunContext(id string, out io.Writer, quiet bool) *RunContext {
	if out == nil {
		out = io.Discard
	}
	return &RunContext{
		ID:    id,
		Stage: StageValidating,
		Quiet: quiet,
		out:   out,
	}
}

// Printf writes a progress line unless the run is quiet.
func (rc *RunContext) Printf(format string, args ...any) {
	if rc.Quiet {
		return
	}
	fmt.Fprintf(rc.out, format+"\n", args...)
}

// Alertf writes a line even when the run is quiet. Used for warnings and errors.
func (rc *RunContext) Alertf(format string, args ...any) {
	fmt.Fprintf(rc.out, format+"\n", args...)
}

func (rc *RunContext) enter(s Stage) {
	rc.Stage = s
}
