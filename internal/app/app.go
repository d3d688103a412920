package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"ft-go/internal/audit"
	"ft-go/internal/config"
	"ft-go/internal/fs"
	"ft-go/internal/ft"
)

// Options select per-invocation settings that are not part of the config file.
type Options struct {
	Operation string    // name of the CLI command, for the log
	CSVLog    string    // audit log path; empty disables the audit log
	Verbose   bool      // mirror the operational log to stderr at debug level
	Quiet     bool      // suppress informational startup messages
	Out       io.Writer // user-facing progress; defaults to os.Stdout
}

// FTApp is the application layer between the CLI and FTService.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and releases the log files on Close.
type FTApp struct {
	cfg     *config.Config
	fsmgr   ft.FilesystemManager
	service *ft.FTService
	logger  ft.Logger
	audit   *audit.CSVLogger
	clock   ft.Clock
	op      *Operation
	out     io.Writer
	logFile *os.File
}

// NewFTApp creates a fully wired FTApp from the given config.
// The caller must call Close when done.
func NewFTApp(cfg *config.Config, opts Options) (*FTApp, error) {
	return newFTApp(cfg, opts, fs.NewOSFilesystemManager(cfg.Filesystem.Ignore), ft.RealClock{}, ft.UUIDGenerator{})
}

func newFTApp(cfg *config.Config, opts Options, fsmgr ft.FilesystemManager, clock ft.Clock, ids ft.IDGenerator) (*FTApp, error) {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	runID := ids.New()
	slogger, logFile, err := newLogger(cfg.LogDir, runID, parseLevel(cfg.LogLevel), opts.Verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	a := &FTApp{
		cfg:     cfg,
		fsmgr:   fsmgr,
		logger:  logger,
		clock:   clock,
		op:      NewOperation(runID, opts.Operation, "", clock.Now()),
		out:     out,
		logFile: logFile,
	}

	var auditLog ft.AuditLogger
	if opts.CSVLog != "" {
		csvLog, err := audit.OpenCSVLogger(opts.CSVLog, clock)
		if err != nil {
			// The run goes ahead without an audit trail.
			fmt.Fprintf(out, "Warning: Could not open CSV log: %v\n", err)
			logger.Warn("audit log unavailable", "path", opts.CSVLog, "error", err)
		} else {
			a.audit = csvLog
			auditLog = csvLog
			if !opts.Quiet {
				fmt.Fprintf(out, "Initialized CSV log: %s\n", opts.CSVLog)
			}
		}
	}

	a.service = ft.NewFTService(fsmgr, auditLog, logger, clock, cfg.Hash.ChunkSize)
	logger.Info("operation started", "operation", opts.Operation)
	return a, nil
}

// RunID returns the identifier shared by this invocation's log lines.
func (a *FTApp) RunID() string {
	return a.op.RunID
}

func (a *FTApp) begin(parameters ...string) {
	a.op.Parameters = strings.Join(parameters, " ")
}

// FindDuplicates runs the duplicate finder from source into dest.
// The returned RunContext carries the run's counters even when err is non-nil.
func (a *FTApp) FindDuplicates(ctx context.Context, source, dest string, quiet bool) (*ft.RunContext, *ft.DedupeResult, error) {
	a.begin("source="+source, "dest="+dest)
	rc := ft.NewRunContext(a.op.RunID, a.out, quiet)
	res, err := a.service.FindDuplicates(ctx, rc, source, dest)
	a.op.Finish(err)
	return rc, res, err
}

// Organize moves the files below source into dest/YYYY-MM folders.
func (a *FTApp) Organize(ctx context.Context, source, dest string, opts ft.OrganizeOptions, quiet bool) (*ft.RunContext, *ft.OrganizeResult, error) {
	a.begin("source="+source, "dest="+dest, fmt.Sprintf("dry_run=%t", opts.DryRun), "date_source="+string(opts.DateSource))
	rc := ft.NewRunContext(a.op.RunID, a.out, quiet)
	res, err := a.service.Organize(ctx, rc, source, dest, opts)
	a.op.Finish(err)
	return rc, res, err
}

// CollectFiles expands the given files and directories for the created command.
func (a *FTApp) CollectFiles(paths []string, opts ft.CollectOptions) ([]string, []error) {
	a.begin(paths...)
	files, warnings := a.fsmgr.CollectFiles(paths, opts)
	for _, w := range warnings {
		a.logger.Warn("collect warning", "error", w)
	}
	return files, warnings
}

// CreationInfo reports the creation time of a single file.
func (a *FTApp) CreationInfo(path string) (*ft.CreationInfo, error) {
	info, err := a.service.CreationInfo(path)
	if err != nil {
		a.logger.Warn("creation info failed", "path", path, "error", err)
	}
	return info, err
}

// Close finalizes the operation and closes all resources.
func (a *FTApp) Close() error {
	var firstErr error

	a.logger.Info("operation finished",
		"operation", a.op.Name,
		"parameters", a.op.Parameters,
		"status", a.op.Status,
		"duration", a.clock.Now().Sub(a.op.Started),
	)

	if a.audit != nil {
		if err := a.audit.Close(); err != nil {
			firstErr = fmt.Errorf("closing audit log: %w", err)
		}
	}

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}
