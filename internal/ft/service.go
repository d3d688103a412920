package ft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
)

// FTService is the orchestration layer that coordinates the validator, hasher,
// classifier, relocator and audit log for the CLI operations.
type FTService struct {
	fsmgr     FilesystemManager
	validator *Validator
	hasher    *Hasher
	relocator *Relocator
	audit     AuditLogger
	logger    Logger
	clock     Clock
}

// NewFTService creates a new FTService with the provided dependencies.
// chunkSize is the hasher's read buffer size; zero selects DefaultChunkSize.
func NewFTService(fsmgr FilesystemManager, audit AuditLogger, logger Logger, clock Clock, chunkSize int) *FTService {
	if audit == nil {
		audit = NopAuditLogger{}
	}
	return &FTService{
		fsmgr:     fsmgr,
		validator: NewValidator(fsmgr),
		hasher:    NewHasher(fsmgr, chunkSize),
		relocator: NewRelocator(fsmgr),
		audit:     audit,
		logger:    logger,
		clock:     clock,
	}
}

// DedupeResult is everything a duplicate-finder run observed.
type DedupeResult struct {
	Source         *Path
	Dest           *Path
	Records        []*FileRecord // in classification order
	Classification *Classification
}

// FindDuplicates scans source, groups files by content and moves every
// non-representative copy to the same relative path under dest.
//
// Only validation errors abort the run. Per-file problems are recorded on the
// records, counted in rc.Stats, printed and audited. Cancellation is checked
// between files and reported as ErrCancelled.
func (s *FTService) FindDuplicates(ctx context.Context, rc *RunContext, source, dest string) (*DedupeResult, error) {
	rc.enter(StageValidating)
	src, dst, err := s.validator.Validate(source, dest)
	if err != nil {
		rc.enter(StageFailed)
		return nil, err
	}
	s.logger.Info("duplicate scan started", "source", src.String(), "dest", dst.String(), "run", rc.ID)

	result := &DedupeResult{Source: src, Dest: dst}

	rc.Printf("Finding duplicate files...")
	rc.enter(StageScanning)
	rc.Printf("Scanning: %s", src.String())
	records, err := s.scan(rc, src.String(), dst.String())
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", src.String(), err)
	}
	SortRecords(records)
	result.Records = records

	rc.enter(StageHashing)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		s.process(rc, rec)
	}

	rc.enter(StageClassifying)
	cls := Classify(records)
	result.Classification = cls
	rc.Stats.Unique = cls.Unique
	rc.Stats.Duplicates = cls.DuplicateCount()
	rc.Printf("Unique files found: %d", cls.Unique)
	rc.Printf("Duplicates found: %d", rc.Stats.Duplicates)

	if rc.Stats.Duplicates == 0 {
		rc.Printf("No duplicates found.")
		rc.enter(StageDone)
		s.logger.Info("duplicate scan complete", "unique", cls.Unique, "duplicates", 0)
		return result, nil
	}

	rc.enter(StageRelocating)
	rc.Printf("Moving %d duplicates to: %s", rc.Stats.Duplicates, dst.String())
	for _, cl := range cls.Classes {
		for _, dup := range cl.Pending() {
			if err := ctx.Err(); err != nil {
				return result, fmt.Errorf("%w: %v", ErrCancelled, err)
			}
			s.relocate(rc, dup, src.String(), dst.String())
		}
	}

	rc.enter(StageDone)
	s.logger.Info("duplicate scan complete",
		"unique", cls.Unique,
		"duplicates", rc.Stats.Duplicates,
		"moved", rc.Stats.Moved,
		"errors", rc.Stats.Errors,
	)
	return result, nil
}

// scan walks the source tree and creates one record per non-directory entry.
// The destination subtree is pruned so relocated files are never rescanned.
func (s *FTService) scan(rc *RunContext, srcRoot, destRoot string) ([]*FileRecord, error) {
	var records []*FileRecord

	skipDir := func(absPath string) bool {
		if IsWithin(absPath, destRoot) {
			return true
		}
		ignored, err := s.fsmgr.IsIgnored(absPath, srcRoot, true)
		if err != nil {
			s.logger.Warn("checking ignore rules", "path", absPath, "error", err)
			return false
		}
		if ignored {
			s.logger.Debug("directory ignored", "path", absPath)
		}
		return ignored
	}

	err := s.fsmgr.Walk(srcRoot, skipDir, func(absPath, rel string, info fs.FileInfo, walkErr error) error {
		if walkErr != nil {
			rec := &FileRecord{AbsolutePath: absPath, RelativePath: rel, Status: StatusPending}
			rec.fail(walkErr)
			records = append(records, rec)
			return nil
		}

		if !IsWithin(absPath, srcRoot) {
			rc.Alertf("Warning: Skipping file outside source directory: %s", info.Name())
			return nil
		}

		ignored, err := s.fsmgr.IsIgnored(absPath, srcRoot, false)
		if err != nil {
			return fmt.Errorf("checking ignore rules: %w", err)
		}
		if ignored {
			s.logger.Debug("file ignored", "path", absPath)
			return nil
		}

		records = append(records, NewFileRecord(absPath, rel, info))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// process hashes one record and emits its "processed" audit entry.
func (s *FTService) process(rc *RunContext, rec *FileRecord) {
	rc.Stats.Scanned++
	if rec.Status == StatusPending {
		rc.Printf("Processing file: %s", filepath.Base(rec.AbsolutePath))
		s.hasher.Hash(rec)
	}

	entry := recordEntry(s.clock.Now(), OpProcessed, rec)
	switch rec.Status {
	case StatusHashed:
		rc.Stats.Hashed++
		s.logger.Debug("file hashed", "path", rec.AbsolutePath, "digest", rec.Digest)
	case StatusSkipped:
		rc.Stats.Skipped++
		rc.Printf("Skipping %s: %s", filepath.Base(rec.AbsolutePath), rec.SkipReason)
		s.logger.Info("file skipped", "path", rec.AbsolutePath, "reason", rec.SkipReason)
		entry.Status = AuditError
		entry.ErrorMessage = "skipped: " + rec.SkipReason
	default:
		rc.Stats.Errors++
		rc.Alertf("Warning: Could not process %s: %v", filepath.Base(rec.AbsolutePath), rec.Err)
		s.logger.Warn("file not processed", "path", rec.AbsolutePath, "error", rec.Err)
		entry.Status = AuditError
		entry.ErrorMessage = rec.Err.Error()
	}
	s.writeAudit(rc, entry)
}

// relocate moves one duplicate and emits its "moved" audit entry.
func (s *FTService) relocate(rc *RunContext, rec *FileRecord, srcRoot, destRoot string) {
	destPath, err := s.relocator.Relocate(rec, srcRoot, destRoot)
	if errors.Is(err, ErrAlreadyOrganized) {
		rc.Stats.AlreadyOrganized++
		s.logger.Debug("already organized", "path", rec.AbsolutePath)
		return
	}

	entry := recordEntry(s.clock.Now(), OpMoved, rec)
	entry.DestinationPath = destPath
	rec.DestinationPath = destPath

	if err != nil {
		if errors.Is(err, ErrConflict) {
			rc.Stats.Conflicts++
		}
		rc.Stats.Errors++
		rec.Status = StatusError
		rec.Err = err
		rc.Alertf("Error moving %s: %v", filepath.Base(rec.AbsolutePath), err)
		s.logger.Warn("move failed", "path", rec.AbsolutePath, "dest", destPath, "error", err)
		entry.Status = AuditError
		entry.ErrorMessage = err.Error()
		s.writeAudit(rc, entry)
		return
	}

	rec.Status = StatusMoved
	rc.Stats.Moved++
	rel, relErr := filepath.Rel(destRoot, destPath)
	if relErr != nil {
		rel = destPath
	}
	rc.Printf("Moved: %s -> %s", filepath.Base(rec.AbsolutePath), rel)
	s.logger.Info("file moved", "path", rec.AbsolutePath, "dest", destPath, "digest", rec.Digest)
	s.writeAudit(rc, entry)
}

// writeAudit appends entry to the audit log. Failures are warnings only.
func (s *FTService) writeAudit(rc *RunContext, entry AuditEntry) {
	if err := s.audit.Log(entry); err != nil {
		s.logger.Warn("audit log write failed", "error", err)
		if !rc.auditWarned {
			rc.auditWarned = true
			rc.Alertf("Warning: Could not write to CSV log: %v", err)
		}
	}
}
