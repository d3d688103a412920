package ft

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// DateSource selects which timestamp decides a file's bucket.
type DateSource string

const (
	DateCreated  DateSource = "created"
	DateModified DateSource = "modified"
)

// maxNameAttempts bounds the stem_N search for a free destination name.
const maxNameAttempts = 10000

// OrganizeOptions controls Organize.
type OrganizeOptions struct {
	DryRun     bool
	DateSource DateSource
	Include    []string
	Exclude    []string // nil selects the collector defaults
}

// OrganizeResult summarizes an Organize run.
type OrganizeResult struct {
	Total   int
	Moved   int
	Errors  int
	Folders []string // sorted YYYY-MM folder names that received files
}

// Organize moves every file under source into dest/YYYY-MM/ according to the
// chosen date. Name clashes inside a bucket are resolved as stem_N.ext; an
// existing file is never overwritten. Per-file failures are counted and the
// run continues.
func (s *FTService) Organize(ctx context.Context, rc *RunContext, source, dest string, opts OrganizeOptions) (*OrganizeResult, error) {
	rc.enter(StageValidating)
	src, dst, err := s.validator.Validate(source, dest)
	if err != nil {
		rc.enter(StageFailed)
		return nil, err
	}

	rc.enter(StageScanning)
	files, warnings := s.fsmgr.CollectFiles([]string{src.String()}, CollectOptions{
		Recursive: true,
		MaxDepth:  -1,
		Include:   opts.Include,
		Exclude:   opts.Exclude,
	})
	for _, w := range warnings {
		rc.Alertf("Warning: %v", w)
	}
	files = slices.DeleteFunc(files, func(f string) bool {
		return IsWithin(f, dst.String())
	})

	result := &OrganizeResult{Total: len(files)}
	if len(files) == 0 {
		rc.enter(StageDone)
		return result, nil
	}

	action := "Moving"
	if opts.DryRun {
		action = "Would move"
	}
	rc.Printf("%s %d files from %s to %s", action, len(files), src.String(), dst.String())
	if opts.DryRun {
		rc.Printf("DRY RUN - No files will actually be moved")
	}

	rc.enter(StageRelocating)
	folders := make(map[string]bool)
	for i, f := range files {
		if err := ctx.Err(); err != nil {
			result.Folders = sortedKeys(folders)
			return result, fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		if len(files) > 10 && i > 0 && i%50 == 0 {
			rc.Printf("Progress: %d/%d (%.1f%%)", i, len(files), float64(i)/float64(len(files))*100)
		}

		key, target, err := s.organizeOne(rc, f, dst.String(), opts)
		if err != nil {
			result.Errors++
			rc.Alertf("Error: %s - %v", f, err)
			s.logger.Warn("organize failed", "path", f, "error", err)
			continue
		}
		result.Moved++
		folders[key] = true
		if opts.DryRun {
			rc.Printf("Would move: %s -> %s/", filepath.Base(f), key)
		} else {
			rc.Printf("Moved: %s -> %s/", filepath.Base(f), key)
			s.logger.Info("file organized", "path", f, "dest", target)
		}
	}

	result.Folders = sortedKeys(folders)
	rc.enter(StageDone)
	return result, nil
}

// organizeOne moves a single file into its bucket and returns the bucket key
// and final path. In dry-run mode nothing is created or moved.
func (s *FTService) organizeOne(rc *RunContext, path, destRoot string, opts OrganizeOptions) (string, string, error) {
	info, err := s.CreationInfo(path)
	if err != nil {
		return "", "", err
	}

	when := info.Created
	if opts.DateSource == DateModified {
		when = info.Modified
	}
	key := BucketKey(when)

	folder, err := SafeJoin(destRoot, key)
	if err != nil {
		return "", "", err
	}
	if !opts.DryRun {
		if err := s.fsmgr.MkdirAll(folder); err != nil {
			return "", "", fmt.Errorf("creating date folder: %w", err)
		}
	}

	name := filepath.Base(path)
	ext := filepath.Ext(name)
	if ext == name {
		ext = ""
	}
	stem := strings.TrimSuffix(name, ext)

	for n := 0; n < maxNameAttempts; n++ {
		candidate := name
		if n > 0 {
			candidate = fmt.Sprintf("%s_%d%s", stem, n, ext)
		}
		target := filepath.Join(folder, candidate)

		if _, err := s.fsmgr.Lstat(target); err == nil {
			continue
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", "", fmt.Errorf("checking destination: %w", err)
		}
		if opts.DryRun {
			return key, target, nil
		}

		err := s.fsmgr.Move(path, target)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		entry := AuditEntry{
			Timestamp:       s.clock.Now(),
			Operation:       OpMoved,
			OriginalPath:    path,
			DestinationPath: target,
			Size:            &info.FileSize,
			ModTime:         &info.Modified,
			Status:          AuditSuccess,
		}
		if err != nil {
			entry.Status = AuditError
			entry.ErrorMessage = err.Error()
			s.writeAudit(rc, entry)
			return "", "", fmt.Errorf("%w: %v", ErrMove, err)
		}
		s.writeAudit(rc, entry)
		return key, target, nil
	}
	return "", "", fmt.Errorf("%w: no free name for %s in %s", ErrConflict, name, folder)
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
