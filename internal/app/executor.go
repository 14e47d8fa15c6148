package app

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"extidy/internal/domain"
	appErrors "extidy/internal/errors"
	"extidy/internal/logging"
)

// LockFileName is the advisory lock kept in the destination while a run is
// active. It is excluded from duplicate indexing.
const LockFileName = ".extidy.lock"

// Digester computes content digests, used for duplicate skipping.
type Digester interface {
	Sum(ctx context.Context, path string) (string, error)
	IndexTree(ctx context.Context, root, skipName string) (map[string]struct{}, error)
}

// Locker guards a destination against concurrent runs. Acquire fails fast
// when the lock is held elsewhere; release removes the lock file.
type Locker interface {
	Acquire(path, runID string) (release func(), err error)
}

// RunOptions are the execution-time switches of a transfer.
type RunOptions struct {
	CreateDest     bool
	SkipDuplicates bool
}

// Executor carries out a TransferPlan: copy or move every entry into the
// destination, renaming on conflict, best effort across entries.
type Executor struct {
	FS         FileSystem
	Digest     Digester
	Lock       Locker
	Logger     logging.Logger
	OnProgress ProgressFunc
}

func (e *Executor) Run(ctx context.Context, plan domain.TransferPlan, opts RunOptions) (domain.Summary, error) {
	if e.FS == nil {
		return domain.Summary{}, appErrors.New(appErrors.Internal, "run", "", "executor requires FS")
	}

	summary := domain.Summary{
		RunID: uuid.NewString(),
		Copy:  plan.Copy,
	}

	if err := e.ensureDest(plan.DestDir, opts.CreateDest); err != nil {
		return domain.Summary{}, err
	}

	if len(plan.Entries) == 0 {
		summary.NoMatches = true
		e.Logger.Verbosef("Nothing to transfer from %s", plan.SourceDir)
		return summary, nil
	}

	if e.Lock != nil {
		release, err := e.Lock.Acquire(filepath.Join(plan.DestDir, LockFileName), summary.RunID)
		if err != nil {
			return domain.Summary{}, appErrors.Wrap(appErrors.Locked, "lock", plan.DestDir, err)
		}
		defer release()
	}

	seen, err := e.indexDest(ctx, plan.DestDir, opts)
	if err != nil {
		return domain.Summary{}, err
	}

	stop := e.Logger.Measure("Transferring files")
	defer stop()

	total := len(plan.Entries)
	for i, entry := range plan.Entries {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		outcome := e.transfer(ctx, entry, plan, seen)
		summary.Record(outcome)
		if outcome.Status == domain.StatusCopied || outcome.Status == domain.StatusMoved {
			summary.Bytes += entry.Size
		}

		if e.OnProgress != nil {
			e.OnProgress(i+1, total, entry.SourcePath)
		}
	}

	e.Logger.Verbosef("Run %s: %d succeeded, %d failed, %d skipped", summary.RunID, summary.Succeeded, summary.Failed, summary.Skipped)
	return summary, nil
}

func (e *Executor) ensureDest(destDir string, create bool) error {
	exists, err := e.FS.Exists(destDir)
	if err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "stat", destDir, err)
	}
	if exists {
		return nil
	}
	if !create {
		return appErrors.New(appErrors.DestMissing, "run", destDir, "destination does not exist")
	}
	if err := e.FS.MkdirAll(destDir, 0o755); err != nil {
		return appErrors.Wrap(appErrors.IOFailure, "mkdir", destDir, err)
	}
	e.Logger.Verbosef("Created destination directory %s", destDir)
	return nil
}

// indexDest hashes every file already in the destination so duplicate
// sources can be skipped. Returns nil when dedup is off.
func (e *Executor) indexDest(ctx context.Context, destDir string, opts RunOptions) (map[string]struct{}, error) {
	if !opts.SkipDuplicates || e.Digest == nil {
		return nil, nil
	}
	stop := e.Logger.Measure("Indexing destination digests")
	defer stop()

	seen, err := e.Digest.IndexTree(ctx, destDir, LockFileName)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.IOFailure, "index", destDir, err)
	}
	e.Logger.Verbosef("Indexed %d existing digests in %s", len(seen), destDir)
	return seen, nil
}

// transfer handles a single entry. Failures are reported in the outcome,
// never as an error, so one bad file does not stop the run.
func (e *Executor) transfer(ctx context.Context, entry domain.FileEntry, plan domain.TransferPlan, seen map[string]struct{}) domain.Outcome {
	var sum string
	if seen != nil {
		var err error
		sum, err = e.Digest.Sum(ctx, entry.SourcePath)
		if err != nil {
			// Hashing trouble is not a reason to refuse the transfer.
			e.Logger.Verbosef("Digest failed for %s: %v", entry.SourcePath, err)
		} else if _, dup := seen[sum]; dup {
			return domain.Outcome{
				SourcePath: entry.SourcePath,
				Status:     domain.StatusSkipped,
				Reason:     "identical content already in destination",
			}
		}
	}

	destPath, renamed, err := e.resolveDest(plan.DestDir, entry.Name)
	if err != nil {
		return failedOutcome(entry, "", err)
	}

	if plan.Copy {
		if err := e.FS.CopyFile(entry.SourcePath, destPath); err != nil {
			return failedOutcome(entry, destPath, err)
		}
	} else if err := e.move(entry.SourcePath, destPath); err != nil {
		return failedOutcome(entry, destPath, err)
	}

	if seen != nil && sum != "" {
		seen[sum] = struct{}{}
	}

	status := domain.StatusMoved
	if plan.Copy {
		status = domain.StatusCopied
	}
	if renamed {
		e.Logger.Verbosef("Renamed to avoid conflict: %s", filepath.Base(destPath))
	}
	return domain.Outcome{
		SourcePath: entry.SourcePath,
		DestPath:   destPath,
		Status:     status,
		Renamed:    renamed,
	}
}

// move relocates src to dst. Rename covers the same-filesystem case; across
// filesystems it copies first and removes the source only once the copy is
// fully in place.
func (e *Executor) move(src, dst string) error {
	if err := e.FS.Rename(src, dst); err == nil {
		return nil
	}
	if err := e.FS.CopyFile(src, dst); err != nil {
		return err
	}
	return e.FS.Remove(src)
}

// resolveDest picks a destination path that does not collide with an
// existing file, suffixing _1, _2, ... before the extension.
func (e *Executor) resolveDest(destDir, name string) (string, bool, error) {
	destPath := filepath.Join(destDir, name)
	exists, err := e.FS.Exists(destPath)
	if err != nil {
		return "", false, err
	}
	if !exists {
		return destPath, false, nil
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(destDir, fmt.Sprintf("%s_%d%s", stem, n, ext))
		exists, err := e.FS.Exists(candidate)
		if err != nil {
			return "", false, err
		}
		if !exists {
			return candidate, true, nil
		}
	}
}

func failedOutcome(entry domain.FileEntry, destPath string, err error) domain.Outcome {
	return domain.Outcome{
		SourcePath: entry.SourcePath,
		DestPath:   destPath,
		Status:     domain.StatusFailed,
		Reason:     err.Error(),
	}
}
