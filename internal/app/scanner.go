package app

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"sort"

	"extidy/internal/domain"
	appErrors "extidy/internal/errors"
	"extidy/internal/logging"
)

// ProgressFunc is called after each processed file during a transfer.
type ProgressFunc func(current, total int, path string)

// Scanner finds files under a source directory whose extension is in the
// requested set. Unreadable subtrees and symlinks are skipped, not fatal.
type Scanner struct {
	FS     FileSystem
	Logger logging.Logger
}

func (s *Scanner) Scan(ctx context.Context, sourceDir string, exts domain.ExtensionSet, recursive bool) ([]domain.FileEntry, error) {
	if s.FS == nil {
		return nil, appErrors.New(appErrors.Internal, "scan", "", "scanner requires FS")
	}
	if exts.Len() == 0 {
		return nil, appErrors.New(appErrors.InvalidConfig, "scan", "", "no extensions to match")
	}

	info, err := s.FS.Stat(sourceDir)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.NotFound, "scan", sourceDir, err)
	}
	if !info.IsDir() {
		return nil, appErrors.New(appErrors.NotFound, "scan", sourceDir, "not a directory")
	}

	stop := s.Logger.Measure("Scanning source directory")
	defer stop()

	var entries []domain.FileEntry
	if recursive {
		entries, err = s.walk(ctx, sourceDir, exts)
	} else {
		entries, err = s.list(ctx, sourceDir, exts)
	}
	if err != nil {
		return nil, err
	}

	// Directory iteration order is platform-dependent; sort so two scans of
	// the same tree always agree.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].SourcePath < entries[j].SourcePath
	})

	s.Logger.Verbosef("Found %d files matching [%s] in %s", len(entries), exts, sourceDir)
	return entries, nil
}

func (s *Scanner) list(ctx context.Context, sourceDir string, exts domain.ExtensionSet) ([]domain.FileEntry, error) {
	dirEntries, err := s.FS.ReadDir(sourceDir)
	if err != nil {
		return nil, appErrors.Wrap(appErrors.IOFailure, "readdir", sourceDir, err)
	}

	var entries []domain.FileEntry
	for _, d := range dirEntries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if d.IsDir() || d.Type()&fs.ModeSymlink != 0 {
			continue
		}
		if !exts.Contains(filepath.Ext(d.Name())) {
			continue
		}
		path := filepath.Join(sourceDir, d.Name())
		info, infoErr := d.Info()
		if infoErr != nil {
			s.Logger.Verbosef("Skipping %s: %v", path, infoErr)
			continue
		}
		entries = append(entries, domain.NewFileEntry(path, info.Size()))
	}
	return entries, nil
}

func (s *Scanner) walk(ctx context.Context, sourceDir string, exts domain.ExtensionSet) ([]domain.FileEntry, error) {
	var entries []domain.FileEntry

	err := s.FS.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if walkErr != nil {
			// Typically permission denied; skip the subtree and keep going.
			s.Logger.Verbosef("Skipping %s: %v", path, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// Never follow symlinks; a symlinked directory could loop.
			s.Logger.Verbosef("Skipping symlink %s", path)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !exts.Contains(filepath.Ext(d.Name())) {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			s.Logger.Verbosef("Skipping %s: %v", path, infoErr)
			return nil
		}
		entries = append(entries, domain.NewFileEntry(path, info.Size()))
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, appErrors.Wrap(appErrors.IOFailure, "walk", sourceDir, err)
	}
	return entries, nil
}
