package app

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"extidy/internal/domain"
	appErrors "extidy/internal/errors"
)

type mockFS struct {
	entries  []mockEntry
	walkErrs map[string]error
}

type mockEntry struct {
	path    string
	isDir   bool
	symlink bool
	size    int64
}

func (m mockFS) WalkDir(root string, fn fs.WalkDirFunc) error {
	skipPrefix := ""
	for _, entry := range m.entries {
		if skipPrefix != "" && strings.HasPrefix(entry.path, skipPrefix) {
			continue
		}
		dirEntry := mockDirEntry{entry: entry}
		err := fn(entry.path, dirEntry, m.walkErrs[entry.path])
		if err == fs.SkipDir {
			skipPrefix = entry.path + string(filepath.Separator)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (m mockFS) ReadDir(path string) ([]fs.DirEntry, error) {
	var out []fs.DirEntry
	for _, entry := range m.entries {
		if entry.path == path {
			continue
		}
		if filepath.Dir(entry.path) == path {
			out = append(out, mockDirEntry{entry: entry})
		}
	}
	return out, nil
}

func (m mockFS) Stat(path string) (fs.FileInfo, error) {
	for _, entry := range m.entries {
		if entry.path == path {
			return mockFileInfo{entry: entry}, nil
		}
	}
	return nil, fs.ErrNotExist
}

func (m mockFS) Lstat(path string) (fs.FileInfo, error) { return m.Stat(path) }

func (m mockFS) Exists(path string) (bool, error) {
	_, err := m.Stat(path)
	return err == nil, nil
}

func (m mockFS) MkdirAll(path string, perm fs.FileMode) error { return nil }
func (m mockFS) CopyFile(src, dst string) error               { return nil }
func (m mockFS) Rename(oldpath, newpath string) error         { return nil }
func (m mockFS) Remove(path string) error                     { return nil }

type mockDirEntry struct {
	entry mockEntry
}

func (m mockDirEntry) Name() string { return filepath.Base(m.entry.path) }
func (m mockDirEntry) IsDir() bool  { return m.entry.isDir }
func (m mockDirEntry) Type() fs.FileMode {
	if m.entry.symlink {
		return fs.ModeSymlink
	}
	if m.entry.isDir {
		return fs.ModeDir
	}
	return 0
}
func (m mockDirEntry) Info() (fs.FileInfo, error) { return mockFileInfo{entry: m.entry}, nil }

type mockFileInfo struct {
	entry mockEntry
}

func (m mockFileInfo) Name() string       { return filepath.Base(m.entry.path) }
func (m mockFileInfo) Size() int64        { return m.entry.size }
func (m mockFileInfo) Mode() fs.FileMode  { return 0 }
func (m mockFileInfo) ModTime() time.Time { return time.Time{} }
func (m mockFileInfo) IsDir() bool        { return m.entry.isDir }
func (m mockFileInfo) Sys() interface{}   { return nil }

func paths(entries []domain.FileEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.SourcePath)
	}
	return out
}

func equalPaths(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanMissingSourceIsNotFound(t *testing.T) {
	scanner := Scanner{FS: mockFS{}}

	_, err := scanner.Scan(context.Background(), "/nowhere", domain.ParseExtensions("txt"), false)
	if err == nil {
		t.Fatalf("expected error")
	}
	if appErrors.KindOf(err) != appErrors.NotFound {
		t.Fatalf("expected not_found, got %s", appErrors.KindOf(err))
	}
}

func TestScanSourceMustBeDirectory(t *testing.T) {
	scanner := Scanner{FS: mockFS{entries: []mockEntry{
		{path: "/source", isDir: false},
	}}}

	_, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), false)
	if appErrors.KindOf(err) != appErrors.NotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}

func TestScanNonRecursiveReturnsTopLevelOnly(t *testing.T) {
	mock := mockFS{entries: []mockEntry{
		{path: "/source", isDir: true},
		{path: "/source/b.TXT", size: 2},
		{path: "/source/a.txt", size: 1},
		{path: "/source/c.jpg", size: 3},
		{path: "/source/sub", isDir: true},
		{path: "/source/sub/d.txt", size: 4},
	}}
	scanner := Scanner{FS: mock}
	exts := domain.ParseExtensions(".txt")

	entries, err := scanner.Scan(context.Background(), "/source", exts, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/source/a.txt", "/source/b.TXT"}
	if !equalPaths(paths(entries), want) {
		t.Fatalf("expected %v, got %v", want, paths(entries))
	}
}

func TestScanRecursiveIncludesSubdirectories(t *testing.T) {
	mock := mockFS{entries: []mockEntry{
		{path: "/source", isDir: true},
		{path: "/source/sub", isDir: true},
		{path: "/source/sub/d.txt", size: 4},
		{path: "/source/a.txt", size: 1},
	}}
	scanner := Scanner{FS: mock}

	entries, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/source/a.txt", "/source/sub/d.txt"}
	if !equalPaths(paths(entries), want) {
		t.Fatalf("expected %v, got %v", want, paths(entries))
	}
}

func TestScanSkipsSymlinks(t *testing.T) {
	mock := mockFS{entries: []mockEntry{
		{path: "/source", isDir: true},
		{path: "/source/real.txt", size: 1},
		{path: "/source/link.txt", symlink: true},
		{path: "/source/linkdir", isDir: true, symlink: true},
	}}
	scanner := Scanner{FS: mock}

	for _, recursive := range []bool{false, true} {
		entries, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), recursive)
		if err != nil {
			t.Fatalf("unexpected error (recursive=%v): %v", recursive, err)
		}
		want := []string{"/source/real.txt"}
		if !equalPaths(paths(entries), want) {
			t.Fatalf("recursive=%v: expected %v, got %v", recursive, want, paths(entries))
		}
	}
}

func TestScanSkipsUnreadableSubtree(t *testing.T) {
	mock := mockFS{
		entries: []mockEntry{
			{path: "/source", isDir: true},
			{path: "/source/a.txt", size: 1},
			{path: "/source/secret", isDir: true},
			{path: "/source/secret/hidden.txt", size: 2},
			{path: "/source/z.txt", size: 3},
		},
		walkErrs: map[string]error{
			"/source/secret": fs.ErrPermission,
		},
	}
	scanner := Scanner{FS: mock}

	entries, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/source/a.txt", "/source/z.txt"}
	if !equalPaths(paths(entries), want) {
		t.Fatalf("expected %v, got %v", want, paths(entries))
	}
}

func TestScanOrderIsDeterministic(t *testing.T) {
	mock := mockFS{entries: []mockEntry{
		{path: "/source", isDir: true},
		{path: "/source/z.txt", size: 1},
		{path: "/source/m.txt", size: 2},
		{path: "/source/a.txt", size: 3},
	}}
	scanner := Scanner{FS: mock}

	first, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := scanner.Scan(context.Background(), "/source", domain.ParseExtensions("txt"), true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"/source/a.txt", "/source/m.txt", "/source/z.txt"}
	if !equalPaths(paths(first), want) {
		t.Fatalf("expected sorted paths %v, got %v", want, paths(first))
	}
	if !equalPaths(paths(first), paths(second)) {
		t.Fatalf("scans disagree: %v vs %v", paths(first), paths(second))
	}
}

func TestScanRequiresExtensions(t *testing.T) {
	scanner := Scanner{FS: mockFS{entries: []mockEntry{{path: "/source", isDir: true}}}}

	_, err := scanner.Scan(context.Background(), "/source", domain.ExtensionSet{}, false)
	if appErrors.KindOf(err) != appErrors.InvalidConfig {
		t.Fatalf("expected invalid_config, got %v", err)
	}
}
