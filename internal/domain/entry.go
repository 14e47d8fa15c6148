package domain

import (
	"path/filepath"
	"strings"
)

// FileEntry is a file discovered by a scan. Immutable once produced.
type FileEntry struct {
	SourcePath string
	Name       string
	Ext        string
	Size       int64
}

func NewFileEntry(sourcePath string, size int64) FileEntry {
	name := filepath.Base(sourcePath)
	return FileEntry{
		SourcePath: sourcePath,
		Name:       name,
		Ext:        strings.ToLower(filepath.Ext(name)),
		Size:       size,
	}
}

// TransferPlan is the ordered set of entries a preview or run acts on,
// together with the parameters it was scanned under.
type TransferPlan struct {
	SourceDir  string
	DestDir    string
	Extensions ExtensionSet
	Recursive  bool
	Copy       bool
	Entries    []FileEntry
}

// TotalBytes sums the sizes of all planned entries.
func (p TransferPlan) TotalBytes() int64 {
	var total int64
	for _, e := range p.Entries {
		total += e.Size
	}
	return total
}
