package app

import (
	"io/fs"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	ReadDir(path string) ([]fs.DirEntry, error)
	Stat(path string) (fs.FileInfo, error)
	Lstat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Rename(oldpath, newpath string) error
	Remove(path string) error
}
