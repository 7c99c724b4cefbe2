package app

import (
	"image"
	"io"
	"io/fs"

	"picpp/internal/domain"
)

type FileSystem interface {
	WalkDir(root string, fn fs.WalkDirFunc) error
	Stat(path string) (fs.FileInfo, error)
	Exists(path string) (bool, error)
	MkdirAll(path string, perm fs.FileMode) error
	CopyFile(src, dst string) error
	Remove(path string) error
	// WriteAtomic streams write into a temporary sibling of path and renames
	// it into place only when write succeeds.
	WriteAtomic(path string, perm fs.FileMode, write func(io.Writer) error) error
}

type Codec interface {
	Decode(path string) (image.Image, string, error)
	Encode(w io.Writer, img image.Image, format domain.Format, quality int) error
}
