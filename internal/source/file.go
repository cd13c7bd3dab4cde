package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/victorlin/metadata-explorer/internal/core"
	"github.com/victorlin/metadata-explorer/internal/tsv"
)

// File reads metadata from the local filesystem. Mostly useful for
// development and for the preset refresh worker's smoke datasets.
type File struct {
	path string
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Key() string   { return "file:" + f.path }
func (f *File) Label() string { return filepath.Base(f.path) }

func (f *File) Open(ctx context.Context) (*core.Table, error) {
	fh, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()
	return tsv.ParseNamed(fh, f.path)
}
