package sessionexport

import (
	"context"
	"os"
	"path/filepath"
)

// DirSink writes exports into a local directory. Used when no object
// storage is configured.
type DirSink struct {
	dir string
}

func NewDirSink(dir string) *DirSink {
	return &DirSink{dir: dir}
}

func (d *DirSink) Put(_ context.Context, name string, content []byte) error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(d.dir, name), content, 0o644)
}
