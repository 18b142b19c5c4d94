package os

import (
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

type Flock struct {
	f *flock.Flock
}

// NewFileLock creates the lock file if needed,
// the default one is put into the temp dir.
func NewFileLock(path string) (*Flock, error) {
	if path == "" {
		path = filepath.Join(os.TempDir(), "glremote.lock")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0770); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDONLY, 0660)
	if err != nil {
		return nil, err
	}
	_ = f.Close()
	return &Flock{f: flock.New(path)}, nil
}

func (f *Flock) Lock() error { return f.f.Lock() }

// TryLock takes the lock without waiting, false means someone else holds it.
func (f *Flock) TryLock() (bool, error) { return f.f.TryLock() }

func (f *Flock) Unlock() error { return f.f.Unlock() }
