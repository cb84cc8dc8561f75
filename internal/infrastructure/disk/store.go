package disk

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Store persists attachment blobs on the local filesystem under a single
// root directory. It implements application.BlobStore.
type Store struct {
	root string
}

// New creates a disk Store rooted at dir. The directory itself is created
// lazily on the first write.
func New(dir string) *Store {
	return &Store{root: dir}
}

// Store writes the blob under root/name. Root creation is idempotent, so
// concurrent first writes are safe. A partially written file is removed
// before the error is returned.
func (s *Store) Store(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("create storage root: %w", err)
	}

	target := filepath.Join(s.root, name)
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("create blob %s: %w", name, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(target)
		return fmt.Errorf("write blob %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(target)
		return fmt.Errorf("close blob %s: %w", name, err)
	}
	return nil
}

// Delete removes the blob. A missing file is treated as success.
func (s *Store) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.root, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob %s: %w", name, err)
	}
	return nil
}
