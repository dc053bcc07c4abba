package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
)

// DownloadToTemp copies the object at key into a new temporary file in
// dir (the OS default when empty), keeping the key's extension so media
// probing sees the right container. The returned cleanup removes the
// file and is safe to call more than once. Objects larger than maxBytes
// are rejected when maxBytes > 0.
func DownloadToTemp(ctx context.Context, s Storage, key, dir string, maxBytes int64) (string, func(), error) {
	rc, err := s.Download(ctx, key)
	if err != nil {
		return "", func() {}, err
	}
	defer rc.Close() //nolint:errcheck // read side

	f, err := os.CreateTemp(dir, "scribe-object-*"+path.Ext(key))
	if err != nil {
		return "", func() {}, fmt.Errorf("storage: create temp file: %w", err)
	}
	name := f.Name()
	cleanup := func() { _ = os.Remove(name) }

	src := io.Reader(rc)
	if maxBytes > 0 {
		src = io.LimitReader(rc, maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("storage: copy %s: %w", key, err)
	}
	if maxBytes > 0 && n > maxBytes {
		cleanup()
		return "", func() {}, fmt.Errorf("storage: object %s exceeds %d bytes", key, maxBytes)
	}
	return name, cleanup, nil
}
