package objstore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FS stores blobs under a local directory, served by the API at baseURL
// (e.g. "/uploads"). The development default.
type FS struct {
	root    string
	baseURL string
}

// NewFS creates a filesystem storage rooted at dir.
func NewFS(dir, baseURL string) (*FS, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FS{root: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

// Root returns the storage root directory.
func (f *FS) Root() string { return f.root }

// Put stores a blob under root/<kind>/<name>.
func (f *FS) Put(_ context.Context, kind Kind, name string, _ string, r io.Reader, _ int64) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}
	dir := filepath.Join(f.root, string(kind))
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("create kind dir: %w", err)
	}

	dst := filepath.Join(dir, name)
	file, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640) //#nosec G304 -- name is validated above
	if err != nil {
		return "", fmt.Errorf("create object: %w", err)
	}
	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close object: %w", err)
	}

	return f.baseURL + "/" + string(kind) + "/" + name, nil
}

// Get opens the blob a URL points at.
func (f *FS) Get(_ context.Context, url string) (io.ReadCloser, error) {
	rel, ok := strings.CutPrefix(url, f.baseURL+"/")
	if !ok {
		return nil, fmt.Errorf("url %q is outside this storage", url)
	}
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil, fmt.Errorf("invalid object url %q", url)
	}
	file, err := os.Open(filepath.Join(f.root, filepath.FromSlash(rel))) //#nosec G304 -- path is cleaned above
	if err != nil {
		return nil, fmt.Errorf("open object: %w", err)
	}
	return file, nil
}

// Delete removes the blob a URL points at. URLs outside baseURL are ignored.
func (f *FS) Delete(_ context.Context, url string) error {
	rel, ok := strings.CutPrefix(url, f.baseURL+"/")
	if !ok {
		return nil
	}
	rel = path.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") {
		return nil
	}
	err := os.Remove(filepath.Join(f.root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// Probe checks that the root directory is still writable.
func (f *FS) Probe(_ context.Context) error {
	info, err := os.Stat(f.root)
	if err != nil {
		return fmt.Errorf("stat upload dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("upload path %s is not a directory", f.root)
	}
	return nil
}

// validName rejects object names that could escape the kind directory.
func validName(name string) error {
	if name == "" || name != path.Base(name) || strings.Contains(name, "..") {
		return fmt.Errorf("invalid object name %q", name)
	}
	return nil
}
