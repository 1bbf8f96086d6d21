package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fs, err := NewFS(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("new fs: %v", err)
	}
	return fs
}

func TestFSPutAndDelete(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	url, err := fs.Put(ctx, KindImage, "cover.png", "image/png", strings.NewReader("fake png"), 8)
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if url != "/uploads/images/cover.png" {
		t.Errorf("url = %q", url)
	}

	data, err := os.ReadFile(filepath.Join(fs.Root(), "images", "cover.png"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "fake png" {
		t.Errorf("stored content = %q", data)
	}

	if err := fs.Delete(ctx, url); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(fs.Root(), "images", "cover.png")); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}
}

func TestFSGet(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	url, err := fs.Put(ctx, KindSound, "flip.mp3", "audio/mpeg", strings.NewReader("mp3 bytes"), 9)
	if err != nil {
		t.Fatal(err)
	}

	rc, err := fs.Get(ctx, url)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "mp3 bytes" {
		t.Errorf("content = %q", data)
	}

	if _, err := fs.Get(ctx, "https://elsewhere.example.com/x.mp3"); err == nil {
		t.Error("foreign url should not resolve")
	}
	if _, err := fs.Get(ctx, "/uploads/../secret"); err == nil {
		t.Error("traversal url should not resolve")
	}
}

func TestFSPutRejectsTraversal(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	for _, name := range []string{"../escape.png", "a/b.png", "..", ""} {
		if _, err := fs.Put(ctx, KindImage, name, "image/png", strings.NewReader("x"), 1); err == nil {
			t.Errorf("Put(%q) should be rejected", name)
		}
	}
}

func TestFSPutRefusesOverwrite(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	if _, err := fs.Put(ctx, KindFont, "f.woff2", "font/woff2", strings.NewReader("one"), 3); err != nil {
		t.Fatal(err)
	}
	if _, err := fs.Put(ctx, KindFont, "f.woff2", "font/woff2", strings.NewReader("two"), 3); err == nil {
		t.Error("second put with same name should fail")
	}
}

func TestFSDeleteIgnoresForeignURLs(t *testing.T) {
	fs := newTestFS(t)
	ctx := context.Background()

	for _, url := range []string{
		"https://elsewhere.example.com/x.png",
		"/uploads/../../../etc/passwd",
		"/other/path.png",
	} {
		if err := fs.Delete(ctx, url); err != nil {
			t.Errorf("Delete(%q) should be a no-op, got %v", url, err)
		}
	}
}

func TestFSProbe(t *testing.T) {
	fs := newTestFS(t)
	if err := fs.Probe(context.Background()); err != nil {
		t.Fatalf("probe: %v", err)
	}
}
