package upload

import (
	"testing"

	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/objstore"
)

func TestCheckAcceptsValidUploads(t *testing.T) {
	cases := []struct {
		kind        objstore.Kind
		filename    string
		contentType string
		size        int64
	}{
		{objstore.KindFont, "literata.woff2", "font/woff2", 100 << 10},
		{objstore.KindSound, "flip.mp3", "audio/mpeg", 1 << 20},
		{objstore.KindImage, "cover.PNG", "image/png", 4 << 20},
		{objstore.KindBook, "novel.epub", "application/epub+zip", 10 << 20},
		{objstore.KindBook, "notes.txt", "text/plain; charset=utf-8", 512},
		{objstore.KindBook, "old.doc", "", 1 << 20}, // missing content type is tolerated
	}
	for _, c := range cases {
		if err := Check(c.kind, c.filename, c.contentType, c.size); err != nil {
			t.Errorf("Check(%s, %s) = %v, want nil", c.kind, c.filename, err)
		}
	}
}

func TestCheckSizeCaps(t *testing.T) {
	cases := []struct {
		kind     objstore.Kind
		filename string
		size     int64
	}{
		{objstore.KindFont, "big.woff2", MaxFontSize + 1},
		{objstore.KindSound, "big.mp3", MaxSoundSize + 1},
		{objstore.KindImage, "big.png", MaxImageSize + 1},
		{objstore.KindBook, "big.epub", MaxBookSize + 1},
	}
	for _, c := range cases {
		err := Check(c.kind, c.filename, "", c.size)
		if err == nil {
			t.Errorf("Check(%s, %d bytes) should fail", c.kind, c.size)
			continue
		}
		var derr *errors.Error
		if !errors.As(err, &derr) || derr.Code != errors.CodePayloadTooLarge {
			t.Errorf("Check(%s) code = %v, want PAYLOAD_TOO_LARGE", c.kind, err)
		}
	}
}

func TestCheckRejectsWrongExtension(t *testing.T) {
	err := Check(objstore.KindFont, "malware.exe", "font/woff2", 100)
	if err == nil {
		t.Fatal("exe disguised as font should be rejected")
	}
	var derr *errors.Error
	if !errors.As(err, &derr) || derr.Code != errors.CodeValidation {
		t.Errorf("code = %v, want VALIDATION", err)
	}
}

func TestCheckRejectsWrongContentType(t *testing.T) {
	if err := Check(objstore.KindImage, "page.png", "text/html", 100); err == nil {
		t.Error("html declared as image should be rejected")
	}
}

func TestCheckRejectsEmptyFile(t *testing.T) {
	if err := Check(objstore.KindImage, "empty.png", "image/png", 0); err == nil {
		t.Error("empty file should be rejected")
	}
}

func TestExt(t *testing.T) {
	if got := Ext("Book.EPUB"); got != ".epub" {
		t.Errorf("Ext = %q", got)
	}
	if got := Ext("noext"); got != "" {
		t.Errorf("Ext = %q", got)
	}
}
