// Package upload enforces per-kind size caps and type whitelists on
// uploaded files.
package upload

import (
	"fmt"
	"path"
	"strings"

	"github.com/readwellapp/readwell-server/internal/errors"
	"github.com/readwellapp/readwell-server/internal/objstore"
)

// Size caps per upload kind.
const (
	MaxFontSize  = 400 << 10 // 400 KB
	MaxSoundSize = 2 << 20   // 2 MB
	MaxImageSize = 5 << 20   // 5 MB
	MaxBookSize  = 50 << 20  // 50 MB
)

// Policy describes what one upload kind accepts. Both the extension and
// the declared content type must be whitelisted.
type Policy struct {
	Kind       objstore.Kind
	MaxSize    int64
	Extensions map[string]bool
	MIMETypes  map[string]bool
}

var policies = map[objstore.Kind]Policy{
	objstore.KindFont: {
		Kind:    objstore.KindFont,
		MaxSize: MaxFontSize,
		Extensions: map[string]bool{
			".woff": true, ".woff2": true, ".ttf": true, ".otf": true,
		},
		MIMETypes: map[string]bool{
			"font/woff": true, "font/woff2": true, "font/ttf": true, "font/otf": true,
			"application/font-woff": true, "application/x-font-ttf": true,
			"application/octet-stream": true,
		},
	},
	objstore.KindSound: {
		Kind:    objstore.KindSound,
		MaxSize: MaxSoundSize,
		Extensions: map[string]bool{
			".mp3": true, ".ogg": true, ".wav": true, ".m4a": true,
		},
		MIMETypes: map[string]bool{
			"audio/mpeg": true, "audio/ogg": true, "audio/wav": true,
			"audio/x-wav": true, "audio/mp4": true, "audio/x-m4a": true,
		},
	},
	objstore.KindImage: {
		Kind:    objstore.KindImage,
		MaxSize: MaxImageSize,
		Extensions: map[string]bool{
			".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".gif": true,
		},
		MIMETypes: map[string]bool{
			"image/png": true, "image/jpeg": true, "image/webp": true, "image/gif": true,
		},
	},
	objstore.KindBook: {
		Kind:    objstore.KindBook,
		MaxSize: MaxBookSize,
		Extensions: map[string]bool{
			".txt": true, ".epub": true, ".fb2": true, ".docx": true, ".doc": true,
		},
		MIMETypes: map[string]bool{
			"text/plain": true, "application/epub+zip": true,
			"application/zip": true, "application/xml": true, "text/xml": true,
			"application/msword": true,
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
			"application/octet-stream": true,
		},
	},
}

// PolicyFor returns the policy for an upload kind.
func PolicyFor(kind objstore.Kind) (Policy, bool) {
	p, ok := policies[kind]
	return p, ok
}

// Ext returns the lowercased extension of an uploaded filename.
func Ext(filename string) string {
	return strings.ToLower(path.Ext(filename))
}

// Check validates an upload's filename, declared content type and size
// against the kind's policy. Content type parameters (";charset=...") are
// stripped before matching.
func Check(kind objstore.Kind, filename, contentType string, size int64) error {
	p, ok := policies[kind]
	if !ok {
		return errors.Validation(fmt.Sprintf("unknown upload kind %q", kind))
	}

	if size > p.MaxSize {
		return errors.PayloadTooLarge(fmt.Sprintf(
			"file exceeds the %d byte limit for %s uploads", p.MaxSize, kind))
	}
	if size <= 0 {
		return errors.Validation("uploaded file is empty")
	}

	ext := Ext(filename)
	if !p.Extensions[ext] {
		return errors.ValidationWithDetails("file type not allowed", map[string]string{
			"extension": fmt.Sprintf("%q is not an accepted extension for %s uploads", ext, kind),
		})
	}

	mime := contentType
	if idx := strings.IndexByte(mime, ';'); idx >= 0 {
		mime = mime[:idx]
	}
	mime = strings.ToLower(strings.TrimSpace(mime))
	if mime != "" && !p.MIMETypes[mime] {
		return errors.ValidationWithDetails("file type not allowed", map[string]string{
			"contentType": fmt.Sprintf("%q is not an accepted content type for %s uploads", mime, kind),
		})
	}

	return nil
}
