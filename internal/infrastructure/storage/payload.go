// Package storage implements the image upload collaborator used by blog
// creation. Payloads arrive as "<mime>;base64, <data>" strings; the MIME
// type supplied by the caller is trusted and only sanitised for use as a
// file extension.
package storage

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/inkpost/blog-api/internal/core/domain"
)

const base64Marker = "base64,"

// Image is a decoded upload payload.
type Image struct {
	MIME string
	Ext  string
	Data []byte
}

// knownExtensions maps common image types to their usual extension.
var knownExtensions = map[string]string{
	"image/jpeg":    "jpg",
	"image/png":     "png",
	"image/gif":     "gif",
	"image/webp":    "webp",
	"image/svg+xml": "svg",
}

// DecodePayload splits and decodes a data-URI style payload. Both
// "data:image/png;base64,..." and "image/png;base64, ..." are accepted.
func DecodePayload(payload string) (*Image, error) {
	idx := strings.Index(payload, base64Marker)
	if idx < 0 {
		return nil, fmt.Errorf("%w: missing base64 marker", domain.ErrInvalidPayload)
	}

	mime := strings.ToLower(strings.TrimSpace(payload[:idx]))
	mime = strings.TrimPrefix(mime, "data:")
	// Media type parameters such as ";charset=utf-8" are dropped.
	mime, _, _ = strings.Cut(mime, ";")
	mime = strings.TrimSpace(mime)
	slash := strings.Index(mime, "/")
	if slash <= 0 || slash == len(mime)-1 {
		return nil, fmt.Errorf("%w: invalid mime type %q", domain.ErrInvalidPayload, mime)
	}

	raw := strings.TrimSpace(payload[idx+len(base64Marker):])
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPayload, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image", domain.ErrInvalidPayload)
	}

	return &Image{MIME: mime, Ext: extension(mime, slash), Data: data}, nil
}

func extension(mime string, slash int) string {
	if ext, ok := knownExtensions[mime]; ok {
		return ext
	}
	var b strings.Builder
	for _, r := range mime[slash+1:] {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bin"
	}
	return b.String()
}
