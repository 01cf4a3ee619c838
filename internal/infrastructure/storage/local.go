package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalUploader writes images into a directory served under urlPrefix.
type LocalUploader struct {
	dir       string
	urlPrefix string
}

// NewLocalUploader creates dir if needed.
func NewLocalUploader(dir, urlPrefix string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{dir: dir, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Dir is the directory files are written to.
func (u *LocalUploader) Dir() string { return u.dir }

// URLPrefix is the path prefix under which stored files are referenced.
func (u *LocalUploader) URLPrefix() string { return u.urlPrefix }

// Store decodes payload and writes it as <uuid>.<ext>, returning
// "<urlPrefix>/<uuid>.<ext>".
func (u *LocalUploader) Store(_ context.Context, payload string) (string, error) {
	img, err := DecodePayload(payload)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + "." + img.Ext
	if err := os.WriteFile(filepath.Join(u.dir, name), img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return u.urlPrefix + "/" + name, nil
}
