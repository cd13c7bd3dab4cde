package source

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/victorlin/metadata-explorer/internal/core"
	"github.com/victorlin/metadata-explorer/internal/tsv"
)

// Upload is a metadata file received from the browser. The cache key is a
// fingerprint of the raw bytes, so re-uploading the same file hits the
// cache regardless of filename.
type Upload struct {
	name string
	data []byte
	key  string
}

func NewUpload(name string, data []byte) *Upload {
	sum := sha256.Sum256(data)
	return &Upload{
		name: name,
		data: data,
		key:  "upload:" + hex.EncodeToString(sum[:]),
	}
}

func (u *Upload) Key() string { return u.key }

func (u *Upload) Label() string {
	if u.name != "" {
		return u.name
	}
	return "local file"
}

func (u *Upload) Open(ctx context.Context) (*core.Table, error) {
	return tsv.ParseNamed(bytes.NewReader(u.data), u.name)
}
