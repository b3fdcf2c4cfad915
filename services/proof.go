package services

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
)

// ProofStore keeps the optional evidence a user attaches to a pending mission.
// Satisfied by utils.LocalStorage and utils.R2Storage.
type ProofStore interface {
	Save(ctx context.Context, fileHeader *multipart.FileHeader, key string) (string, error)
	Remove(ctx context.Context, key string) error
}

// Proof is an attached artifact. It never affects the economy.
type Proof struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// ProofKey builds the object key for an upload, e.g. "proofs/<mission>/my-desk.jpg".
func ProofKey(missionID, filename string) string {
	base := filepath.Base(filename)
	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" {
		ext = ".jpg"
	}
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "proof"
	}
	return "proofs/" + missionID + "/" + name + ext
}
