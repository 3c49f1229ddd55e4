// internal/model/artifact.go
package model

import (
	"fmt"
	"time"
)

// ArtifactKey addresses a classifier artifact in a model store.
type ArtifactKey struct {
	RepoID   string `json:"repo_id" yaml:"repo_id"`
	Filename string `json:"filename" yaml:"filename"`
	Revision string `json:"revision" yaml:"revision"`
	RepoType string `json:"repo_type" yaml:"repo_type"`
}

func (k ArtifactKey) String() string {
	return fmt.Sprintf("%s/%s@%s (%s)", k.RepoID, k.Filename, k.Revision, k.RepoType)
}

// StoredArtifact is a row of the model_artifacts table.
type StoredArtifact struct {
	ID         int       `db:"id" json:"id"`
	RepoID     string    `db:"repo_id" json:"repo_id"`
	Filename   string    `db:"filename" json:"filename"`
	Revision   string    `db:"revision" json:"revision"`
	RepoType   string    `db:"repo_type" json:"repo_type"`
	Blob       []byte    `db:"blob" json:"-"`
	SHA256     string    `db:"sha256" json:"sha256"`
	UploadedAt time.Time `db:"uploaded_at" json:"uploaded_at"`
}

func (a *StoredArtifact) Key() ArtifactKey {
	return ArtifactKey{RepoID: a.RepoID, Filename: a.Filename, Revision: a.Revision, RepoType: a.RepoType}
}
