// internal/repository/artifact_repository.go
package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

type ArtifactRepositoryInterface interface {
	GetByKey(ctx context.Context, key model.ArtifactKey) (*model.StoredArtifact, error)
	Put(ctx context.Context, key model.ArtifactKey, blob []byte) (*model.StoredArtifact, error)
	List(ctx context.Context) ([]model.StoredArtifact, error)
}

type ArtifactRepository struct {
	DB *sql.DB
}

// GetByKey returns appErrors.ErrArtifactNotFound when no row matches.
func (r *ArtifactRepository) GetByKey(ctx context.Context, key model.ArtifactKey) (*model.StoredArtifact, error) {
	query := `
        SELECT id, repo_id, filename, revision, repo_type, blob, sha256, uploaded_at
        FROM model_artifacts
        WHERE repo_id=$1 AND filename=$2 AND revision=$3 AND repo_type=$4
    `
	var a model.StoredArtifact
	err := r.DB.QueryRowContext(ctx, query, key.RepoID, key.Filename, key.Revision, key.RepoType).Scan(
		&a.ID, &a.RepoID, &a.Filename, &a.Revision, &a.RepoType, &a.Blob, &a.SHA256, &a.UploadedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrArtifactNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Put inserts or replaces the blob stored under key.
func (r *ArtifactRepository) Put(ctx context.Context, key model.ArtifactKey, blob []byte) (*model.StoredArtifact, error) {
	sum := sha256.Sum256(blob)
	a := &model.StoredArtifact{
		RepoID:     key.RepoID,
		Filename:   key.Filename,
		Revision:   key.Revision,
		RepoType:   key.RepoType,
		Blob:       blob,
		SHA256:     hex.EncodeToString(sum[:]),
		UploadedAt: time.Now(),
	}
	query := `
        INSERT INTO model_artifacts (repo_id, filename, revision, repo_type, blob, sha256, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (repo_id, filename, revision, repo_type)
        DO UPDATE SET blob=EXCLUDED.blob, sha256=EXCLUDED.sha256, uploaded_at=EXCLUDED.uploaded_at
        RETURNING id
    `
	err := r.DB.QueryRowContext(ctx, query,
		a.RepoID, a.Filename, a.Revision, a.RepoType, a.Blob, a.SHA256, a.UploadedAt,
	).Scan(&a.ID)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// List returns artifact metadata without blobs, newest first.
func (r *ArtifactRepository) List(ctx context.Context) ([]model.StoredArtifact, error) {
	query := `
        SELECT id, repo_id, filename, revision, repo_type, sha256, uploaded_at
        FROM model_artifacts
        ORDER BY uploaded_at DESC
    `
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	artifacts := []model.StoredArtifact{}
	for rows.Next() {
		var a model.StoredArtifact
		if err := rows.Scan(&a.ID, &a.RepoID, &a.Filename, &a.Revision, &a.RepoType, &a.SHA256, &a.UploadedAt); err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

var _ ArtifactRepositoryInterface = (*ArtifactRepository)(nil)
