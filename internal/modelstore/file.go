// internal/modelstore/file.go
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

// FileStore reads {Root}/{repo id}/{filename} from local disk.
type FileStore struct {
	Root string
}

func (s *FileStore) Fetch(ctx context.Context, key model.ArtifactKey) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(s.Root, filepath.FromSlash(key.RepoID), key.Filename)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, appErrors.ErrArtifactNotFound)
	}
	return data, err
}
