// internal/modelstore/hub.go
package modelstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/unclebandit/tourism-predictor/internal/config"
	appErrors "github.com/unclebandit/tourism-predictor/internal/errors"
	"github.com/unclebandit/tourism-predictor/internal/model"
)

const maxArtifactBytes = 256 << 20

// HubStore downloads artifacts from a model hub using the
// {endpoint}/{repo}/resolve/{revision}/{file} layout and keeps a copy on
// disk so later starts do not hit the network.
type HubStore struct {
	Endpoint string
	Token    string
	CacheDir string
	Client   *http.Client
	logger   *slog.Logger
}

func NewHubStore(cfg config.HubConfig, logger *slog.Logger) *HubStore {
	return &HubStore{
		Endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		Token:    cfg.Token,
		CacheDir: cfg.CacheDir,
		Client:   &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

func (s *HubStore) Fetch(ctx context.Context, key model.ArtifactKey) ([]byte, error) {
	cachePath := s.cachePath(key)
	if cachePath != "" {
		if data, err := os.ReadFile(cachePath); err == nil {
			s.logger.Info("artifact served from cache", slog.String("path", cachePath))
			return data, nil
		}
	}

	u := s.resolveURL(key)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	s.logger.Info("downloading artifact", slog.String("url", u))
	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", u, appErrors.ErrArtifactNotFound)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%s: unexpected status %s", u, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxArtifactBytes {
		return nil, fmt.Errorf("%s: artifact larger than %d bytes", u, maxArtifactBytes)
	}

	if cachePath != "" {
		if err := writeCache(cachePath, data); err != nil {
			s.logger.Warn("failed to cache artifact", slog.String("path", cachePath), slog.String("error", err.Error()))
		}
	}
	return data, nil
}

// Evict removes the cached copy of key. It reports whether a copy existed.
func (s *HubStore) Evict(key model.ArtifactKey) (bool, error) {
	path := s.cachePath(key)
	if path == "" {
		return false, nil
	}
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	s.logger.Warn("evicted cached artifact", slog.String("path", path))
	return true, nil
}

func (s *HubStore) resolveURL(key model.ArtifactKey) string {
	prefix := s.Endpoint
	if key.RepoType != "" && key.RepoType != "model" {
		prefix += "/" + key.RepoType + "s"
	}
	return fmt.Sprintf("%s/%s/resolve/%s/%s", prefix, key.RepoID, url.PathEscape(key.Revision), url.PathEscape(key.Filename))
}

func (s *HubStore) cachePath(key model.ArtifactKey) string {
	if s.CacheDir == "" {
		return ""
	}
	return filepath.Join(s.CacheDir, key.RepoType+"s", filepath.FromSlash(key.RepoID), key.Revision, key.Filename)
}

// writeCache renames a temp file into place so readers never see a partial blob.
func writeCache(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
