// Package tokenstore provides the persistence backends for the session
// token: a file under the user config directory, a Redis key shared
// between terminals, and an in-memory store for tests and one-shot use.
package tokenstore

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/notimetolie/nttl-cli/internal/core/domain"
)

// FileStore persists the token as a JSON file readable only by its owner.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

type tokenFile struct {
	AccessToken string `json:"access_token"`
}

func (s *FileStore) Get(_ context.Context) (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", domain.ErrNoToken
		}
		return "", err
	}

	var tf tokenFile
	if err := json.Unmarshal(raw, &tf); err != nil {
		return "", err
	}
	if tf.AccessToken == "" {
		return "", domain.ErrNoToken
	}
	return tf.AccessToken, nil
}

func (s *FileStore) Set(_ context.Context, token string) error {
	raw, err := json.Marshal(tokenFile{AccessToken: token})
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0o600)
}

func (s *FileStore) Clear(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
