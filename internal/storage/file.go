package storage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
)

// File names inside the state directory.
const (
	SessionFileName = "session.yaml"
	KeyFileName     = "session.key"
)

const fileFormatVersion = 1

// fileDocument is the on-disk layout of session.yaml. Entry values are
// base64(nonce || ciphertext) with the entry key as additional data.
type fileDocument struct {
	Version int               `yaml:"version"`
	Cipher  string            `yaml:"cipher"`
	Entries map[string]string `yaml:"entries,omitempty"`
}

// FileStore keeps sealed values in a YAML file next to its key file.
type FileStore struct {
	mu      sync.Mutex
	dir     string
	path    string
	keyPath string
}

// NewFileStore creates a FileStore in dir. Nothing is written until the
// first Set.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("storage: file store dir is required")
	}
	return &FileStore{
		dir:     dir,
		path:    filepath.Join(dir, SessionFileName),
		keyPath: filepath.Join(dir, KeyFileName),
	}, nil
}

// Get returns the value for key.
func (s *FileStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return "", storageErr("read session file", err)
	}
	encoded, ok := doc.Entries[key]
	if !ok {
		return "", domain.ErrTokenNotFound
	}

	sl, err := s.sealer(doc.Cipher, false)
	if err != nil {
		return "", storageErr("load key", err)
	}
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", storageErr("decode entry", err)
	}
	plain, err := sl.open(sealed, []byte(key))
	if err != nil {
		return "", storageErr("open entry", err)
	}
	return string(plain), nil
}

// Set seals value and stores it under key.
func (s *FileStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return storageErr("read session file", err)
	}

	sl, err := s.sealer(doc.Cipher, true)
	if err != nil {
		return storageErr("load key", err)
	}
	sealed, err := sl.seal([]byte(value), []byte(key))
	if err != nil {
		return storageErr("seal entry", err)
	}

	doc.Cipher = sl.name
	if doc.Entries == nil {
		doc.Entries = make(map[string]string)
	}
	doc.Entries[key] = base64.StdEncoding.EncodeToString(sealed)

	if err := s.save(doc); err != nil {
		return storageErr("write session file", err)
	}
	return nil
}

// Clear removes key. The file is removed once it holds no entries.
func (s *FileStore) Clear(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return storageErr("read session file", err)
	}
	if _, ok := doc.Entries[key]; !ok {
		return nil
	}
	delete(doc.Entries, key)

	if len(doc.Entries) == 0 {
		if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return storageErr("remove session file", err)
		}
		return nil
	}
	if err := s.save(doc); err != nil {
		return storageErr("write session file", err)
	}
	return nil
}

// Location implements Store.
func (s *FileStore) Location() string { return s.path }

// Close implements Store.
func (s *FileStore) Close() error { return nil }

// load reads the session file. A missing file is an empty document.
func (s *FileStore) load() (*fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return &fileDocument{Version: fileFormatVersion}, nil
	}
	if err != nil {
		return nil, err
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Version != fileFormatVersion {
		return nil, fmt.Errorf("unsupported session file version %d", doc.Version)
	}
	return &doc, nil
}

func (s *FileStore) save(doc *fileDocument) error {
	doc.Version = fileFormatVersion
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, data)
}

// sealer loads the key file, creating it when create is set.
func (s *FileStore) sealer(cipherName string, create bool) (*sealer, error) {
	if cipherName == "" {
		cipherName = preferredCipher()
	}

	data, err := os.ReadFile(s.keyPath)
	switch {
	case err == nil:
		key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", s.keyPath, err)
		}
		return newSealer(key, cipherName)
	case errors.Is(err, fs.ErrNotExist) && create:
		key, err := newSealKey()
		if err != nil {
			return nil, err
		}
		encoded := base64.StdEncoding.EncodeToString(key) + "\n"
		if err := writeFileAtomic(s.keyPath, []byte(encoded)); err != nil {
			return nil, err
		}
		return newSealer(key, cipherName)
	default:
		return nil, err
	}
}

// writeFileAtomic writes data to a temp file in the same directory with mode
// 0600 and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
