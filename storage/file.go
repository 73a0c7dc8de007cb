package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// fileDoc is the on-disk layout
type fileDoc struct {
	Values map[string]string `toml:"values"`
}

// FileKV is a KV backed by a TOML file
// Every Set rewrites the file through a temp file and rename; a sidecar lock file
// serializes processes sharing the same path
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV creates a store at path; the file is created on first Set
func NewFileKV(path string) *FileKV {
	return &FileKV{path: path}
}

// Path returns the backing file path
func (f *FileKV) Path() string {
	return f.path
}

func (f *FileKV) Get(key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var value string
	var ok bool
	err := f.withLock(false, func() error {
		doc, err := f.read()
		if err != nil {
			return err
		}
		value, ok = doc.Values[key]
		return nil
	})
	return value, ok, err
}

func (f *FileKV) Set(key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.withLock(true, func() error {
		doc, err := f.read()
		if err != nil {
			return err
		}
		doc.Values[key] = value
		return f.write(doc)
	})
}

func (f *FileKV) Keys(prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var keys []string
	err := f.withLock(false, func() error {
		doc, err := f.read()
		if err != nil {
			return err
		}
		for k := range doc.Values {
			if strings.HasPrefix(k, prefix) {
				keys = append(keys, k)
			}
		}
		return nil
	})
	return keys, err
}

// withLock runs fn holding the advisory lock on the sidecar file
func (f *FileKV) withLock(exclusive bool, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	lf, err := os.OpenFile(f.path+".lock", os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	defer lf.Close()

	if err := lockFile(lf, exclusive); err != nil {
		return fmt.Errorf("lock %s: %w", f.path, err)
	}
	defer unlockFile(lf)

	return fn()
}

func (f *FileKV) read() (fileDoc, error) {
	doc := fileDoc{Values: make(map[string]string)}
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, err
	}
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return doc, fmt.Errorf("decode %s: %w", f.path, err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	return doc, nil
}

func (f *FileKV) write(doc fileDoc) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
