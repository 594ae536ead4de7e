package loot

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

const indexName = "index.jsonl"

// FileStore writes each item to its own file in a directory and appends its
// record to a JSON-lines index next to them.
type FileStore struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// NewFileStore creates the directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("loot: file store needs a directory")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("loot: create %s: %w", dir, err)
	}
	return &FileStore{dir: dir, now: time.Now}, nil
}

func (s *FileStore) Store(_ context.Context, item Item) (string, error) {
	if err := validate(item); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{
		ID:          uuid.NewString(),
		Kind:        item.Kind,
		ContentType: item.ContentType,
		Label:       item.Label,
		CreatedAt:   s.now().UTC(),
		Size:        len(item.Data),
	}
	rec.Location = filepath.Join(s.dir, fileName(rec.ID, rec.Kind, rec.ContentType, rec.CreatedAt))

	if err := os.WriteFile(rec.Location, item.Data, 0o600); err != nil {
		return "", fmt.Errorf("loot: write %s: %w", rec.Location, err)
	}
	if err := s.appendIndex(rec); err != nil {
		return "", err
	}
	return rec.Location, nil
}

func (s *FileStore) appendIndex(rec Record) (err error) {
	f, err := os.OpenFile(filepath.Join(s.dir, indexName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("loot: open index: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("loot: close index: %w", cerr)
		}
	}()
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("loot: encode record: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("loot: write index: %w", err)
	}
	return nil
}

// List returns records in the order they were stored.
func (s *FileStore) List(_ context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, indexName))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loot: open index: %w", err)
	}
	defer f.Close()

	var out []Record
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("loot: index line %d: %w", n, err)
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("loot: read index: %w", err)
	}
	return out, nil
}

// Get reads the file behind the indexed record id.
func (s *FileStore) Get(ctx context.Context, id string) ([]byte, error) {
	recs, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, r := range recs {
		if r.ID == id {
			data, err := os.ReadFile(r.Location)
			if err != nil {
				return nil, fmt.Errorf("loot: read %s: %w", r.Location, err)
			}
			return data, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
}
