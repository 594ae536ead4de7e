// Package loot stores the artefacts commands collect from a device and keeps
// an index of them.
package loot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"strings"
	"time"
)

// Item is one artefact to store.
type Item struct {
	Kind        string // e.g. "android.sms"
	ContentType string
	Label       string // free text shown in listings
	Data        []byte
}

// Record describes a stored item.
type Record struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	ContentType string    `json:"content_type"`
	Label       string    `json:"label"`
	Location    string    `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int       `json:"size"`
}

// Store persists items. Store returns where the item ended up.
type Store interface {
	Store(ctx context.Context, item Item) (string, error)
	List(ctx context.Context) ([]Record, error)
}

// Getter is implemented by stores that can return what they hold.
type Getter interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("loot not found")

// Backend names accepted in Config.
const (
	BackendNone = "none"
	BackendFile = "file"
	BackendBolt = "bolt"
	BackendGist = "gist"
)

// Config selects and configures a backend.
type Config struct {
	Backend string `yaml:"backend" toml:"backend"`
	Dir     string `yaml:"dir" toml:"dir"`
	DBPath  string `yaml:"db_path" toml:"db_path"`
	Token   string `yaml:"gist_token" toml:"gist_token"`
	Public  bool   `yaml:"public" toml:"public"`
}

// Open builds the configured store. It returns a nil Store for BackendNone.
// Callers should close the store when it implements io.Closer.
func Open(cfg Config) (Store, error) {
	var (
		s   Store
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendNone:
		return nil, nil
	case BackendFile:
		s, err = NewFileStore(cfg.Dir)
	case BackendBolt:
		s, err = NewBoltStore(cfg.DBPath)
	case BackendGist:
		s, err = NewGistStore(GistConfig{Token: cfg.Token, Public: cfg.Public})
	default:
		return nil, fmt.Errorf("loot: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Close closes s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func validate(item Item) error {
	if item.Kind == "" {
		return fmt.Errorf("loot: item kind is required")
	}
	return nil
}

// extension picks a file extension for a content type.
func extension(contentType string) string {
	base, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ".bin"
	}
	switch base {
	case "text/plain":
		return ".txt"
	case "application/json":
		return ".json"
	case "text/csv":
		return ".csv"
	}
	if exts, _ := mime.ExtensionsByType(base); len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}

func fileName(id, kind, contentType string, at time.Time) string {
	k := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(kind)
	return at.UTC().Format("20060102150405") + "_" + k + "_" + id[:8] + extension(contentType)
}
