package loot

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/google/uuid"
)

const gistTag = "droidsh loot"

// GistConfig configures a GistStore.
type GistConfig struct {
	Token  string
	Public bool
	// BaseURL overrides the GitHub API root, e.g. for GitHub Enterprise.
	BaseURL string
}

// GistStore shares each item as a GitHub gist. The location is the gist's
// HTML URL.
type GistStore struct {
	inner  *gh.Client
	public bool
	now    func() time.Time
}

// NewGistStore creates a gist-backed store authenticated with a token.
func NewGistStore(cfg GistConfig) (*GistStore, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("github token is required")
	}
	client := gh.NewClient(&http.Client{Transport: &tokenTransport{token: cfg.Token}})
	if cfg.BaseURL != "" {
		base := cfg.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("github base url %q: %w", cfg.BaseURL, err)
		}
		client.BaseURL = u
	}
	return &GistStore{inner: client, public: cfg.Public, now: time.Now}, nil
}

// tokenTransport adds Bearer token auth to HTTP requests.
type tokenTransport struct {
	token string
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("Authorization", "Bearer "+t.token)
	return http.DefaultTransport.RoundTrip(req)
}

func (s *GistStore) Store(ctx context.Context, item Item) (string, error) {
	if err := validate(item); err != nil {
		return "", err
	}
	name := fileName(uuid.NewString(), item.Kind, item.ContentType, s.now())
	gist := &gh.Gist{
		Description: gh.String(gistDescription(item)),
		Public:      gh.Bool(s.public),
		Files: map[gh.GistFilename]gh.GistFile{
			gh.GistFilename(name): {Content: gh.String(string(item.Data))},
		},
	}
	created, _, err := s.inner.Gists.Create(ctx, gist)
	if err != nil {
		return "", fmt.Errorf("loot: create gist: %w", err)
	}
	return created.GetHTMLURL(), nil
}

// List returns the authenticated user's gists created by this tool.
func (s *GistStore) List(ctx context.Context) ([]Record, error) {
	opts := &gh.GistListOptions{ListOptions: gh.ListOptions{PerPage: 100}}
	var out []Record
	for {
		gists, resp, err := s.inner.Gists.List(ctx, "", opts)
		if err != nil {
			return nil, fmt.Errorf("loot: list gists: %w", err)
		}
		for _, g := range gists {
			rec, ok := gistRecord(g)
			if ok {
				out = append(out, rec)
			}
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func gistDescription(item Item) string {
	return fmt.Sprintf("%s [%s %s] %s", gistTag, item.Kind, item.ContentType, item.Label)
}

func gistRecord(g *gh.Gist) (Record, bool) {
	rest, ok := strings.CutPrefix(g.GetDescription(), gistTag+" [")
	if !ok {
		return Record{}, false
	}
	meta, label, ok := strings.Cut(rest, "] ")
	if !ok {
		meta, ok = strings.CutSuffix(rest, "]")
		if !ok {
			return Record{}, false
		}
	}
	kind, contentType, _ := strings.Cut(meta, " ")

	rec := Record{
		ID:          g.GetID(),
		Kind:        kind,
		ContentType: contentType,
		Label:       label,
		Location:    g.GetHTMLURL(),
		CreatedAt:   g.GetCreatedAt().Time,
	}
	for _, f := range g.Files {
		rec.Size += f.GetSize()
	}
	return rec, true
}
