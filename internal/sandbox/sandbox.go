// Package sandbox decides where the console may write reports and how large
// a single report may be.
package sandbox

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrDenied is wrapped by every policy rejection.
var ErrDenied = errors.New("sandbox: denied")

// Sandbox is the output policy for report files.
type Sandbox struct {
	allow   []string
	deny    []string
	maxSize int64 // 0 means unlimited
}

// Config mirrors the sandbox section of the config file.
type Config struct {
	AllowedPaths  []string `yaml:"allowed_paths" toml:"allowed_paths"`
	DeniedPaths   []string `yaml:"denied_paths" toml:"denied_paths"`
	MaxReportSize string   `yaml:"max_report_size" toml:"max_report_size"` // "512KB", "10MB"
}

// New resolves the configured paths to absolute form.
func New(cfg Config) (*Sandbox, error) {
	s := &Sandbox{}
	var err error
	if s.allow, err = absAll(cfg.AllowedPaths); err != nil {
		return nil, err
	}
	if s.deny, err = absAll(cfg.DeniedPaths); err != nil {
		return nil, err
	}
	if cfg.MaxReportSize != "" {
		if s.maxSize, err = ParseSize(cfg.MaxReportSize); err != nil {
			return nil, fmt.Errorf("sandbox: max_report_size %q: %w", cfg.MaxReportSize, err)
		}
	}
	return s, nil
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("sandbox: resolve %q: %w", p, err)
		}
		out = append(out, filepath.Clean(abs))
	}
	return out, nil
}

// CheckPath reports whether a report may be written to path. Denied paths
// win over allowed ones; with no allowed paths every non-denied path passes.
func (s *Sandbox) CheckPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("sandbox: resolve %q: %w", path, err)
	}
	for _, d := range s.deny {
		if within(abs, d) {
			return fmt.Errorf("%w: %s is under %s", ErrDenied, abs, d)
		}
	}
	if len(s.allow) == 0 {
		return nil
	}
	for _, a := range s.allow {
		if within(abs, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s is outside %s", ErrDenied, abs, strings.Join(s.allow, ", "))
}

// CheckSize rejects reports larger than the configured maximum.
func (s *Sandbox) CheckSize(n int) error {
	if s.maxSize > 0 && int64(n) > s.maxSize {
		return fmt.Errorf("%w: report is %s, limit is %s", ErrDenied, FormatSize(int64(n)), FormatSize(s.maxSize))
	}
	return nil
}

// CheckReport applies both the path and the size rule.
func (s *Sandbox) CheckReport(path string, size int) error {
	if s == nil {
		return nil
	}
	if err := s.CheckPath(path); err != nil {
		return err
	}
	return s.CheckSize(size)
}

// MaxReportSize returns the size limit in bytes, 0 when unlimited.
func (s *Sandbox) MaxReportSize() int64 { return s.maxSize }

func within(path, dir string) bool {
	return path == dir || strings.HasPrefix(path, dir+string(filepath.Separator))
}

var sizeUnits = []struct {
	suffix string
	mult   int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses sizes like "10MB" or "1.5GB". A bare number is bytes.
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for _, u := range sizeUnits {
		if num, ok := strings.CutSuffix(s, u.suffix); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
			if err != nil || f < 0 {
				return 0, fmt.Errorf("invalid size %q", s)
			}
			return int64(f * float64(u.mult)), nil
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid size %q", s)
	}
	return n, nil
}

// FormatSize renders a byte count with the largest fitting unit.
func FormatSize(n int64) string {
	for _, u := range sizeUnits[:len(sizeUnits)-1] {
		if n >= u.mult {
			return fmt.Sprintf("%.1f%s", float64(n)/float64(u.mult), u.suffix)
		}
	}
	return fmt.Sprintf("%dB", n)
}
