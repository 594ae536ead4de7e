package sandbox

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("empty config", func(t *testing.T) {
		s, err := New(Config{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.MaxReportSize() != 0 {
			t.Errorf("expected no limit, got %d", s.MaxReportSize())
		}
	})

	t.Run("with size", func(t *testing.T) {
		s, err := New(Config{MaxReportSize: "10MB"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.MaxReportSize() != 10*1024*1024 {
			t.Errorf("got %d", s.MaxReportSize())
		}
	})

	t.Run("invalid size", func(t *testing.T) {
		if _, err := New(Config{MaxReportSize: "lots"}); err == nil {
			t.Fatal("expected error for invalid size")
		}
	})
}

func TestCheckPath(t *testing.T) {
	tmp := t.TempDir()
	loot := filepath.Join(tmp, "loot")
	secret := filepath.Join(loot, "secret")

	s, err := New(Config{
		AllowedPaths: []string{loot},
		DeniedPaths:  []string{secret},
	})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		ok   bool
	}{
		{"allowed dir itself", loot, true},
		{"file under allowed", filepath.Join(loot, "sms_dump.txt"), true},
		{"nested under allowed", filepath.Join(loot, "a", "b.txt"), true},
		{"denied wins", filepath.Join(secret, "x.txt"), false},
		{"outside", filepath.Join(tmp, "other.txt"), false},
		{"prefix lookalike", loot + "2/x.txt", false},
		{"dotdot escape", filepath.Join(loot, "..", "x.txt"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.CheckPath(tt.path)
			if tt.ok && err != nil {
				t.Errorf("expected allowed, got %v", err)
			}
			if !tt.ok {
				if err == nil {
					t.Error("expected denial")
				} else if !errors.Is(err, ErrDenied) {
					t.Errorf("error %v does not wrap ErrDenied", err)
				}
			}
		})
	}
}

func TestCheckPathNoAllowList(t *testing.T) {
	s, _ := New(Config{})
	if err := s.CheckPath(filepath.Join(t.TempDir(), "any.txt")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckReport(t *testing.T) {
	dir := t.TempDir()
	s, err := New(Config{AllowedPaths: []string{dir}, MaxReportSize: "1KB"})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.CheckReport(filepath.Join(dir, "r.txt"), 1024); err != nil {
		t.Errorf("at limit: %v", err)
	}
	if err := s.CheckReport(filepath.Join(dir, "r.txt"), 1025); !errors.Is(err, ErrDenied) {
		t.Errorf("over limit: %v", err)
	}

	var nilBox *Sandbox
	if err := nilBox.CheckReport("/anywhere", 1<<30); err != nil {
		t.Errorf("nil sandbox should allow, got %v", err)
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"100", 100, false},
		{"100B", 100, false},
		{"1KB", 1024, false},
		{"10mb", 10 * 1024 * 1024, false},
		{" 1.5GB ", 1536 * 1024 * 1024, false},
		{"1TB", 1 << 40, false},
		{"abc", 0, true},
		{"-5", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSize(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFormatSize(t *testing.T) {
	tests := map[int64]string{
		0:       "0B",
		512:     "512B",
		1024:    "1.0KB",
		1536:    "1.5KB",
		1 << 20: "1.0MB",
		3 << 30: "3.0GB",
		1 << 40: "1.0TB",
	}
	for in, want := range tests {
		if got := FormatSize(in); got != want {
			t.Errorf("FormatSize(%d) = %q, want %q", in, got, want)
		}
	}
}
