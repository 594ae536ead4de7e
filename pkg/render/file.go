package render

import (
	"fmt"
	"os"
	"path/filepath"
)

// PersistenceError reports a failed write of an already rendered report.
type PersistenceError struct {
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("write report %s: %v", e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// WriteFile writes data to path, creating parent directories. The file is
// closed on every path; any failure comes back as a *PersistenceError.
func WriteFile(path string, data []byte) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if mkErr := os.MkdirAll(dir, 0755); mkErr != nil {
			return &PersistenceError{Path: path, Err: mkErr}
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &PersistenceError{Path: path, Err: cerr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &PersistenceError{Path: path, Err: err}
	}
	return nil
}
