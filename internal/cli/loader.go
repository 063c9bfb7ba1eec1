package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/minq/internal/engine"
	"github.com/roach88/minq/internal/sema"
)

// LoadError reports a source file that could not be read.
type LoadError struct {
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// LoadSource reads a minq source file. The conventional extension is .mq,
// but any readable file is accepted.
func LoadSource(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &LoadError{Path: path, Message: "file not found"}
		}
		return "", &LoadError{Path: path, Message: err.Error()}
	}
	if info.IsDir() {
		return "", &LoadError{Path: path, Message: "is a directory, expected a source file"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &LoadError{Path: path, Message: err.Error()}
	}
	return string(data), nil
}

// sourceName returns the base name of a source path for display.
func sourceName(path string) string {
	return filepath.Base(path)
}

// diagnosticCode maps a pipeline error to its diagnostic code. Semantic
// and runtime errors carry their own codes; syntax errors get ErrCodeParse.
func diagnosticCode(err error) string {
	var semaErr *sema.Error
	if errors.As(err, &semaErr) {
		return semaErr.Code
	}
	var runErr *engine.RuntimeError
	if errors.As(err, &runErr) {
		return runErr.Code
	}
	return ErrCodeParse
}
