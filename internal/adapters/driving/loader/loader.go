// Package loader turns a user-supplied argument into a document source.
package loader

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/lexmap/internal/core/domain"
)

// IsURL reports whether arg is an http or https URL.
func IsURL(arg string) bool {
	u, err := url.Parse(strings.TrimSpace(arg))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Load returns a URL source for URLs and reads anything else from disk.
func Load(arg string) (domain.Source, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return domain.Source{}, fmt.Errorf("%w: no file or url given", domain.ErrInvalidInput)
	}
	if IsURL(arg) {
		return domain.URLSource(arg), nil
	}

	content, err := os.ReadFile(arg)
	if err != nil {
		return domain.Source{}, fmt.Errorf("read %s: %w", arg, err)
	}
	return domain.FileSource(filepath.Base(arg), content), nil
}
