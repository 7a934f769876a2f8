package dataset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/de-tools/pillar-atlas/pkg/models/domain"
)

// ErrSourceNotAllowed is returned for local sources that fall outside the data directory.
var ErrSourceNotAllowed = errors.New("dataset source not allowed")

type rootedLoader struct {
	Loader
	dir string
}

// NewRootedLoader confines local sources to dir: only relative paths that stay inside it are
// opened, and an empty dir disables local sources. s3:// sources pass through unchanged.
func NewRootedLoader(inner Loader, dir string) Loader {
	return &rootedLoader{Loader: inner, dir: dir}
}

func (l *rootedLoader) Load(ctx context.Context, source string) (*domain.Dataset, error) {
	if strings.HasPrefix(source, s3Scheme) {
		return l.Loader.Load(ctx, source)
	}
	if l.dir == "" {
		return nil, fmt.Errorf("%w: local sources are disabled: %s", ErrSourceNotAllowed, source)
	}
	if !filepath.IsLocal(source) {
		return nil, fmt.Errorf("%w: %s is not a path inside the data directory", ErrSourceNotAllowed, source)
	}

	root, err := os.OpenRoot(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open data directory %s: %w", l.dir, err)
	}
	defer root.Close()

	// os.Root also refuses symlinks that resolve outside the directory.
	file, err := root.Open(source)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %v", ErrSourceNotAllowed, source, err)
	}
	defer file.Close()

	return l.Loader.LoadReader(ctx, source, file)
}
