// internal/appcore/outdir.go
package appcore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// ErrOutputExists is returned for an existing output directory without force.
var ErrOutputExists = errors.New("output directory already exists")

// PrepareOutDir creates dir. An existing dir is an error unless force is
// set, in which case it is removed first. A dir that is, or contains, one
// of protect is never removed.
func PrepareOutDir(dir string, force bool, protect []string, log logrus.FieldLogger) error {
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		if !force {
			return fmt.Errorf("%w: %s (use --force to replace it)", ErrOutputExists, dir)
		}
		for _, p := range protect {
			if within(dir, p) {
				return fmt.Errorf("refusing to replace %s: it contains input %s", dir, p)
			}
		}
		log.Warnf("Replacing existing output directory %s", dir)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove output directory: %w", err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return nil
}

// within reports whether path equals root or lies beneath it.
func within(root, path string) bool {
	r, err1 := filepath.Abs(root)
	p, err2 := filepath.Abs(path)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(r, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
