package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docsum/constants"
)

type DirStats struct {
	Scanned   uint32
	Matched   uint32
	Succeeded uint32
	Failed    uint32
}

// CollectFiles walks root and returns every supported document under it, in
// walk order. Unreadable entries are reported in skipped and do not stop the walk.
func CollectFiles(root string, skipHidden bool) (paths []string, skipped map[string]error, stats DirStats, err error) {
	if strings.TrimSpace(root) == "" {
		return nil, nil, DirStats{}, errors.New("root path is required")
	}
	skipped = map[string]error{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		stats.Scanned++
		if walkErr != nil {
			skipped[path] = walkErr
			stats.Failed++
			return nil // continue walking
		}
		if skipHidden && path != root && isHidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsAllowedFilename(path) {
			return nil
		}
		stats.Matched++
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return paths, skipped, stats, fmt.Errorf("walk: %w", err)
	}
	return paths, skipped, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
