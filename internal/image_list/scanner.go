package image_list

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"ferrite/internal/decode"
)

// Scanner tracks the viewable images in the active image's directory so the
// viewer can step to the previous or next file in name order. The listing
// is rebuilt lazily whenever the directory of interest changes.
type Scanner struct {
	logger *zap.Logger
	dir    string
	images []string
}

func New(logger *zap.Logger) *Scanner {
	return &Scanner{logger: logger}
}

// Scan lists the supported images directly inside dir, sorted by name.
func (s *Scanner) Scan(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory: %w", err)
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if !decode.IsSupported(entry.Name()) {
			continue
		}
		images = append(images, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(images)

	s.dir = dir
	s.images = images
	s.logger.Debug("Scanned directory",
		zap.String("dir", dir),
		zap.Int("images", len(images)),
	)

	return nil
}

// Neighbors returns the paths adjacent to path within its directory, in
// name order. Either result is "" when there is nothing on that side or
// when path is not a listed image.
func (s *Scanner) Neighbors(path string) (prev, next string) {
	dir := filepath.Dir(path)
	if dir != s.dir {
		if err := s.Scan(dir); err != nil {
			s.logger.Warn("Failed to scan directory", zap.String("dir", dir), zap.Error(err))
			return "", ""
		}
	}

	idx := sort.SearchStrings(s.images, path)
	if idx >= len(s.images) || s.images[idx] != path {
		return "", ""
	}

	if idx > 0 {
		prev = s.images[idx-1]
	}
	if idx+1 < len(s.images) {
		next = s.images[idx+1]
	}

	return prev, next
}

// Len returns the number of images in the scanned directory.
func (s *Scanner) Len() int {
	return len(s.images)
}
