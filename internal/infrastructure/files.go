package infrastructure

import (
	"fmt"
	"os"
	"strings"
)

// FindByPrefix returns the name of the first entry of dir (in lexical order)
// whose name starts with prefix, or "" when there is none. yt-dlp picks the
// final extension itself, so the produced file can only be found this way.
func FindByPrefix(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to list output directory: %w", err)
	}

	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), prefix) {
			return entry.Name(), nil
		}
	}

	return "", nil
}
