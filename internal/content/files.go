package content

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// LoadDir reads every *.json file in dir as a case-data bundle and returns
// a repository over them. Files are loaded in name order so case listing is
// stable across restarts.
func LoadDir(dir string, logger *slog.Logger) (*MemoryRepository, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read content dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var bundles []Bundle
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read bundle %s: %w", name, err)
		}

		var b Bundle
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, fmt.Errorf("failed to parse bundle %s: %w", name, err)
		}
		if b.Case.ID == "" || b.Case.CaseDataID == "" {
			logger.Warn("Skipping bundle without case metadata", "file", name)
			continue
		}
		bundles = append(bundles, b)
		logger.Info("Loaded case bundle",
			"file", name,
			"case_id", b.Case.ID,
			"stories", len(b.Stories),
			"clues", len(b.Clues),
			"hints", len(b.Hints),
			"questions", len(b.Questions))
	}

	return NewMemoryRepository(bundles...), nil
}
