// Package snapshot loads a bookmark forest from a YAML seed file and
// feeds it through the reconciler, on startup and on an interval. It
// lets a deployment keep a profile mirrored from a file the same way a
// browser extension would keep one mirrored from its bookmark tree.
package snapshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader reads and parses the snapshot YAML file.
type Loader struct {
	filePath string
}

func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the snapshot file.
func (l *Loader) Load() (File, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot yaml: %w", err)
	}
	return file, nil
}
