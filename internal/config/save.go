package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// SaveProject writes the serialized fields of cfg to dir/.ftag.json,
// replacing any existing file atomically. It returns the written path.
func SaveProject(dir string, cfg Config) (string, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}

	data = append(data, '\n')

	path := filepath.Join(dir, FileName)

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}
