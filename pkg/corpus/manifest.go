package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the file written next to the fixtures by Prepare.
const ManifestName = "manifest.yaml"

// Manifest records how a fixture directory was built.
type Manifest struct {
	GeneratedAt time.Time      `yaml:"generated_at"`
	Language    string         `yaml:"language,omitempty"`
	Fixtures    []FixtureEntry `yaml:"fixtures"`
	Skipped     []SkippedBook  `yaml:"skipped,omitempty"`
}

// FixtureEntry describes one written fixture and the books it contains.
type FixtureEntry struct {
	Fixture `yaml:",inline"`
	BookIDs []string `yaml:"book_ids"`
}

// SkippedBook is a book that was not added to the corpus.
type SkippedBook struct {
	ID     string `yaml:"id"`
	Reason string `yaml:"reason"`
}

// WriteManifest writes manifest.yaml into dir.
func WriteManifest(dir string, m *Manifest) error {
	yamlBytes, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestName)
	if err := os.WriteFile(path, yamlBytes, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}
	return nil
}

// ReadManifest loads manifest.yaml from dir.
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest file: %w", err)
	}
	return &m, nil
}
