package categorize

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrEmptyVocabulary = errors.New("category file lists no categories")

// vocabularyFile is the YAML layout of CATEGORIES_FILE:
//
//	categories:
//	  - salary
//	  - tax
type vocabularyFile struct {
	Categories []string `yaml:"categories"`
}

// LoadVocabulary reads category labels from a YAML file. Blank and duplicate
// labels are dropped; order is preserved.
func LoadVocabulary(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading categories: %w", err)
	}
	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing categories: %w", err)
	}
	seen := map[string]struct{}{}
	out := make([]string, 0, len(f.Categories))
	for _, c := range f.Categories {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, ErrEmptyVocabulary
	}
	return out, nil
}

// SaveVocabulary writes labels in the format LoadVocabulary reads.
func SaveVocabulary(path string, labels []string) error {
	data, err := yaml.Marshal(vocabularyFile{Categories: labels})
	if err != nil {
		return fmt.Errorf("marshaling categories: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}
	return nil
}
