package mesh

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a mesh snapshot document. The decoder is chosen by extension:
// .json, .yaml or .yml.
func Load(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("mesh: read %s: %w", path, err)
	}
	doc, err := Decode(raw, filepath.Ext(path))
	if err != nil {
		return Document{}, fmt.Errorf("mesh: %s: %w", path, err)
	}
	return doc, nil
}

// Decode parses a snapshot document in the format named by ext.
func Decode(raw []byte, ext string) (Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(raw, &doc); err != nil {
			return Document{}, fmt.Errorf("decode json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return Document{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return Document{}, fmt.Errorf("%w: %q", ErrFormat, ext)
	}
	for i := range doc.Meshes {
		if doc.Meshes[i].Name == "" {
			doc.Meshes[i].Name = fmt.Sprintf("mesh%d", i)
		}
	}
	return doc, nil
}

// Save writes doc in the format named by the extension of path.
func Save(path string, doc Document) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(doc, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	default:
		return fmt.Errorf("mesh: save %s: %w", path, ErrFormat)
	}
	if err != nil {
		return fmt.Errorf("mesh: encode %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
