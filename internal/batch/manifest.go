package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one baked texture in the output manifest.
type ManifestEntry struct {
	Mesh       string   `json:"mesh"`
	Texture    string   `json:"texture"`
	Property   string   `json:"property"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Encoder    string   `json:"encoder"`
	Compressed bool     `json:"compressed"`
	Warnings   []string `json:"warnings,omitempty"`
}

// WriteManifest writes the successful bakes in results as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success || r.Output == "" {
			continue
		}
		entries = append(entries, ManifestEntry{
			Mesh:       r.Mesh,
			Texture:    r.Output,
			Property:   r.Property,
			Width:      r.Width,
			Height:     r.Height,
			Encoder:    r.Encoder,
			Compressed: r.Compressed,
			Warnings:   r.Warnings,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
