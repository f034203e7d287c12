package finalize

import (
	"encoding/json"
	"os"

	"pictoria-renderer/internal/catalog"
)

// ManifestEntry represents one finalized structure in the manifest.
type ManifestEntry struct {
	Name   string `json:"name"`
	Image  string `json:"image"`
	WebP   string `json:"webp,omitempty"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// WriteManifest writes the entries of successfully finalized structures to
// path.
func WriteManifest(path string, structures []catalog.StructureInfo, results []Result, webp bool) error {
	ok := make(map[string]bool, len(results))
	for _, r := range results {
		ok[r.Name] = r.Success
	}

	entries := make([]ManifestEntry, 0, len(structures))
	for _, st := range structures {
		if !ok[st.Name] {
			continue
		}
		e := ManifestEntry{
			Name:   st.Name,
			Image:  st.Name + ".png",
			Width:  st.ImageDimensions.Width,
			Height: st.ImageDimensions.Height,
		}
		if webp {
			e.WebP = st.Name + ".webp"
		}
		entries = append(entries, e)
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
