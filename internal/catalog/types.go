package catalog

// ImageDimensions is the final image size of a structure after finalize.
type ImageDimensions struct {
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

// StructureInfo holds one structure entry from structure_infos.json.
type StructureInfo struct {
	Name            string          `json:"name"`
	ImageDimensions ImageDimensions `json:"imageDimensions"`
}

// RenderParams holds the per-structure camera and output resolution.
type RenderParams struct {
	OrthoScale       float64 `json:"orthoScale"`
	CameraX          float64 `json:"cameraX"`
	CameraY          float64 `json:"cameraY"`
	CameraZ          float64 `json:"cameraZ"`
	ResolutionWidth  int     `json:"resolutionWidth"`
	ResolutionHeight int     `json:"resolutionHeight"`
}
