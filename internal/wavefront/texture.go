package wavefront

import (
	"fmt"
	"image"
	"path/filepath"
	"sync"

	"pictoria-renderer/internal/postprocess"
)

// TextureCache is a concurrency-safe cache of decoded map_Kd images keyed by
// absolute path. Every structure OBJ shares the same palette texture, so it
// is decoded once per run.
type TextureCache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	img *image.NRGBA
	err error
}

func NewTextureCache() *TextureCache {
	return &TextureCache{items: make(map[string]*cacheEntry)}
}

// Resolve loads and caches a texture. Failed loads are cached too.
func (c *TextureCache) Resolve(path string) (*image.NRGBA, error) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}

	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img, entry.err
	}
	c.mu.RUnlock()

	img, err := LoadTexture(path)

	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, exists := c.items[path]; exists {
		return entry.img, entry.err
	}
	c.items[path] = &cacheEntry{img: img, err: err}
	return img, err
}

// Len returns the number of cached paths.
func (c *TextureCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadTexture decodes a PNG, JPEG or TGA texture.
func LoadTexture(path string) (*image.NRGBA, error) {
	img, err := postprocess.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("texture: %w", err)
	}
	return img, nil
}
