// Package paths maps catalog entries to their on-disk locations.
package paths

import (
	"path/filepath"
	"strings"
)

// RenditionExt is the file extension of converted images.
const RenditionExt = ".jpg"

// Resolver computes source and rendition paths for world images. Rendition
// trees mirror the source tree: one directory per world ID.
type Resolver struct {
	scanRoot  string
	thumbRoot string
	viewRoot  string
}

// NewResolver creates a resolver over the three configured roots.
func NewResolver(scanRoot, thumbRoot, viewRoot string) *Resolver {
	return &Resolver{
		scanRoot:  scanRoot,
		thumbRoot: thumbRoot,
		viewRoot:  viewRoot,
	}
}

// ScanRoot returns the root of the source tree.
func (r *Resolver) ScanRoot() string { return r.scanRoot }

// WorldDir returns the source directory for a world.
func (r *Resolver) WorldDir(worldID string) string {
	return filepath.Join(r.scanRoot, worldID)
}

// Origin returns the path of a source image.
func (r *Resolver) Origin(worldID, filename string) string {
	return filepath.Join(r.scanRoot, worldID, filename)
}

// Thumb returns the thumbnail rendition path for a source image.
func (r *Resolver) Thumb(worldID, filename string) string {
	return filepath.Join(r.thumbRoot, worldID, renditionName(filename))
}

// View returns the view rendition path for a source image.
func (r *Resolver) View(worldID, filename string) string {
	return filepath.Join(r.viewRoot, worldID, renditionName(filename))
}

// renditionName swaps the source extension for the rendition extension.
func renditionName(filename string) string {
	ext := filepath.Ext(filename)
	return strings.TrimSuffix(filename, ext) + RenditionExt
}

// imageExts lists the source extensions picked up by the scanner.
var imageExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".jfif": true,
	".webp": true,
	".bmp":  true,
}

// IsImageFile reports whether a filename looks like a convertible image.
func IsImageFile(filename string) bool {
	return imageExts[strings.ToLower(filepath.Ext(filename))]
}
