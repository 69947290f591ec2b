// Package images is the pipeline's resumability layer: deterministic
// artifact paths per (design house, product, year) and the existence checks
// each stage consults before performing any paid operation.
package images

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/lepinkainen/vitrine/internal/catalog"
	"github.com/lepinkainen/vitrine/internal/fileutil"
)

// ProcessedExt is the fixed format processed artifacts are normalized to.
const ProcessedExt = ".png"

// Store locates stage artifacts under the discovery and processed roots.
// All paths are derived purely from slugs and the year, so any interrupted
// run can be restarted without a job ledger.
type Store struct {
	DiscoveryRoot string
	ProcessedRoot string
	// HostedDomain is the hosting provider's domain marker; a record whose
	// image URL contains it counts as already enriched.
	HostedDomain string
}

// DiscoveryPath returns the deterministic path of the raw downloaded image.
func (s Store) DiscoveryPath(designHouse, product, year string) string {
	return filepath.Join(s.DiscoveryRoot, relativePath(designHouse, product, year, ".jpg"))
}

// ProcessedPath returns the deterministic path of the background-stripped
// image.
func (s Store) ProcessedPath(designHouse, product, year string) string {
	return filepath.Join(s.ProcessedRoot, relativePath(designHouse, product, year, ProcessedExt))
}

// HasDiscovery reports whether the discovery artifact already exists, i.e.
// the image search for this product can be skipped.
func (s Store) HasDiscovery(designHouse, product, year string) bool {
	return fileutil.FileExists(s.DiscoveryPath(designHouse, product, year))
}

// HasProcessed reports whether the processed artifact already exists.
func (s Store) HasProcessed(designHouse, product, year string) bool {
	return fileutil.FileExists(s.ProcessedPath(designHouse, product, year))
}

// ProcessedMirror maps a discovery-root-relative image path to its processed
// counterpart under the processed root, extension normalized.
func (s Store) ProcessedMirror(relPath string) string {
	ext := filepath.Ext(relPath)
	return filepath.Join(s.ProcessedRoot, strings.TrimSuffix(relPath, ext)+ProcessedExt)
}

// Hosted reports whether the record is already enriched: its image URL is
// set and points at the expected hosting provider.
func (s Store) Hosted(rec catalog.Record) bool {
	image := rec.Image()
	return image != "" && strings.Contains(image, s.HostedDomain)
}

func relativePath(designHouse, product, year, ext string) string {
	filename := fmt.Sprintf("%s-%s%s", fileutil.Slugify(product), year, ext)
	return filepath.Join(fileutil.Slugify(designHouse), filename)
}

// ValidImage reports whether data decodes as an image. Used to reject
// search downloads that are really HTML error pages.
func ValidImage(data []byte) bool {
	_, err := imaging.Decode(bytes.NewReader(data))
	return err == nil
}
