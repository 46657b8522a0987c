package optimize

import (
	"path/filepath"
	"strings"
)

// NewMediaID derives the storage key for the optimized rendition of mediaID.
// When the target extension matches the source's, an ".optimized" infix keeps
// the new key distinct; otherwise the target extension is appended so the
// original key remains visible in the new one.
func NewMediaID(mediaID, targetExt string) string {
	if targetExt != "" && !strings.HasPrefix(targetExt, ".") {
		targetExt = "." + targetExt
	}
	ext := filepath.Ext(mediaID)
	if strings.EqualFold(ext, targetExt) {
		return strings.TrimSuffix(mediaID, ext) + ".optimized" + ext
	}
	return mediaID + targetExt
}

// OutputPath places the optimized rendition of inputPath next to it in the
// same directory, named after the derived media id.
func OutputPath(inputPath, targetExt string) string {
	return filepath.Join(filepath.Dir(inputPath), filepath.Base(NewMediaID(filepath.Base(inputPath), targetExt)))
}
