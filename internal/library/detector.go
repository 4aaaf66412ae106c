package library

import (
	"io/fs"
	"path/filepath"
	"strings"
)

// videoExtensions is the fixed set of filename extensions treated as video
// content, matched case-insensitively.
var videoExtensions = map[string]struct{}{
	".mkv": {},
	".mp4": {},
	".avi": {},
	".m4v": {},
	".mov": {},
	".wmv": {},
}

// HasRealMedia walks dir recursively and reports whether any video file that
// is not a stub (filename ending in stubSuffix) exists. A missing directory
// reports false rather than erroring so brand-new shows can have their
// directory created on demand by the stub manager.
func HasRealMedia(dir, stubSuffix string) bool {
	found := false
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// Missing root or unreadable subtree counts as no media.
			return nil
		}
		if found || entry.IsDir() {
			if found {
				return fs.SkipAll
			}
			return nil
		}
		name := entry.Name()
		if !IsVideoFile(name) {
			return nil
		}
		if strings.HasSuffix(name, stubSuffix) {
			return nil
		}
		found = true
		return fs.SkipAll
	})
	return found
}

// IsVideoFile reports whether name carries a recognized video extension.
func IsVideoFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := videoExtensions[ext]
	return ok
}
