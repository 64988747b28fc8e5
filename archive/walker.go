// Package archive builds Walk abstraction on top of "archive/zip" for
// batch-checking template archives.
package archive

import (
	"archive/zip"
	"fmt"
	"path"
	"strings"
)

// WalkFunc is the type of the function called for each template file in archive
// visited by Walk. The archive argument contains path to archive passed to Walk.
// The file argument is the zip.File structure for the matched entry. If an
// error is returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// templateExts lists entry extensions considered email templates.
var templateExts = map[string]bool{
	".html":  true,
	".htm":   true,
	".xhtml": true,
}

// IsTemplateName reports whether the entry name looks like an email template
// document.
func IsTemplateName(name string) bool {
	return templateExts[strings.ToLower(path.Ext(name))]
}

// Walk walks all template files in the archive, calling walkFn for each.
// Entries with path traversal components ("..") or absolute paths are
// rejected to prevent Zip Slip attacks.
func Walk(archive string, walkFn WalkFunc) error {

	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && IsTemplateName(name) {
			if err := walkFn(archive, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
