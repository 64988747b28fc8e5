// Package input gathers email template documents from files, directories and
// zip archives, decoding them to UTF-8.
package input

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"emc/archive"
)

// Document is a single template read from disk or archive, decoded to UTF-8.
type Document struct {
	// Name is the path relative to the gather source, always including the
	// base file name. For a single file it is just the base name.
	Name string
	// Data is the document body decoded to UTF-8.
	Data []byte
}

var zipSig = []byte("PK\x03\x04")

// isArchiveFile sniffs the file header for a zip signature, archives with
// misleading extensions are still recognized.
func isArchiveFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	sig := make([]byte, len(zipSig))
	if _, err := io.ReadFull(f, sig); err != nil {
		// too small to be an archive
		return false, nil
	}
	return bytes.Equal(sig, zipSig), nil
}

// decode converts document bytes to UTF-8 sniffing encoding from BOM and
// meta tags the way browsers do.
func decode(r io.Reader) ([]byte, error) {
	dr, err := charset.NewReader(r, "text/html")
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}
	return io.ReadAll(dr)
}

// Gather collects all template documents reachable from src. A source can be
// a single template file, a directory traversed recursively, or a zip
// archive. Documents are returned in natural name order so batch output is
// stable. The optional cp forces decoding of non UTF-8 entry names inside
// archives.
func Gather(ctx context.Context, src string, cp encoding.Encoding, log *zap.Logger) ([]Document, error) {

	if log == nil {
		log = zap.NewNop()
	}

	fi, err := os.Stat(src)
	if err != nil {
		return nil, fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	var docs []Document
	switch {
	case fi.Mode().IsDir():
		docs, err = gatherDir(ctx, src, log)
	case fi.Mode().IsRegular():
		isZip, zerr := isArchiveFile(src)
		if zerr != nil {
			return nil, fmt.Errorf("unable to check archive type: %w", zerr)
		}
		if isZip {
			docs, err = gatherArchive(ctx, src, cp, log)
		} else {
			docs, err = gatherFile(src)
		}
	default:
		return nil, fmt.Errorf("unexpected path mode for (%s)", src)
	}
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return natural.Less(docs[i].Name, docs[j].Name) })
	return docs, nil
}

func gatherFile(path string) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return []Document{{Name: filepath.Base(path), Data: data}}, nil
}

func gatherDir(ctx context.Context, dir string, log *zap.Logger) ([]Document, error) {

	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if !archive.IsTemplateName(path) {
			log.Debug("Skipping file, not recognized as template", zap.String("file", path))
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			log.Error("Unable to read file", zap.String("file", path), zap.Error(err))
			return nil
		}
		defer f.Close()

		data, err := decode(f)
		if err != nil {
			log.Error("Unable to decode file", zap.String("file", path), zap.Error(err))
			return nil
		}

		name := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		docs = append(docs, Document{Name: filepath.ToSlash(name), Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return docs, nil
}

func gatherArchive(ctx context.Context, path string, cp encoding.Encoding, log *zap.Logger) ([]Document, error) {

	var docs []Document
	err := archive.Walk(path, func(arc string, f *zip.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		r, err := f.Open()
		if err != nil {
			log.Error("Unable to read file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}
		defer r.Close()

		data, err := decode(r)
		if err != nil {
			log.Error("Unable to decode file in archive",
				zap.String("archive", arc), zap.String("file", f.FileHeader.Name), zap.Error(err))
			return nil
		}

		name := f.FileHeader.Name
		if cp != nil && f.FileHeader.NonUTF8 {
			// forcing zip file name encoding
			if n, err := cp.NewDecoder().String(name); err == nil {
				name = n
			} else {
				cn, _ := ianaindex.IANA.Name(cp)
				log.Warn("Unable to convert archive name from specified encoding",
					zap.String("charset", cn), zap.String("path", name), zap.Error(err))
			}
		}

		docs = append(docs, Document{Name: name, Data: data})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		log.Debug("Nothing to process", zap.String("archive", path))
	}
	return docs, nil
}
