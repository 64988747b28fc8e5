package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeZip(t *testing.T, entries map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)
	for name, content := range entries {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	w.Close()
	zipFile.Close()
	return zipPath
}

func TestIsTemplateName(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"index.html", true},
		{"newsletter/welcome.htm", true},
		{"digest.XHTML", true},
		{"styles.css", false},
		{"readme.txt", false},
		{"html", false},
	}
	for _, c := range cases {
		if got := IsTemplateName(c.name); got != c.want {
			t.Errorf("IsTemplateName(%q) = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestWalk(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"templates/welcome.html": "<html></html>",
		"templates/digest.htm":   "<html></html>",
		"templates/legacy.XHTML": "<html></html>",
		"assets/logo.png":        "binary",
		"readme.txt":             "readme content",
	})

	t.Run("visits only templates", func(t *testing.T) {
		var visited []string
		err := Walk(zipPath, func(archive string, file *zip.File) error {
			if archive != zipPath {
				t.Errorf("archive = %s, want %s", archive, zipPath)
			}
			visited = append(visited, file.Name)
			return nil
		})

		if err != nil {
			t.Errorf("Walk() error = %v", err)
		}

		if len(visited) != 3 {
			t.Errorf("visited %d files, want 3", len(visited))
		}

		expected := map[string]bool{
			"templates/welcome.html": true,
			"templates/digest.htm":   true,
			"templates/legacy.XHTML": true,
		}
		for _, name := range visited {
			if !expected[name] {
				t.Errorf("unexpected file visited: %s", name)
			}
		}
	})

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, func(archive string, file *zip.File) error {
			return expectedErr
		})

		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})
}

func TestWalk_NoTemplates(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"config.yml": "config content",
		"notes.md":   "notes",
	})

	var visited []string
	err := Walk(zipPath, func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
	if len(visited) != 0 {
		t.Errorf("visited %d files, want 0", len(visited))
	}
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		err := Walk("/nonexistent/file.zip", func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		tmpDir := t.TempDir()
		invalidZip := filepath.Join(tmpDir, "invalid.zip")

		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}

		err := Walk(invalidZip, func(archive string, file *zip.File) error {
			return nil
		})

		if err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_WithDirectories(t *testing.T) {
	tmpDir := t.TempDir()
	zipPath := filepath.Join(tmpDir, "test.zip")

	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}

	w := zip.NewWriter(zipFile)

	// Directory entries as created by zip utilities.
	dirHeader := &zip.FileHeader{
		Name: "templates.html/",
	}
	dirHeader.SetMode(os.ModeDir | 0755)
	if _, err := w.CreateHeader(dirHeader); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}

	fw, err := w.Create("templates.html/welcome.html")
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	fw.Write([]byte("<html></html>"))

	w.Close()
	zipFile.Close()

	// Walk should not call walkFn for directories, even when the directory
	// name itself ends in a template extension.
	var visited []string
	err = Walk(zipPath, func(archive string, file *zip.File) error {
		visited = append(visited, file.Name)
		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}

	if len(visited) != 1 {
		t.Errorf("visited %d entries, want 1 (file only, not directory)", len(visited))
	}

	if len(visited) > 0 && visited[0] != "templates.html/welcome.html" {
		t.Errorf("visited %s, want templates.html/welcome.html", visited[0])
	}
}

func TestWalk_EarlyTermination(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"a.html": "<html></html>",
		"b.html": "<html></html>",
		"c.html": "<html></html>",
		"d.html": "<html></html>",
	})

	var visited int
	stopErr := errors.New("stop walking")
	err := Walk(zipPath, func(archive string, file *zip.File) error {
		visited++
		if visited == 2 {
			return stopErr
		}
		return nil
	})

	if err != stopErr {
		t.Errorf("Walk() error = %v, want %v", err, stopErr)
	}

	if visited != 2 {
		t.Errorf("visited %d files, want 2 (early termination)", visited)
	}
}

func TestWalk_UnsafePaths(t *testing.T) {
	zipPath := writeZip(t, map[string]string{
		"../escape.html": "<html></html>",
	})

	err := Walk(zipPath, func(archive string, file *zip.File) error {
		t.Errorf("walkFn called for unsafe entry %s", file.Name)
		return nil
	})

	if err == nil {
		t.Error("Expected error for path traversal entry")
	}
}

func TestWalk_FileContent(t *testing.T) {
	content := []byte("<html><body>hello</body></html>")
	zipPath := writeZip(t, map[string]string{
		"welcome.html": string(content),
	})

	err := Walk(zipPath, func(archive string, file *zip.File) error {
		rc, err := file.Open()
		if err != nil {
			return err
		}
		defer rc.Close()

		buf := new(bytes.Buffer)
		if _, err := buf.ReadFrom(rc); err != nil {
			return err
		}

		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("content = %s, want %s", buf.Bytes(), content)
		}

		return nil
	})

	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}
