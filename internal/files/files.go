// Package files manages the on-disk report archive: listing the
// reports GenerateAll has written and pruning old ones.
package files

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ErrInvalidName marks a download name that does not refer to a
// generated report inside the archive
var ErrInvalidName = errors.New("invalid report name")

// ReportFile describes one generated report on disk
type ReportFile struct {
	Name       string    `json:"name"`
	Format     string    `json:"format"`
	SizeBytes  int64     `json:"size_bytes"`
	ModifiedAt time.Time `json:"modified_at"`
}

// Archive lists and prunes generated reports in a single directory
type Archive struct {
	dir string
}

// NewArchive creates an archive over dir. The directory does not have
// to exist yet.
func NewArchive(dir string) *Archive {
	return &Archive{dir: dir}
}

// List returns the generated reports, newest first. A missing
// directory yields an empty list. Files that do not look like
// generated reports are skipped.
func (a *Archive) List() ([]ReportFile, error) {
	entries, err := os.ReadDir(a.dir)
	if errors.Is(err, os.ErrNotExist) {
		return []ReportFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading reports directory: %w", err)
	}

	files := make([]ReportFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		format, ok := formatOf(entry.Name())
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, ReportFile{
			Name:       entry.Name(),
			Format:     format,
			SizeBytes:  info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		if !files[i].ModifiedAt.Equal(files[j].ModifiedAt) {
			return files[i].ModifiedAt.After(files[j].ModifiedAt)
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Prune deletes the oldest reports until at most keep remain. It
// returns the number of files removed.
func (a *Archive) Prune(keep int) (int, error) {
	if keep < 0 {
		keep = 0
	}
	files, err := a.List()
	if err != nil {
		return 0, err
	}
	if len(files) <= keep {
		return 0, nil
	}

	removed := 0
	for _, file := range files[keep:] {
		if err := os.Remove(filepath.Join(a.dir, file.Name)); err != nil {
			return removed, fmt.Errorf("removing %s: %w", file.Name, err)
		}
		removed++
	}
	return removed, nil
}

// Open returns the named report for download. The name must refer to
// a file directly inside the archive.
func (a *Archive) Open(name string) (*os.File, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if _, ok := formatOf(name); !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return os.Open(filepath.Join(a.dir, name))
}

// formatOf recovers the report format from a generated filename
func formatOf(name string) (string, bool) {
	lower := strings.ToLower(name)
	ext := strings.TrimPrefix(filepath.Ext(lower), ".")

	switch {
	case strings.Contains(lower, "_cleaned_") && ext == "csv":
		return "cleaned-csv", true
	case strings.Contains(lower, "_cleaned_") && ext == "json":
		return "cleaned-json", true
	case strings.Contains(lower, "_cleaned_") && ext == "xlsx":
		return "cleaned-xlsx", true
	case strings.Contains(lower, "_report_") && ext == "xlsx":
		return "report-xlsx", true
	case strings.Contains(lower, "_report_") && ext == "pdf":
		return "report-pdf", true
	default:
		return "", false
	}
}
