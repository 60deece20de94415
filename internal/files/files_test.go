package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeReport(t *testing.T, dir, name string, age time.Duration) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	stamp := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, stamp, stamp))
}

func TestListReturnsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "sales_cleaned_20240101_120000.csv", 2*time.Hour)
	writeReport(t, dir, "sales_report_20240102_120000.pdf", 1*time.Hour)
	writeReport(t, dir, "sales_report_20240103_120000.xlsx", 0)

	files, err := NewArchive(dir).List()

	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, "sales_report_20240103_120000.xlsx", files[0].Name)
	assert.Equal(t, "report-xlsx", files[0].Format)
	assert.Equal(t, "report-pdf", files[1].Format)
	assert.Equal(t, "cleaned-csv", files[2].Format)
	assert.Equal(t, int64(4), files[0].SizeBytes)
}

func TestListSkipsUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "sales_cleaned_20240101_120000.json", 0)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := NewArchive(dir).List()

	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "cleaned-json", files[0].Format)
}

func TestListMissingDirectory(t *testing.T) {
	files, err := NewArchive(filepath.Join(t.TempDir(), "missing")).List()

	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestPruneKeepsNewest(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a_cleaned_20240101_120000.csv", 3*time.Hour)
	writeReport(t, dir, "b_cleaned_20240102_120000.csv", 2*time.Hour)
	writeReport(t, dir, "c_cleaned_20240103_120000.csv", 1*time.Hour)

	archive := NewArchive(dir)
	removed, err := archive.Prune(2)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	files, err := archive.List()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "c_cleaned_20240103_120000.csv", files[0].Name)
	assert.Equal(t, "b_cleaned_20240102_120000.csv", files[1].Name)
}

func TestPruneNothingToRemove(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "a_cleaned_20240101_120000.csv", 0)

	removed, err := NewArchive(dir).Prune(5)

	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestOpenRejectsTraversal(t *testing.T) {
	archive := NewArchive(t.TempDir())

	_, err := archive.Open("../secrets_cleaned_20240101_120000.csv")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = archive.Open("notes.txt")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestOpenReadsReport(t *testing.T) {
	dir := t.TempDir()
	writeReport(t, dir, "sales_cleaned_20240101_120000.csv", 0)

	f, err := NewArchive(dir).Open("sales_cleaned_20240101_120000.csv")

	require.NoError(t, err)
	defer f.Close()
}
