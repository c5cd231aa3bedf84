// Package archive packages session outputs into a verified ZIP backup.
//
// Entries are added in a deterministic, directory-grouped lexicographic
// order so repeated builds from identical inputs differ only in
// compression timestamp metadata.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Layout names the inputs feeding one archive build.
type Layout struct {
	DatasetPath string
	PlaylistDir string
	LogoDir     string
	ThumbDir    string
}

// Counts summarizes archive contents per logical group.
type Counts struct {
	Playlists int
	Logos     int
	Thumbs    int
	Dataset   int
}

// Report is the result of verifying an archive.
type Report struct {
	OK                bool
	Counts            Counts
	CompressedBytes   int64
	UncompressedBytes int64
	Corrupt           []string
}

// Build writes the archive to archivePath: the dataset file at the root,
// playlists under RADIO/, logos under radio-logos/, and thumbnails under
// radio-logos/thumbs/.
func Build(archivePath string, layout Layout) (Counts, error) {
	file, err := os.Create(archivePath)
	if err != nil {
		return Counts{}, fmt.Errorf("create archive %s: %w", archivePath, err)
	}
	writer := zip.NewWriter(file)

	var counts Counts
	fail := func(err error) (Counts, error) {
		_ = writer.Close()
		_ = file.Close()
		_ = os.Remove(archivePath)
		return Counts{}, err
	}

	if _, err := os.Stat(layout.DatasetPath); err == nil {
		if err := addFile(writer, layout.DatasetPath, "station_data.json"); err != nil {
			return fail(err)
		}
		counts.Dataset = 1
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fail(fmt.Errorf("stat dataset: %w", err))
	}

	groups := []struct {
		dir    string
		prefix string
		ext    []string
		count  *int
	}{
		{layout.PlaylistDir, "RADIO/", []string{".pls"}, &counts.Playlists},
		{layout.LogoDir, "radio-logos/", []string{".jpg", ".jpeg"}, &counts.Logos},
		{layout.ThumbDir, "radio-logos/thumbs/", []string{".jpg", ".jpeg"}, &counts.Thumbs},
	}
	for _, group := range groups {
		names, err := listFiles(group.dir, group.ext)
		if err != nil {
			return fail(err)
		}
		for _, name := range names {
			if err := addFile(writer, filepath.Join(group.dir, name), group.prefix+name); err != nil {
				return fail(err)
			}
			*group.count++
		}
	}

	if err := writer.Close(); err != nil {
		return fail(fmt.Errorf("finalize archive: %w", err))
	}
	if err := file.Close(); err != nil {
		return Counts{}, fmt.Errorf("close archive: %w", err)
	}
	return counts, nil
}

// Verify reopens the archive, decompresses every entry to confirm its
// checksum, and reports category counts and sizes. Any corrupt entry
// makes the archive a hard failure requiring a rebuild.
func Verify(archivePath string) (Report, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return Report{}, fmt.Errorf("open archive %s: %w", archivePath, err)
	}
	defer reader.Close()

	report := Report{OK: true}
	for _, entry := range reader.File {
		report.CompressedBytes += int64(entry.CompressedSize64)
		report.UncompressedBytes += int64(entry.UncompressedSize64)

		switch classify(entry.Name) {
		case "playlist":
			report.Counts.Playlists++
		case "thumb":
			report.Counts.Thumbs++
		case "logo":
			report.Counts.Logos++
		case "dataset":
			report.Counts.Dataset++
		}

		if err := checkEntry(entry); err != nil {
			report.OK = false
			report.Corrupt = append(report.Corrupt, entry.Name)
		}
	}
	return report, nil
}

func classify(name string) string {
	switch {
	case strings.HasPrefix(name, "RADIO/") && strings.HasSuffix(name, ".pls"):
		return "playlist"
	case strings.HasPrefix(name, "radio-logos/thumbs/"):
		return "thumb"
	case strings.HasPrefix(name, "radio-logos/"):
		return "logo"
	case name == "station_data.json":
		return "dataset"
	default:
		return "other"
	}
}

func checkEntry(entry *zip.File) error {
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	// Reading to EOF validates the stored CRC.
	if _, err := io.Copy(io.Discard, rc); err != nil {
		_ = rc.Close()
		return err
	}
	return rc.Close()
}

func listFiles(dir string, extensions []string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == want {
				names = append(names, entry.Name())
				break
			}
		}
	}
	sort.Strings(names)
	return names, nil
}

func addFile(writer *zip.Writer, path, entryName string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	header := &zip.FileHeader{Name: entryName, Method: zip.Deflate}
	dst, err := writer.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", entryName, err)
	}
	if _, err := io.Copy(dst, file); err != nil {
		return fmt.Errorf("write entry %s: %w", entryName, err)
	}
	return nil
}
