package playlist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(dir, "Jazz FM", "Jazz FM!", "http://x/stream.mp3")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if path != filepath.Join(dir, "Jazz FM.pls") {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read playlist: %v", err)
	}
	want := "[playlist]\nFile1=http://x/stream.mp3\nTitle1=Jazz FM!\nLength1=-1\nNumberOfEntries=1\nVersion=2\n"
	if string(data) != want {
		t.Errorf("playlist contents:\n%q\nwant:\n%q", data, want)
	}
}

func TestWriteMissingDir(t *testing.T) {
	if _, err := Write(filepath.Join(t.TempDir(), "absent"), "x", "x", "http://x"); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
