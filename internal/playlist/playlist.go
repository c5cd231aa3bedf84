// Package playlist writes the per-station .pls descriptors consumed by
// the media player.
package playlist

import (
	"fmt"
	"os"
	"path/filepath"
)

// Sentinel values of the four-line PLS format: a single endless stream.
const (
	lengthSentinel = -1
	entryCount     = 1
	formatVersion  = 2
	fileMode       = 0o644
)

// Write creates <safeName>.pls in dir, pointing the player at streamURL
// under the given display title. It returns the written path.
func Write(dir, safeName, title, streamURL string) (string, error) {
	path := filepath.Join(dir, safeName+".pls")
	contents := fmt.Sprintf("[playlist]\nFile1=%s\nTitle1=%s\nLength1=%d\nNumberOfEntries=%d\nVersion=%d\n",
		streamURL, title, lengthSentinel, entryCount, formatVersion)
	if err := os.WriteFile(path, []byte(contents), fileMode); err != nil {
		return "", fmt.Errorf("write playlist %s: %w", path, err)
	}
	return path, nil
}
