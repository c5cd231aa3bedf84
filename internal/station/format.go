package station

import "strings"

// knownCodecs are codec hints accepted verbatim from the directory service.
var knownCodecs = map[string]struct{}{
	"MP3": {}, "AAC": {}, "AAC+": {}, "OGG": {}, "FLAC": {}, "OPUS": {}, "HLS": {},
}

// DetectFormat derives the audio format tag from the codec hint when it is
// a known value, otherwise from the stream URL extension. Unrecognized
// streams default to MP3.
func DetectFormat(streamURL, codec string) string {
	if codec != "" {
		upper := strings.ToUpper(strings.TrimSpace(codec))
		if _, ok := knownCodecs[upper]; ok {
			return upper
		}
	}

	lower := strings.ToLower(streamURL)
	switch {
	case strings.Contains(lower, ".mp3"):
		return "MP3"
	case strings.Contains(lower, ".aac"):
		return "AAC"
	case strings.Contains(lower, ".ogg"):
		return "OGG"
	case strings.Contains(lower, ".flac"):
		return "FLAC"
	case strings.Contains(lower, ".opus"):
		return "OPUS"
	case strings.Contains(lower, ".m3u8"):
		return "HLS"
	default:
		return "MP3"
	}
}
