// Package station defines the persisted station record and the field
// conventions of the moOde cfg_radio dataset it mirrors.
package station

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Schema field limits, matching the downstream dataset columns.
const (
	MaxGenre       = 255
	MaxBroadcaster = 100
	MaxLanguage    = 50
	MaxCountry     = 50
	MaxRegion      = 50
	MaxHomePage    = 255
)

// IDOffset is the first id assigned to generated records; ids below it are
// reserved for static and manually curated entries.
const IDOffset = 500

// Record is one persisted station entry. It is immutable once created;
// field order here is the serialization order of the dataset.
type Record struct {
	ID          int64  `json:"id"`
	Station     string `json:"station"` // stream URL, the dedup fingerprint
	Name        string `json:"name"`
	Type        string `json:"type"`
	Logo        string `json:"logo"`
	Genre       string `json:"genre"`
	Broadcaster string `json:"broadcaster"`
	Language    string `json:"language"`
	Country     string `json:"country"`
	Region      string `json:"region"`
	Bitrate     string `json:"bitrate"`
	Format      string `json:"format"`
	GeoFenced   string `json:"geo_fenced"`
	HomePage    string `json:"home_page"`
	Monitor     string `json:"monitor"`
}

// Fields lists the dataset column names in serialization order.
var Fields = []string{
	"id", "station", "name", "type", "logo", "genre", "broadcaster",
	"language", "country", "region", "bitrate", "format", "geo_fenced",
	"home_page", "monitor",
}

// Flat is the tabular projection of a Record used for CSV export.
type Flat struct {
	ID        int64
	Name      string
	StreamURL string
	Logo      string
}

// Flatten derives the tabular projection.
func (r Record) Flatten() Flat {
	return Flat{ID: r.ID, Name: r.Name, StreamURL: r.Station, Logo: r.Logo}
}

// HasLogo reports whether a local logo was stored for this record.
func (r Record) HasLogo() bool { return r.Logo == "local" }

// Truncate bounds value to at most limit runes.
func Truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

var titleCaser = cases.Title(language.Und)

// TitleCase canonicalizes free-text display fields such as language and
// country names ("dutch" becomes "Dutch").
func TitleCase(value string) string {
	if value == "" {
		return ""
	}
	return titleCaser.String(value)
}
