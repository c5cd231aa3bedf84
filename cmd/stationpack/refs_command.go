package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

const (
	countriesURL = "https://www.radio-browser.info/#/countries"
	tagsURL      = "https://www.radio-browser.info/#/tags"
	languagesURL = "https://www.radio-browser.info/#/languages"
)

// commonCountryCodes lists frequently used ISO 3166-1 alpha-2 codes.
var commonCountryCodes = map[string]string{
	"NL": "Netherlands", "BE": "Belgium", "DE": "Germany",
	"GB": "United Kingdom", "US": "United States", "FR": "France",
	"ES": "Spain", "IT": "Italy", "AT": "Austria", "CH": "Switzerland",
	"PL": "Poland", "SE": "Sweden", "NO": "Norway", "DK": "Denmark",
	"FI": "Finland", "PT": "Portugal", "IE": "Ireland", "AU": "Australia",
	"CA": "Canada", "BR": "Brazil", "JP": "Japan", "KR": "South Korea",
	"IN": "India", "RU": "Russia", "ZA": "South Africa",
}

var commonTags = []string{
	"pop", "rock", "jazz", "classical", "news", "talk", "country",
	"electronic", "dance", "house", "techno", "trance", "ambient",
	"hip hop", "rap", "r&b", "soul", "blues", "folk", "metal",
	"punk", "reggae", "latin", "world", "80s", "90s", "oldies",
	"top 40", "hits", "alternative", "indie", "lounge", "chill",
}

var commonLanguages = []string{
	"dutch", "english", "german", "french", "spanish", "italian",
	"portuguese", "polish", "russian", "japanese", "korean", "chinese",
	"arabic", "hindi", "turkish", "swedish", "norwegian", "danish",
	"finnish", "greek", "czech", "hungarian", "romanian",
}

func newRefsCommand() *cobra.Command {
	refsCmd := &cobra.Command{
		Use:         "refs",
		Short:       "Reference lists for directory search filters",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}

	refsCmd.AddCommand(&cobra.Command{
		Use:   "countries",
		Short: "Common country codes for --country",
		RunE: func(cmd *cobra.Command, args []string) error {
			codes := make([]string, 0, len(commonCountryCodes))
			for code := range commonCountryCodes {
				codes = append(codes, code)
			}
			sort.Strings(codes)

			rows := make([][]string, 0, len(codes))
			for _, code := range codes {
				rows = append(rows, []string{code, commonCountryCodes[code]})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable([]string{"Code", "Country"}, rows, nil))
			fmt.Fprintf(out, "Full list: %s\n", countriesURL)
			return nil
		},
	})

	refsCmd.AddCommand(&cobra.Command{
		Use:   "tags",
		Short: "Common tags and genres for --tag",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, columnize(commonTags, 4))
			fmt.Fprintf(out, "Full list: %s\n", tagsURL)
			return nil
		},
	})

	refsCmd.AddCommand(&cobra.Command{
		Use:   "languages",
		Short: "Common languages for --language",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, columnize(commonLanguages, 4))
			fmt.Fprintf(out, "Full list: %s\n", languagesURL)
			return nil
		},
	})

	return refsCmd
}

// columnize lays out short values in fixed-width columns.
func columnize(values []string, columns int) string {
	width := 0
	for _, value := range values {
		if len(value) > width {
			width = len(value)
		}
	}

	var b strings.Builder
	for i, value := range values {
		fmt.Fprintf(&b, "%-*s", width+2, value)
		if (i+1)%columns == 0 || i == len(values)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
