package config

const (
	defaultOutputDir      = "~/.local/share/stationpack/output"
	defaultLogDir         = "~/.local/share/stationpack/logs"
	defaultUserAgent      = "stationpack/0.1 (https://github.com/stationpack)"
	defaultRequestTimeout = 15
	defaultLimit          = 500
	defaultRequestDelayMS = 300
	defaultStationTimeout = 60
	defaultLogoTimeout    = 30
	defaultLogoSize       = 335
	defaultThumbSize      = 80
	defaultLogoQuality    = 92
	defaultThumbQuality   = 85
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

func defaultServers() []string {
	return []string{
		"https://de1.api.radio-browser.info",
		"https://de2.api.radio-browser.info",
		"https://nl1.api.radio-browser.info",
		"https://at1.api.radio-browser.info",
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			LogDir:    defaultLogDir,
		},
		Directory: Directory{
			Servers:        defaultServers(),
			UserAgent:      defaultUserAgent,
			RequestTimeout: defaultRequestTimeout,
			Limit:          defaultLimit,
			RequestDelayMS: defaultRequestDelayMS,
		},
		Budgets: Budgets{
			Station: defaultStationTimeout,
			Logo:    defaultLogoTimeout,
		},
		Logos: Logos{
			Size:         defaultLogoSize,
			ThumbSize:    defaultThumbSize,
			Quality:      defaultLogoQuality,
			ThumbQuality: defaultThumbQuality,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
