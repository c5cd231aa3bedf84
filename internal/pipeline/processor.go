package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"stationpack/internal/directory"
	"stationpack/internal/guard"
	"stationpack/internal/imaging"
	"stationpack/internal/logging"
	"stationpack/internal/naming"
	"stationpack/internal/playlist"
	"stationpack/internal/services"
	"stationpack/internal/telemetry"
)

// LogoFetcher downloads logo bytes for a station.
type LogoFetcher interface {
	FetchLogo(ctx context.Context, rawURL string) ([]byte, string, error)
}

// Processed carries the per-station results a Session needs to
// assemble the final record.
type Processed struct {
	StreamURL string
	SafeName  string
	HasLogo   bool
}

// Processor runs the per-station stages for a single directory item:
// stream resolution, name sanitization, the budgeted logo stage, and
// the playlist file. It is safe for sequential reuse across a batch.
type Processor struct {
	fetcher     LogoFetcher
	normalizer  *imaging.Normalizer
	playlistDir string
	logoBudget  time.Duration
	watchdog    *telemetry.Watchdog
	logger      *slog.Logger
}

// ProcessorOptions configures a Processor.
type ProcessorOptions struct {
	Fetcher     LogoFetcher
	Normalizer  *imaging.Normalizer
	PlaylistDir string
	LogoBudget  time.Duration
	Watchdog    *telemetry.Watchdog
	Logger      *slog.Logger
}

// NewProcessor builds a Processor from options. Logger defaults to a
// no-op logger when unset.
func NewProcessor(opts ProcessorOptions) *Processor {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Processor{
		fetcher:     opts.Fetcher,
		normalizer:  opts.Normalizer,
		playlistDir: opts.PlaylistDir,
		logoBudget:  opts.LogoBudget,
		watchdog:    opts.Watchdog,
		logger:      logging.WithComponent(logger, "pipeline"),
	}
}

// Process handles one directory item under the caller's context. The
// returned error is non-nil only when no record should be produced for
// the item; logo and playlist trouble is recorded on the watchdog and
// reflected in the Processed value instead.
func (p *Processor) Process(ctx context.Context, item directory.Station, displayName string) (Processed, error) {
	streamURL := item.StreamURL()
	if streamURL == "" {
		return Processed{}, services.Wrap(services.ErrNoStream, "station_process", "resolve_stream", "no stream url", nil)
	}

	out := Processed{
		StreamURL: streamURL,
		SafeName:  naming.Sanitize(displayName),
	}
	out.HasLogo = p.processLogo(ctx, item, out.SafeName, displayName)

	if _, err := playlist.Write(p.playlistDir, out.SafeName, displayName, streamURL); err != nil {
		p.watchdog.RecordError(displayName, "pls", "playlist write failed", err)
		p.logger.Warn("playlist write failed", logging.Station(displayName), logging.Error(err))
	} else {
		p.watchdog.Increment(telemetry.PlaylistsMade)
	}
	return out, nil
}

// processLogo runs the budgeted logo stage and reports whether a local
// logo exists for the station afterwards.
func (p *Processor) processLogo(ctx context.Context, item directory.Station, safeName, displayName string) bool {
	logoURL := strings.TrimSpace(item.Favicon)
	if logoURL == "" {
		p.watchdog.Increment(telemetry.LogosSkipped)
		return false
	}

	outcome := guard.Run(ctx, p.logoBudget, func(ctx context.Context) (imaging.Result, error) {
		data, contentType, err := p.fetcher.FetchLogo(ctx, logoURL)
		if err != nil {
			return imaging.Result{}, err
		}
		return p.normalizer.Normalize(safeName, data, contentType, logoURL), nil
	})
	if outcome.State == guard.TimedOut {
		p.watchdog.Increment(telemetry.LogosTimeout)
		p.watchdog.RecordTimeout(displayName, "logo", p.logoBudget)
		p.logger.Warn("logo stage timed out",
			logging.Station(displayName),
			logging.Phase("logo"),
			logging.Duration("budget", p.logoBudget))
		return false
	}
	if outcome.Err != nil {
		p.watchdog.Increment(telemetry.LogosFailed)
		p.watchdog.RecordError(displayName, "logo", "logo fetch failed", outcome.Err)
		return false
	}

	result := outcome.Value
	switch result.Status {
	case imaging.StatusConverted, imaging.StatusExists:
		p.watchdog.Increment(telemetry.LogosConverted)
		return true
	case imaging.StatusVectorUnavailable:
		p.watchdog.Increment(telemetry.VectorSkipped)
		p.watchdog.Increment(telemetry.LogosSkipped)
		p.logger.Debug("vector logo skipped", logging.Station(displayName))
		return false
	case imaging.StatusVectorFailed:
		p.watchdog.Increment(telemetry.LogosFailed)
		p.watchdog.RecordWarning(displayName, "vector rasterization failed")
		return false
	default:
		p.watchdog.Increment(telemetry.LogosFailed)
		p.watchdog.RecordError(displayName, "logo", "logo decode failed", result.Err)
		return false
	}
}

// IsNoStream reports whether err marks an item without a usable stream.
func IsNoStream(err error) bool {
	return errors.Is(err, services.ErrNoStream)
}
