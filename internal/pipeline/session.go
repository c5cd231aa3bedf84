package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"stationpack/internal/directory"
	"stationpack/internal/guard"
	"stationpack/internal/logging"
	"stationpack/internal/naming"
	"stationpack/internal/station"
	"stationpack/internal/telemetry"
)

// Searcher fetches the station batch from the directory service.
type Searcher interface {
	Search(ctx context.Context, query directory.Query) ([]directory.Station, error)
}

// SessionOptions configures a Session.
type SessionOptions struct {
	Searcher      Searcher
	Processor     *Processor
	Watchdog      *telemetry.Watchdog
	StationBudget time.Duration
	RequestDelay  time.Duration
	Progress      Progress
	Logger        *slog.Logger
}

// Session walks one directory batch sequentially and produces records.
// Every item is bounded by the station budget; items that time out, fail,
// or lack a stream are attributed and skipped without stopping the batch.
type Session struct {
	searcher      Searcher
	processor     *Processor
	watchdog      *telemetry.Watchdog
	stationBudget time.Duration
	requestDelay  time.Duration
	progress      Progress
	logger        *slog.Logger
}

// NewSession builds a Session. Progress defaults to a no-op observer and
// Logger to a no-op logger.
func NewSession(opts SessionOptions) *Session {
	progress := opts.Progress
	if progress == nil {
		progress = NopProgress()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Session{
		searcher:      opts.Searcher,
		processor:     opts.Processor,
		watchdog:      opts.Watchdog,
		stationBudget: opts.StationBudget,
		requestDelay:  opts.RequestDelay,
		progress:      progress,
		logger:        logging.WithComponent(logger, "session"),
	}
}

// Run fetches the batch for query and processes it in order. reservedNames
// seeds the display-name allocator with names already taken by a prior
// dataset so merged unions stay collision free. firstID is the id given to
// the first produced record; later records count up from it.
//
// A fetch failure is terminal and returns the error; per-item trouble is
// absorbed into the watchdog. The returned records keep batch order.
func (s *Session) Run(ctx context.Context, query directory.Query, firstID int64, reservedNames []string) ([]station.Record, error) {
	items, err := s.searcher.Search(ctx, query)
	if err != nil {
		s.watchdog.RecordError("API", "fetch", "directory search failed", err)
		return nil, err
	}

	s.watchdog.Add(telemetry.StationsTotal, int64(len(items)))
	s.logger.Info("batch fetched",
		logging.Int("stations", len(items)),
		logging.String("mode", string(query.Mode)),
		logging.String("value", query.Value))

	alloc := naming.NewAllocator()
	alloc.Seed(reservedNames...)

	records := make([]station.Record, 0, len(items))
	started := time.Now()
	s.progress.Start(len(items))
	defer s.progress.Finish()

	for idx, item := range items {
		if ctx.Err() != nil {
			return records, ctx.Err()
		}

		displayName := strings.TrimSpace(item.Name)
		if displayName == "" {
			displayName = fmt.Sprintf("Station %d", idx+1)
		}
		s.progress.Advance(idx, displayName, s.estimate(started, idx, len(items)))

		outcome := guard.Run(ctx, s.stationBudget, func(ctx context.Context) (Processed, error) {
			return s.processor.Process(ctx, item, displayName)
		})
		switch {
		case outcome.State == guard.TimedOut:
			s.watchdog.RecordTimeout(displayName, "station_process", s.stationBudget)
			s.logger.Warn("station timed out",
				logging.Station(displayName),
				logging.Duration("budget", s.stationBudget))
		case IsNoStream(outcome.Err):
			s.watchdog.Increment(telemetry.StationsSkipped)
			s.logger.Debug("station skipped", logging.Station(displayName), logging.String("reason", "no stream url"))
		case outcome.Err != nil:
			s.watchdog.Increment(telemetry.StationsFailed)
			s.watchdog.RecordError(displayName, "api_process", "station processing failed", outcome.Err)
		default:
			uniqueName := alloc.Claim(outcome.Value.SafeName)
			records = append(records, buildRecord(firstID+int64(len(records)), item, uniqueName, outcome.Value))
			s.watchdog.Increment(telemetry.StreamsFound)
			s.watchdog.Increment(telemetry.StationsSuccess)
		}

		if s.requestDelay > 0 && idx < len(items)-1 {
			if err := sleepCtx(ctx, s.requestDelay); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}

// estimate projects time remaining from the mean per-item duration so far.
func (s *Session) estimate(started time.Time, done, total int) time.Duration {
	if done == 0 || total <= done {
		return 0
	}
	perItem := time.Since(started) / time.Duration(done)
	return perItem * time.Duration(total-done)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// buildRecord assembles the persisted record for one processed station.
// Free-text fields are bounded to their dataset column limits.
func buildRecord(id int64, item directory.Station, uniqueName string, proc Processed) station.Record {
	bitrate := ""
	if item.Bitrate > 0 {
		bitrate = strconv.Itoa(item.Bitrate)
	}
	logo := ""
	if proc.HasLogo {
		logo = "local"
	}
	return station.Record{
		ID:          id,
		Station:     proc.StreamURL,
		Name:        uniqueName,
		Type:        "r",
		Logo:        logo,
		Genre:       station.Truncate(strings.TrimSpace(item.Tags), station.MaxGenre),
		Broadcaster: station.Truncate(strings.TrimSpace(item.Name), station.MaxBroadcaster),
		Language:    station.Truncate(station.TitleCase(strings.TrimSpace(item.Language)), station.MaxLanguage),
		Country:     station.Truncate(strings.TrimSpace(item.Country), station.MaxCountry),
		Region:      station.Truncate(strings.TrimSpace(item.State), station.MaxRegion),
		Bitrate:     bitrate,
		Format:      station.DetectFormat(proc.StreamURL, item.Codec),
		GeoFenced:   "No",
		HomePage:    station.Truncate(strings.TrimSpace(item.Homepage), station.MaxHomePage),
		Monitor:     "",
	}
}
