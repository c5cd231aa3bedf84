package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"stationpack/internal/archive"
	"stationpack/internal/config"
	"stationpack/internal/dataset"
	"stationpack/internal/directory"
	"stationpack/internal/imaging"
	"stationpack/internal/ledger"
	"stationpack/internal/logging"
	"stationpack/internal/pipeline"
	"stationpack/internal/station"
	"stationpack/internal/telemetry"
)

type buildOptions struct {
	country  string
	tag      string
	language string
	name     string
	limit    int
	merge    bool
	zip      bool
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Fetch a station batch and build playlists, logos, and the dataset",
		Long: `Build fetches the most popular matching stations from the Radio Browser
directory and produces the moOde output set: one .pls playlist per station,
normalized JPEG logos with thumbnails, the station dataset, and the run
reports. Without a filter flag the top stations overall are fetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), ctx, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.country, "country", "", "Filter by ISO 3166-1 alpha-2 country code (e.g. NL)")
	cmd.Flags().StringVar(&opts.tag, "tag", "", "Filter by tag or genre (e.g. jazz)")
	cmd.Flags().StringVar(&opts.language, "language", "", "Filter by language (e.g. dutch)")
	cmd.Flags().StringVar(&opts.name, "name", "", "Filter by station name")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum stations to fetch (default from config)")
	cmd.Flags().BoolVar(&opts.merge, "merge", false, "Merge into the existing dataset instead of replacing it")
	cmd.Flags().BoolVar(&opts.zip, "zip", false, "Archive the output set after a successful build")

	return cmd
}

// resolveQuery maps the filter flags onto a directory query. At most one
// filter may be active.
func resolveQuery(opts buildOptions, cfg *config.Config) (directory.Query, error) {
	query := directory.Query{Mode: directory.ModeAll, Limit: cfg.Directory.Limit}
	if opts.limit > 0 {
		query.Limit = opts.limit
	}

	set := 0
	if value := strings.TrimSpace(opts.country); value != "" {
		query.Mode, query.Value = directory.ModeCountry, strings.ToUpper(value)
		set++
	}
	if value := strings.TrimSpace(opts.tag); value != "" {
		query.Mode, query.Value = directory.ModeTag, value
		set++
	}
	if value := strings.TrimSpace(opts.language); value != "" {
		query.Mode, query.Value = directory.ModeLanguage, value
		set++
	}
	if value := strings.TrimSpace(opts.name); value != "" {
		query.Mode, query.Value = directory.ModeName, value
		set++
	}
	if set > 1 {
		return directory.Query{}, fmt.Errorf("choose at most one of --country, --tag, --language, --name")
	}
	return query, nil
}

func queryLabel(query directory.Query) string {
	if query.Mode == directory.ModeAll {
		return "all"
	}
	return fmt.Sprintf("%s=%s", query.Mode, query.Value)
}

func runBuild(cmdCtx context.Context, ctx *commandContext, opts buildOptions, out io.Writer) error {
	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	query, err := resolveQuery(opts, cfg)
	if err != nil {
		return err
	}

	lock := flock.New(cfg.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another session is writing to %s", cfg.Paths.OutputDir)
	}
	defer lock.Unlock()

	sessionID := uuid.NewString()
	startedAt := time.Now().UTC()
	logPath := filepath.Join(cfg.Paths.LogDir, "stationpack.log")
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	logger = logging.WithComponent(logger, "build")

	client, err := directory.New(
		cfg.Directory.Servers,
		cfg.Directory.UserAgent,
		time.Duration(cfg.Directory.RequestTimeout)*time.Second,
	)
	if err != nil {
		return fmt.Errorf("directory client: %w", err)
	}

	vector := imaging.DetectVectorBackend()
	normalizer := imaging.NewNormalizer(imaging.Options{
		Vector:       vector,
		LogoDir:      cfg.LogoDir(),
		ThumbDir:     cfg.ThumbDir(),
		LogoSize:     cfg.Logos.Size,
		ThumbSize:    cfg.Logos.ThumbSize,
		Quality:      cfg.Logos.Quality,
		ThumbQuality: cfg.Logos.ThumbQuality,
	})

	watchdog := telemetry.New()
	processor := pipeline.NewProcessor(pipeline.ProcessorOptions{
		Fetcher:     client,
		Normalizer:  normalizer,
		PlaylistDir: cfg.PlaylistDir(),
		LogoBudget:  time.Duration(cfg.Budgets.Logo) * time.Second,
		Watchdog:    watchdog,
		Logger:      logger,
	})
	session := pipeline.NewSession(pipeline.SessionOptions{
		Searcher:      client,
		Processor:     processor,
		Watchdog:      watchdog,
		StationBudget: time.Duration(cfg.Budgets.Station) * time.Second,
		RequestDelay:  time.Duration(cfg.Directory.RequestDelayMS) * time.Millisecond,
		Progress:      newProgress(),
		Logger:        logger,
	})

	logger.Info("session started",
		logging.String("session", sessionID),
		logging.String("query", queryLabel(query)),
		logging.Bool("vector_support", normalizer.VectorSupported()))

	prior := dataset.New(nil)
	var reserved []string
	if opts.merge {
		prior, err = dataset.Load(cfg.DatasetPath())
		if err != nil {
			return fmt.Errorf("load existing dataset: %w", err)
		}
		reserved = prior.Names()
	}

	records, runErr := session.Run(signalCtx, query, station.IDOffset, reserved)

	summary, detail := watchdog.Finish(telemetry.ReportOptions{
		SessionID:     sessionID,
		VectorSupport: normalizer.VectorSupported(),
		StationBudget: time.Duration(cfg.Budgets.Station) * time.Second,
	})
	if err := telemetry.WriteReports(summary, detail, cfg.SummaryPath(), cfg.ErrorReportPath()); err != nil {
		return fmt.Errorf("write reports: %w", err)
	}
	if err := recordSession(context.WithoutCancel(signalCtx), cfg, sessionID, queryLabel(query), startedAt, summary, records); err != nil {
		logger.Warn("ledger update failed", logging.Error(err))
	}

	// The existing dataset is left untouched when the session fails.
	if runErr != nil {
		logger.Error("session failed", logging.Error(runErr))
		return runErr
	}

	result := dataset.New(records)
	added := len(records)
	if opts.merge {
		result, added = dataset.Merge(prior, records)
	}
	if err := dataset.Save(cfg.DatasetPath(), result); err != nil {
		return fmt.Errorf("save dataset: %w", err)
	}
	if err := dataset.WriteCSV(cfg.CSVPath(), result); err != nil {
		return fmt.Errorf("write stream csv: %w", err)
	}

	if opts.zip {
		report, err := buildArchive(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, renderArchiveReport(report, cfg.ArchivePath()))
	}

	if len(records) > 0 {
		fmt.Fprintln(out, renderStationPreview(records))
	}
	fmt.Fprintln(out, renderBuildSummary(summary, added, opts.merge))
	logger.Info("session complete",
		logging.String("session", sessionID),
		logging.Int("records", len(records)),
		logging.Int("dataset_size", len(result.Stations)))
	return nil
}

// recordSession persists the run and its stream fingerprints in the ledger.
func recordSession(ctx context.Context, cfg *config.Config, sessionID, query string, startedAt time.Time, summary telemetry.Summary, records []station.Record) error {
	store, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return err
	}
	defer store.Close()

	run := ledger.Run{
		SessionID:       sessionID,
		Query:           query,
		StartedAt:       startedAt,
		EndedAt:         time.Now().UTC(),
		StationsTotal:   summary.Metrics.StationsTotal,
		StationsSuccess: summary.Metrics.StationsSuccess,
		StationsFailed:  summary.Metrics.StationsFailed,
		StationsSkipped: summary.Metrics.StationsSkipped,
		StationsTimeout: summary.Metrics.StationsTimeout,
	}
	if err := store.RecordRun(ctx, run); err != nil {
		return err
	}
	return store.RecordStations(ctx, sessionID, records)
}

// previewRows caps how many of the batch's records the build output lists.
const previewRows = 15

func renderStationPreview(records []station.Record) string {
	rows := make([][]string, 0, previewRows+1)
	for i, rec := range records {
		if i == previewRows {
			rows = append(rows, []string{"…", fmt.Sprintf("and %d more", len(records)-previewRows), "", ""})
			break
		}
		flat := rec.Flatten()
		rows = append(rows, []string{
			strconv.FormatInt(flat.ID, 10),
			flat.Name,
			flat.StreamURL,
			yesNo(rec.HasLogo()),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Stream", "Logo"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderBuildSummary(summary telemetry.Summary, added int, merged bool) string {
	datasetRow := "dataset records added"
	if !merged {
		datasetRow = "dataset records written"
	}
	rows := [][]string{
		{"stations fetched", strconv.FormatInt(summary.Metrics.StationsTotal, 10)},
		{"stations succeeded", strconv.FormatInt(summary.Metrics.StationsSuccess, 10)},
		{"stations failed", strconv.FormatInt(summary.Metrics.StationsFailed, 10)},
		{"stations skipped", strconv.FormatInt(summary.Metrics.StationsSkipped, 10)},
		{"stations timed out", strconv.FormatInt(summary.Metrics.StationsTimeout, 10)},
		{"playlists created", strconv.FormatInt(summary.Metrics.PlaylistsMade, 10)},
		{"logos converted", strconv.FormatInt(summary.Metrics.LogosConverted, 10)},
		{"logos skipped", strconv.FormatInt(summary.Metrics.LogosSkipped, 10)},
		{"logos failed", strconv.FormatInt(summary.Metrics.LogosFailed, 10)},
		{"logos timed out", strconv.FormatInt(summary.Metrics.LogosTimeout, 10)},
		{"vector logos skipped", strconv.FormatInt(summary.Metrics.VectorSkipped, 10)},
		{datasetRow, strconv.Itoa(added)},
		{"runtime", summary.RuntimeFormatted},
		{"vector support", yesNo(summary.VectorSupport)},
	}
	return renderTable([]string{"Result", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

// buildArchive zips the output set and verifies the written archive.
func buildArchive(cfg *config.Config) (archive.Report, error) {
	layout := archive.Layout{
		DatasetPath: cfg.DatasetPath(),
		PlaylistDir: cfg.PlaylistDir(),
		LogoDir:     cfg.LogoDir(),
		ThumbDir:    cfg.ThumbDir(),
	}
	if _, err := archive.Build(cfg.ArchivePath(), layout); err != nil {
		return archive.Report{}, fmt.Errorf("build archive: %w", err)
	}
	report, err := archive.Verify(cfg.ArchivePath())
	if err != nil {
		return archive.Report{}, fmt.Errorf("verify archive: %w", err)
	}
	return report, nil
}

func renderArchiveReport(report archive.Report, path string) string {
	rows := [][]string{
		{"archive", path},
		{"intact", yesNo(report.OK)},
		{"playlists", strconv.Itoa(report.Counts.Playlists)},
		{"logos", strconv.Itoa(report.Counts.Logos)},
		{"thumbnails", strconv.Itoa(report.Counts.Thumbs)},
		{"dataset entries", strconv.Itoa(report.Counts.Dataset)},
		{"compressed bytes", strconv.FormatInt(report.CompressedBytes, 10)},
		{"uncompressed bytes", strconv.FormatInt(report.UncompressedBytes, 10)},
	}
	if len(report.Corrupt) > 0 {
		rows = append(rows, []string{"corrupt entries", strings.Join(report.Corrupt, ", ")})
	}
	return renderTable([]string{"Archive", "Value"}, rows, []columnAlignment{alignLeft, alignRight})
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
