// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"

	"github.com/starford/packindex/internal/builder"
	"github.com/starford/packindex/internal/catalog"
	"github.com/starford/packindex/internal/index"
	"github.com/starford/packindex/internal/metrics"
	"github.com/starford/packindex/internal/ordering"
	"github.com/starford/packindex/internal/watch"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{
		mode:   ModeBuild,
		stdout: os.Stdout,
		logOut: os.Stderr,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg.App, app.logOut)
	slog.SetDefault(logger)

	logger.Debug("configuration loaded",
		slog.String("mode", string(app.mode)),
		slog.String("content_root", cfg.Content.Root),
		slog.String("output", cfg.Content.Output),
		slog.String("default_pack", cfg.Content.DefaultPack),
		slog.String("log_level", cfg.App.LogLevel.String()))

	switch app.mode {
	case ModeBuild, ModeCheck:
		return app.build(ctx, logger, metrics.New())
	case ModeWatch:
		return app.watch(ctx, logger)
	case ModeList:
		return app.listContent()
	default:
		return fmt.Errorf("unknown mode %q", app.mode)
	}
}

// newLogger builds the process logger. "auto" picks text on a terminal and JSON otherwise.
func newLogger(cfg ApplicationConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	format := cfg.LogFormat
	if format == LogFormatAuto {
		format = LogFormatJSON
		if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			format = LogFormatText
		}
	}
	if format == LogFormatText {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (a *application) buildOptions(logger *slog.Logger) builder.Options {
	c := a.config.Content
	return builder.Options{
		Root:        c.Root,
		SourceBase:  filepath.ToSlash(filepath.Clean(c.Root)),
		Extensions:  c.Extensions,
		DefaultPack: c.DefaultPack,
		Parallelism: a.config.Build.Parallelism,
		Logger:      logger,
		Now:         a.now,
	}
}

// build runs one build. In ModeBuild and ModeWatch the snapshot is written
// and exported; ModeCheck only validates.
func (a *application) build(ctx context.Context, logger *slog.Logger, rec *metrics.Recorder) error {
	cfg := a.config
	start := time.Now()

	res, err := builder.Build(ctx, a.buildOptions(logger))
	took := time.Since(start)
	if err != nil {
		rec.RecordFailure(took)
		a.writeMetrics(logger, rec)
		return fmt.Errorf("build failed: %w", err)
	}

	snap := res.Snapshot
	summary := []any{
		slog.Int("packs", len(snap.Packs)),
		slog.String("default_pack", snap.DefaultPackID),
		slog.Int("skills", res.SkillCount()),
		slog.Int("units", res.UnitCount()),
		slog.Int("warnings", len(res.Warnings)),
		slog.Duration("took", took),
	}

	if a.mode == ModeCheck {
		logger.Info("check: content is valid", summary...)
		return nil
	}

	if err := builder.WriteSnapshot(cfg.Content.Output, snap); err != nil {
		rec.RecordFailure(took)
		a.writeMetrics(logger, rec)
		return err
	}
	logger.Info("build: content index written", append(summary, slog.String("output", cfg.Content.Output))...)

	if cfg.Export.SQLitePath != "" {
		if err := exportSQLite(cfg.Export.SQLitePath, res, logger); err != nil {
			rec.RecordFailure(took)
			a.writeMetrics(logger, rec)
			return err
		}
	}

	rec.RecordBuild(res, took)
	a.writeMetrics(logger, rec)
	return nil
}

func exportSQLite(path string, res *builder.Result, logger *slog.Logger) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	db, err := index.Open(path)
	if err != nil {
		return fmt.Errorf("init index: %w", err)
	}
	defer db.Close()

	stats, err := index.Export(db, res.Snapshot, logger)
	if err != nil {
		return err
	}
	logger.Info("export: sqlite updated",
		slog.String("path", path),
		slog.Int("updated", stats.Updated),
		slog.Int("unchanged", stats.Unchanged),
		slog.Int("removed", stats.Removed))
	return nil
}

// writeMetrics dumps rec to the configured textfile. ModeCheck writes nothing.
func (a *application) writeMetrics(logger *slog.Logger, rec *metrics.Recorder) {
	path := a.config.Metrics.TextfilePath
	if path == "" || a.mode == ModeCheck {
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		logger.Warn("metrics: write failed", slog.String("error", err.Error()))
	}
}

// watch builds once, then rebuilds on every content change until a signal
// arrives or ctx is cancelled. Failed builds keep the previous output.
func (a *application) watch(ctx context.Context, logger *slog.Logger) error {
	rec := metrics.New()
	if err := a.build(ctx, logger, rec); err != nil {
		logger.Error("watch: initial build failed", slog.String("error", err.Error()))
	}

	g, gCtx := errgroup.WithContext(ctx)
	watchCtx, stop := context.WithCancel(gCtx)
	defer stop()

	g.Go(func() error {
		defer stop()
		return watch.Watch(watchCtx, a.config.Content.Root, watch.Options{
			Debounce:   a.config.Watch.Debounce,
			Extensions: a.config.Content.Extensions,
			Logger:     logger,
		}, func(ctx context.Context) error {
			return a.build(ctx, logger, rec)
		})
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("received shutdown signal", slog.String("signal", sig.String()))
		case <-watchCtx.Done():
		}
		stop()
		return nil
	})

	return g.Wait()
}

// listContent prints a pack's skills or lessons from the written snapshot.
func (a *application) listContent() error {
	snap, err := builder.ReadSnapshot(a.config.Content.Output)
	if err != nil {
		return err
	}
	cat := catalog.New(snap)

	packID := a.list.Pack
	if packID == "" {
		packID = snap.DefaultPackID
	}

	switch a.list.Kind {
	case "", "skills":
		skills, err := cat.Skills(packID, ordering.ParseSkillSort(a.list.Sort))
		if err != nil {
			return err
		}
		numbers, err := cat.SkillNumbers(packID)
		if err != nil {
			return err
		}
		for _, s := range skills {
			n, _ := numbers.Of(s.ID)
			fmt.Fprintf(a.stdout, "%3d\t%s\t%s/%s\t%s\n", n, s.ID, s.CategoryID, s.LevelID, s.Name)
		}
	case "lessons":
		units, err := cat.Lessons(packID)
		if err != nil {
			return err
		}
		for i, u := range units {
			fmt.Fprintf(a.stdout, "%3d\t%s\t%s\n", i+1, u.ID, u.Title)
		}
	default:
		return fmt.Errorf("unknown list kind %q", a.list.Kind)
	}
	return nil
}
