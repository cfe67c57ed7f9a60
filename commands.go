package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"housepredictor/app"
	"housepredictor/config"
	"housepredictor/db"
	qhttp "housepredictor/http"
	"housepredictor/logging"
	"housepredictor/ml"
	"housepredictor/watch"
)

type env struct {
	config *config.Config
	logger *zap.Logger
	store  *db.Store
}

func setup(c *cli.Context, withStore bool) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger, err := logging.New(logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	rt := &env{config: cfg, logger: logger}
	if withStore && cfg.Database.Path != "" {
		store, err := db.Open(cfg.Database.Path)
		if err != nil {
			logger.Sync()
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		rt.store = store
		logger.Info("database initialized", zap.String("path", cfg.Database.Path))
	}
	return rt, nil
}

func (rt *env) close() {
	if rt.store != nil {
		rt.store.Close()
	}
	rt.logger.Sync()
}

func (rt *env) service() (*app.Service, error) {
	opts := app.Options{
		ModelsDir: rt.config.Models.Dir,
		CacheSize: rt.config.Models.CacheSize,
		Locale:    rt.config.UI.Locale,
		Logger:    rt.logger,
	}
	if rt.store != nil {
		opts.Recorder = rt.store
	}
	return app.NewService(opts)
}

func ServeAction(c *cli.Context) error {
	rt, err := setup(c, true)
	if err != nil {
		return err
	}
	defer rt.close()

	svc, err := rt.service()
	if err != nil {
		return err
	}
	if !svc.Bundle().Usable() {
		rt.logger.Warn("models unavailable, serving the form anyway", zap.Strings("missing", svc.Bundle().Missing()))
	}

	var history qhttp.HistoryReader
	if rt.store != nil {
		history = rt.store
	}
	server, err := qhttp.NewServer(qhttp.ServerConfig{
		Port:    rt.config.Http.Port,
		Timeout: rt.config.Http.Timeout,
	}, svc, history, rt.logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if rt.config.Models.Watch {
		watcher := watch.New(svc.ModelsDir(), 0, func() {
			if _, err := svc.Reload(); err != nil {
				rt.logger.Error("reload failed", zap.Error(err))
				return
			}
			server.Hub().NotifyModels()
		}, rt.logger)
		go func() {
			if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				rt.logger.Error("model watcher stopped", zap.Error(err))
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	rt.logger.Info("shutting down")
	if err := server.Stop(); err != nil {
		rt.logger.Error("shutdown failed", zap.Error(err))
	}
	rt.logger.Info("exiting")
	return nil
}

func PredictAction(c *cli.Context) error {
	rt, err := setup(c, true)
	if err != nil {
		return err
	}
	defer rt.close()

	svc, err := rt.service()
	if err != nil {
		return err
	}
	raw := make(map[string]string, ml.NumFeatures)
	for _, key := range ml.FeatureNames() {
		raw[key] = c.String(key)
	}
	features, result, err := svc.Predict(raw)
	if err != nil {
		formatter := svc.Formatter()
		if errors.Is(err, ml.ErrModelsUnavailable) {
			fmt.Fprintln(c.App.Writer, formatter.MissingScreen(svc.Bundle()))
		}
		return cli.Exit(formatter.ErrorMessage(err), 1)
	}
	fmt.Fprintln(c.App.Writer, svc.Formatter().Report(features, result))
	return nil
}

func CheckAction(c *cli.Context) error {
	rt, err := setup(c, false)
	if err != nil {
		return err
	}
	defer rt.close()

	bundle := ml.LoadBundle(rt.config.Models.Dir, rt.logger)
	problems := make(map[string]*ml.ArtifactProblem, len(bundle.Problems))
	for _, p := range bundle.Problems {
		problems[p.Artifact] = p
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Model directory: %s\n", bundle.Dir)
	if bundle.DirMissing {
		fmt.Fprintln(w, "  directory not found")
	}
	fmt.Fprintf(w, "%-24s %-28s %s\n", "Artifact", "File", "Status")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, artifact := range ml.Artifacts() {
		status := "ok"
		if p, ok := problems[artifact.Name]; ok {
			if p.Missing {
				status = "missing"
			} else {
				status = fmt.Sprintf("corrupt: %v", p.Err)
			}
		}
		fmt.Fprintf(w, "%-24s %-28s %s\n", artifact.Name, artifact.File, status)
	}

	if err := bundle.Err(); err != nil {
		return cli.Exit(fmt.Sprintf("\nmodels unavailable: %d of %d artifacts have problems", len(bundle.Problems), len(ml.Artifacts())), 1)
	}
	fmt.Fprintln(w, "\nAll artifacts loaded.")
	return nil
}

func HistoryAction(c *cli.Context) error {
	rt, err := setup(c, true)
	if err != nil {
		return err
	}
	defer rt.close()
	if rt.store == nil {
		return cli.Exit("history is disabled: database.path is empty", 1)
	}

	records, err := rt.store.QueryPredictions(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list predictions: %w", err)
	}
	w := c.App.Writer
	if len(records) == 0 {
		fmt.Fprintln(w, "No predictions found")
		return nil
	}

	fmt.Fprintf(w, "%-6s %-20s %-8s %-6s %-6s %-5s %-6s %-6s %-16s %-6s\n",
		"ID", "Created", "Area", "Beds", "Baths", "Age", "Loc", "Garage", "Price", "Tier")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, r := range records {
		fmt.Fprintf(w, "%-6d %-20s %-8g %-6g %-6g %-5g %-6g %-6g %-16.0f %-6s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Features.Area,
			r.Features.Bedrooms,
			r.Features.Bathrooms,
			r.Features.Age,
			r.Features.LocationScore,
			r.Features.Garage,
			r.Price,
			r.Tier,
		)
	}
	fmt.Fprintf(w, "\nTotal: %d predictions\n", len(records))
	return nil
}
