package main

import (
	"context"

	"igingest/pkg/config"
	"igingest/pkg/instagram"
	"igingest/pkg/logger"
	"igingest/pkg/ratelimit"
	"igingest/pkg/scraper"
	"igingest/pkg/sink"
	"igingest/pkg/ui"
)

// pipeline bundles everything a command needs to ingest profiles.
type pipeline struct {
	cfg    *config.Config
	runner *scraper.BatchRunner
	pg     *sink.PostgresSink
}

// buildPipeline loads configuration, initializes logging, and wires the
// source, rate limiter, ingestor, and sinks together.
func buildPipeline(ctx context.Context, flags map[string]interface{}) (*pipeline, error) {
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		return nil, err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return nil, err
	}
	log := logger.GetLogger()
	log.WithField("version", version).Info("igingest starting")

	client := instagram.NewClient(&cfg.Source, cfg.RateLimit.MaxRetries, log)
	source := instagram.NewSource(client, log)
	limiter := ratelimit.NewFixedInterval(cfg.RateLimit.Delay())
	ingestor := scraper.NewProfileIngestor(source, limiter, cfg.Scrape.MaxPosts, log)

	sinks := []scraper.RecordSink{
		sink.NewJSONSink(cfg.Storage.DataDirectory, log),
		sink.NewCSVSink(cfg.Storage.DataDirectory, log),
	}

	p := &pipeline{cfg: cfg}
	if cfg.Storage.PostgresDSN != "" {
		pg, err := sink.NewPostgresSink(ctx, cfg.Storage.PostgresDSN, cfg.Storage.PostgresSchema, log)
		if err != nil {
			return nil, err
		}
		p.pg = pg
		sinks = append(sinks, pg)
		ui.PrintInfo("Postgres mirror", "enabled")
	}

	p.runner = scraper.NewBatchRunner(ingestor, sinks, log)
	return p, nil
}

// close releases any pooled resources held by the pipeline.
func (p *pipeline) close() {
	if p.pg != nil {
		p.pg.Close()
	}
}

// commandFlags collects the scrape flag overrides into the config merge map.
func commandFlags() map[string]interface{} {
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if maxPosts != defaultMaxPosts {
		flags["max-posts"] = maxPosts
	}
	if delaySeconds != defaultDelaySeconds {
		flags["delay"] = delaySeconds
	}
	if postgresDSN != "" {
		flags["postgres-dsn"] = postgresDSN
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}
	return flags
}
