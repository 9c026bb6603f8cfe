// Package main provides the ETL pipeline command: read or fetch
// article XML, parse it into records, and persist or push them.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"pubxml/internal/config"
	"pubxml/internal/fetch"
	"pubxml/internal/logger"
	"pubxml/internal/parser"
	"pubxml/internal/push"
	"pubxml/internal/storage"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	input := flag.String("input", "", "Single XML file or URL (overrides config sources)")
	source := flag.String("source", "", "Source label attached to every record")
	output := flag.String("output", "out", "Output directory")
	format := flag.String("format", "json", "Output format: json or jsonl")
	pushEndpoint := flag.String("push-endpoint", "", "Optional index endpoint to push records to")
	apiKey := flag.String("api-key", os.Getenv("PUBXML_API_KEY"), "API key for the index endpoint")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")

	flag.Parse()

	cfg, err := buildConfig(*configFile, *input, *source, *output, *format, *pushEndpoint, *apiKey, *logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		flag.PrintDefaults()
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.ETL.Logging.Level)

	log.Info("starting ETL pipeline", "sources", len(cfg.EnabledSources()), "output", cfg.ETL.Output.Path)

	startTime := time.Now()

	p := parser.NewParser()
	fetcher := fetch.NewFetcherWithPolicy(cfg.ETL.Retry)
	writer := storage.NewWriter(cfg.ETL.Output.Path, cfg.ETL.Output.Format, cfg.ETL.Output.PrettyPrint)

	var pusher *push.Pusher
	if cfg.ETL.Push.Enabled {
		pusher = push.NewPusher(cfg.ETL.Push.Endpoint, cfg.ETL.Push.APIKey, log)
	}

	var produced, failed int

	for _, src := range cfg.EnabledSources() {
		n, f, err := processSource(p, fetcher, writer, pusher, log, src, cfg.ETL.Source)
		if err != nil {
			log.Error("source failed", "location", src.Location(), "error", err)
			failed++

			continue
		}

		produced += n
		failed += f
	}

	stats := writer.Stats()
	log.Info("pipeline finished",
		"articles", produced,
		"failed", failed,
		"saved", stats.Saved,
		"skipped", stats.Skipped,
		"elapsed", time.Since(startTime).Round(time.Millisecond),
	)

	if failed > 0 {
		os.Exit(1)
	}
}

// processSource converts one XML source into stored records. Returns
// the number of articles produced and the number that failed.
func processSource(
	p *parser.Parser,
	fetcher *fetch.Fetcher,
	writer *storage.Writer,
	pusher *push.Pusher,
	log *logger.Logger,
	src config.SourceConfig,
	label string,
) (int, int, error) {
	var (
		data []byte
		err  error
	)

	if src.IsLocalFile() {
		data, err = os.ReadFile(src.File)
	} else {
		data, err = fetcher.Fetch(src.URL)
	}

	if err != nil {
		return 0, 0, fmt.Errorf("failed to load source: %w", err)
	}

	srcLog := log.ForSource(src.Location())

	srcLog.Debug("loaded source", "bytes", len(data))

	seq, err := p.Parse(bytes.NewReader(data), label)
	if err != nil {
		return 0, 0, err
	}

	var produced, failed int

	for article, err := range seq {
		if err != nil {
			// A failed article must not abort its siblings.
			srcLog.Error("article failed", "error", err)
			failed++

			continue
		}

		if err := writer.Save(article); err != nil {
			srcLog.Error("save failed", "uid", article.UID, "error", err)
			failed++

			continue
		}

		if pusher != nil {
			if err := pusher.Push(article); err != nil {
				srcLog.Error("push failed", "uid", article.UID, "error", err)
				failed++

				continue
			}
		}

		produced++
	}

	srcLog.Info("source processed", "articles", produced, "failed", failed)

	return produced, failed, nil
}

// buildConfig loads the YAML config or assembles one from flags.
func buildConfig(configFile, input, source, output, format, pushEndpoint, apiKey, logLevel string) (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfig(configFile)
	}

	if input == "" {
		return nil, config.ErrNoSources
	}

	src := config.SourceConfig{Enabled: true}
	if _, err := os.Stat(input); err == nil {
		src.File = input
	} else {
		src.URL = input
	}

	cfg := &config.Config{
		ETL: config.ETLConfig{
			Source:  source,
			Sources: []config.SourceConfig{src},
			Output: config.OutputConfig{
				Path:   output,
				Format: format,
			},
			Push: config.PushConfig{
				Endpoint: pushEndpoint,
				APIKey:   apiKey,
				Enabled:  pushEndpoint != "",
			},
			Logging: config.LoggingConfig{Level: logLevel},
			Retry:   config.DefaultRetryPolicy(),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
