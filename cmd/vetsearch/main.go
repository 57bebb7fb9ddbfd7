// Copyright 2025 Madvet Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	vetsearch "github.com/madvet/vetsearch"
	"github.com/madvet/vetsearch/ai"
	"github.com/madvet/vetsearch/catalog"
	"github.com/madvet/vetsearch/expand"
	"github.com/madvet/vetsearch/ingestion"
)

// ingestionOptions maps embedding flags onto pipeline options.
func ingestionOptions(c *cli.Context) []ingestion.Option {
	opts := []ingestion.Option{ingestion.WithBatchSize(c.Int("batch-size"))}
	if c.Int("pool-size") > 0 {
		opts = append(opts, ingestion.WithPoolSize(c.Int("pool-size")))
	}
	return opts
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	dbFlag := &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to the catalog database directory",
		Required: true,
	}
	aiFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "Embedding service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "expander-host",
			Usage: "Query expander host URL (defaults to embedding-host)",
		},
		&cli.StringFlag{
			Name:  "expander-model",
			Usage: "Query expander model name",
			Value: "qwen2.5:3b",
		},
	}

	return &cli.App{
		Name:   "vetsearch",
		Usage:  "Veterinary product recommendation engine",
		Before: setupLogger,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "seed",
				Usage:  "Load a JSON catalog export into the database",
				Action: seedCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the JSON catalog export",
						Required: true,
					},
				},
			},
			{
				Name:   "embed",
				Usage:  "Generate embeddings for products that have none",
				Action: embedCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of products per embedding request",
						Value: 16,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Concurrent embedding workers (0 = auto)",
					},
				}, aiFlags...),
			},
			{
				Name:      "query",
				Usage:     "Search the catalog for a customer message",
				ArgsUsage: "<message>",
				Action:    queryCommand,
				Flags: append([]cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:    "top-k",
						Aliases: []string{"k"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "no-semantic",
						Usage: "Disable the embedding search layer",
					},
					&cli.BoolFlag{
						Name:  "no-model",
						Usage: "Disable the model tier of query expansion",
					},
					&cli.BoolFlag{
						Name:  "context",
						Usage: "Print the reply-generator context block",
					},
				}, aiFlags...),
			},
			{
				Name:      "followup",
				Usage:     "Classify a message as follow-up or fresh query",
				ArgsUsage: "<message>",
				Action:    followupCommand,
			},
			{
				Name:      "extract",
				Usage:     "List catalog products mentioned in a reply text",
				ArgsUsage: "<text>",
				Action:    extractCommand,
				Flags:     []cli.Flag{dbFlag},
			},
		},
	}
}

// newService assembles the retrieval core from command-line flags.
// Commands without AI flags fall back to the default configuration.
func newService(c *cli.Context, opts ...vetsearch.ServiceOption) (*vetsearch.Service, error) {
	var configOpts []ai.ConfigOption
	if host := c.String("embedding-host"); host != "" {
		configOpts = append(configOpts, ai.WithEmbeddingHost(host))
	}
	expanderHost := c.String("expander-host")
	if expanderHost == "" {
		expanderHost = c.String("embedding-host")
	}
	if expanderHost != "" {
		configOpts = append(configOpts, ai.WithExpanderHost(expanderHost))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}
	if model := c.String("expander-model"); model != "" {
		configOpts = append(configOpts, ai.WithExpanderModel(model))
	}

	aiConfig := ai.NewConfig(configOpts...)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts = append([]vetsearch.ServiceOption{vetsearch.WithAIConfig(aiConfig)}, opts...)
	return vetsearch.NewService(c.String("db"), opts...)
}

func seedCommand(c *cli.Context) error {
	data, err := os.ReadFile(c.String("file"))
	if err != nil {
		return fmt.Errorf("failed to read catalog file: %w", err)
	}
	products, err := catalog.ParseRows(data)
	if err != nil {
		return fmt.Errorf("failed to parse catalog file: %w", err)
	}

	// Seeding is a pure storage operation; no AI layers needed.
	service, err := newService(c, vetsearch.WithoutSemanticSearch(), vetsearch.WithoutModelExpansion())
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline()
	if err != nil {
		return err
	}
	defer pipeline.Release()

	report, err := pipeline.Seed(context.Background(), products...)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Seeded %d products (%d added, %d updated, %d skipped)\n",
		report.Added+report.Updated, report.Added, report.Updated, report.Skipped)
	return nil
}

func embedCommand(c *cli.Context) error {
	service, err := newService(c, vetsearch.WithoutModelExpansion())
	if err != nil {
		return err
	}
	defer service.Close()

	pipeline, err := service.NewIngestionPipeline(ingestionOptions(c)...)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	embedded, err := pipeline.EmbedMissing(context.Background())
	if err != nil {
		return fmt.Errorf("embedding failed after %d products: %w", embedded, err)
	}

	fmt.Fprintf(c.App.Writer, "Embedded %d products\n", embedded)
	return nil
}

func queryCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("message text required")
	}

	var serviceOpts []vetsearch.ServiceOption
	if c.Bool("no-semantic") {
		serviceOpts = append(serviceOpts, vetsearch.WithoutSemanticSearch())
	}
	if c.Bool("no-model") {
		serviceOpts = append(serviceOpts, vetsearch.WithoutModelExpansion())
	}

	service, err := newService(c, serviceOpts...)
	if err != nil {
		return err
	}
	defer service.Close()

	results, err := service.Search(context.Background(), query, nil, c.Int("top-k"))
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(c.App.Writer, "No products matched.")
		return nil
	}

	for i, r := range results {
		p := r.Product
		fmt.Fprintf(c.App.Writer, "%d. %s (score %.1f)\n", i+1, p.Name, r.Score)
		details := []string{string(p.Category), p.Packaging, p.Species}
		kept := details[:0]
		for _, d := range details {
			if strings.TrimSpace(d) != "" {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			fmt.Fprintf(c.App.Writer, "   %s\n", strings.Join(kept, " | "))
		}
	}

	if c.Bool("context") {
		fmt.Fprintln(c.App.Writer)
		fmt.Fprintln(c.App.Writer, service.BuildContext(results))
	}
	return nil
}

func followupCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("message text required")
	}
	fmt.Fprintf(c.App.Writer, "follow-up: %t\n", expand.IsFollowUp(text))
	return nil
}

func extractCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("text required")
	}

	service, err := newService(c, vetsearch.WithoutSemanticSearch(), vetsearch.WithoutModelExpansion())
	if err != nil {
		return err
	}
	defer service.Close()

	mentioned, err := service.ExtractMentionedProducts(context.Background(), text)
	if err != nil {
		return err
	}
	if len(mentioned) == 0 {
		fmt.Fprintln(c.App.Writer, "No products mentioned.")
		return nil
	}
	for _, p := range mentioned {
		fmt.Fprintln(c.App.Writer, p.Name)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
