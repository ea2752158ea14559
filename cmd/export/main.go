// Command export renders a block tree file into a self-contained email HTML
// document without a database or network. Useful for previewing editor
// payloads and for golden-file comparisons in CI.
//
// Usage:
//
//	export -blocks blocks.json [-options options.json] [-out email.html]
//
// Post-driven blocks render their placeholder states because no content
// source is available offline.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/campaignbridge/campaignbridge/internal"
	"github.com/campaignbridge/campaignbridge/internal/domain"
	"github.com/campaignbridge/campaignbridge/internal/email"
)

func run() error {
	blocksPath := flag.String("blocks", "", "path to a JSON file containing the block tree (required)")
	optionsPath := flag.String("options", "", "path to a JSON file containing generation options")
	outPath := flag.String("out", "", "output file (default: stdout)")
	logLevel := flag.String("log-level", "error", "log level (debug, info, warn, error)")
	flag.Parse()

	if *blocksPath == "" {
		flag.Usage()
		return fmt.Errorf("-blocks is required")
	}

	logger := internal.NewLogger(os.Stderr, "development", *logLevel)

	data, err := os.ReadFile(*blocksPath)
	if err != nil {
		return fmt.Errorf("reading blocks file: %w", err)
	}
	blocks, err := domain.ParseBlocks(data)
	if err != nil {
		return fmt.Errorf("parsing blocks file: %w", err)
	}

	var optionMap map[string]any
	if *optionsPath != "" {
		raw, err := os.ReadFile(*optionsPath)
		if err != nil {
			return fmt.Errorf("reading options file: %w", err)
		}
		if err := json.Unmarshal(raw, &optionMap); err != nil {
			return fmt.Errorf("parsing options file: %w", err)
		}
	}
	opts := domain.EmailOptionsFromMap(optionMap)

	// No post lookup offline; post blocks degrade to placeholders.
	generator := email.NewGenerator(nil, logger)
	html := generator.Generate(context.Background(), blocks, opts)

	if *outPath == "" {
		fmt.Print(html)
		return nil
	}
	if err := os.WriteFile(*outPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "export:", err)
		os.Exit(1)
	}
}
