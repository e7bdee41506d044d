package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goanswer/internal/annotate"
	"github.com/hyperifyio/goanswer/internal/answer"
	"github.com/hyperifyio/goanswer/internal/config"
	"github.com/hyperifyio/goanswer/internal/search"
	"github.com/hyperifyio/goanswer/internal/suggest"
	"github.com/hyperifyio/goanswer/internal/trigger"
)

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	var (
		configPath string
		searxURL   string
		searxKey   string
		llmBaseURL string
		llmModel   string
		llmKey     string
		userAgent  string
		selectK    int
		fetchK     int
		maxChars   int
		quick      bool
		outputPath string
		pdfPath    string
		verbose    bool
	)

	flag.StringVar(&configPath, "config", "", "Optional YAML config file")
	flag.StringVar(&searxURL, "searx.url", "", "SearXNG base URL used to gather result snippets")
	flag.StringVar(&searxKey, "searx.key", "", "SearXNG API key (optional)")
	flag.StringVar(&llmBaseURL, "llm.base", "", "OpenAI-compatible base URL")
	flag.StringVar(&llmModel, "llm.model", "", "Model name")
	flag.StringVar(&llmKey, "llm.key", "", "API key for OpenAI-compatible server")
	flag.StringVar(&userAgent, "ua", "", "User-Agent for page fetches")
	flag.IntVar(&selectK, "max.select", 0, "Maximum URLs the selection model may return")
	flag.IntVar(&fetchK, "max.fetch", 0, "Maximum URLs actually fetched")
	flag.IntVar(&maxChars, "max.extractChars", 0, "Character budget per extracted page")
	flag.BoolVar(&quick, "quick", false, "Answer from the model alone without fetching pages")
	flag.StringVar(&outputPath, "output", "", "Write the answer to this file instead of stdout")
	flag.StringVar(&pdfPath, "output.pdf", "", "Also render the answer as a simple PDF")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	query := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "usage: goanswer [flags] <query>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := config.Config{
		SearxURL:        searxURL,
		SearxKey:        searxKey,
		LLMBaseURL:      llmBaseURL,
		LLMModel:        llmModel,
		LLMAPIKey:       llmKey,
		UserAgent:       userAgent,
		SelectK:         selectK,
		FetchK:          fetchK,
		ExtractMaxChars: maxChars,
		Verbose:         verbose,
	}
	cfg.ApplyEnv()
	if configPath != "" {
		fc, err := config.LoadFile(configPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", configPath).Msg("config file")
		}
		cfg.ApplyFile(fc)
	}
	cfg.FillDefaults()

	if cfg.LLMAPIKey == "" {
		log.Fatal().Msg("no LLM API key configured (set -llm.key or LLM_API_KEY)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := run(ctx, cfg, query, quick, outputPath, pdfPath); err != nil {
		log.Fatal().Err(err).Msg("goanswer failed")
	}
}

func run(ctx context.Context, cfg config.Config, query string, quick bool, outputPath, pdfPath string) error {
	engine := answer.New(cfg)
	if cfg.Verbose {
		if err := engine.Preflight(ctx); err != nil {
			log.Warn().Err(err).Msg("LLM preflight failed; continuing")
		}
	}

	// Trigger tokens in the query override the flag, mirroring how the
	// host engine invokes the library.
	if !trigger.Has(query, cfg.Trigger) && !trigger.Has(query, cfg.QuickTrigger) {
		if quick {
			query += " " + cfg.QuickTrigger
		} else {
			query += " " + cfg.Trigger
		}
	}
	cleaned := trigger.Strip(trigger.Strip(query, cfg.Trigger), cfg.QuickTrigger)

	var results []search.Result
	if cfg.SearxURL != "" {
		provider := &search.SearxNG{BaseURL: cfg.SearxURL, APIKey: cfg.SearxKey, UserAgent: cfg.UserAgent}
		found, err := provider.Search(ctx, cleaned, cfg.ResultsForSelection)
		if err != nil {
			log.Warn().Err(err).Msg("snippet search failed; continuing without snippets")
		} else {
			results = annotate.Results(found)
			log.Info().Int("results", len(results)).Msg("gathered result snippets")
		}
	} else {
		log.Warn().Msg("no SearXNG URL configured; answering without snippets")
	}

	ans, err := engine.Respond(ctx, query, results)
	if err != nil {
		return err
	}
	if ans == nil {
		return fmt.Errorf("no trigger recognized in query")
	}

	out := fmt.Sprintf("%s\n\n%s\n", ans.Title, ans.Content)
	if suggestions := suggest.Suggestions(cleaned, results); len(suggestions) > 0 {
		out += "\nRELATED SEARCHES:\n"
		for _, s := range suggestions {
			out += "- " + s + "\n"
		}
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info().Str("out", outputPath).Msg("wrote answer")
	} else {
		fmt.Print(out)
	}
	if pdfPath != "" {
		if err := writeSimplePDF(out, pdfPath); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		log.Info().Str("out", pdfPath).Msg("wrote answer PDF")
	}
	return nil
}
