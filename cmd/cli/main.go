package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/dvloznov/finance-assistant/internal/chat"
	"github.com/dvloznov/finance-assistant/internal/config"
	"github.com/dvloznov/finance-assistant/internal/gcs"
	"github.com/dvloznov/finance-assistant/internal/llm"
	"github.com/dvloznov/finance-assistant/internal/logger"
	"github.com/dvloznov/finance-assistant/internal/metrics"
	"github.com/dvloznov/finance-assistant/internal/store"
	"github.com/dvloznov/finance-assistant/internal/tabular"
)

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg := config.Load()
	log := logger.NewWithLevel(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "summary":
		runSummary(cfg, log)
	case "ask":
		runAsk(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Finance Assistant CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  summary   Print spending summaries for a CSV or Excel file")
	fmt.Println("  ask       Ask a question about a CSV or Excel file")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nFiles are read from a local path (-file) or from GCS (-gcs-uri gs://bucket/object).")
	fmt.Println("Run 'cli <command> -h' for more information on a command.")
}

// summary is every aggregate view of the loaded dataset.
type summary struct {
	Rows               int                  `json:"rows"`
	SpendingByCategory metrics.Breakdown    `json:"spending_by_category"`
	TopMerchants       metrics.Breakdown    `json:"top_merchants"`
	MonthlyTotals      metrics.Breakdown    `json:"monthly_totals"`
	FastestGrowing     metrics.Growth       `json:"fastest_growing_category"`
	TopExpensesWeek    metrics.Breakdown    `json:"top_expenses_week"`
	DailyTotals        []metrics.DailyTotal `json:"daily_totals"`
}

func runSummary(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("summary", flag.ExitOnError)
	file := fs.String("file", "", "Path or gs:// URI of a CSV or XLSX file")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of a CSV or XLSX file")
	n := fs.Int("n", 5, "Number of top merchants")
	k := fs.Int("k", 3, "Number of top expenses in the latest week")
	fs.Parse(os.Args[2:])

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := loadStore(ctx, gcs.NewClient(cfg.GCSCredentialsFile), *file, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	engine := metrics.NewEngine(st)
	printJSON(log, summary{
		Rows:               st.Current().Len(),
		SpendingByCategory: engine.SpendByCategory(),
		TopMerchants:       engine.TopMerchants(*n),
		MonthlyTotals:      engine.MonthlyTotals(),
		FastestGrowing:     engine.FastestGrowingCategory(),
		TopExpensesWeek:    engine.LatestWeekTopExpenses(*k),
		DailyTotals:        engine.DailyTotals(),
	})
}

func runAsk(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	file := fs.String("file", "", "Path or gs:// URI of a CSV or XLSX file")
	gcsURI := fs.String("gcs-uri", "", "GCS URI of a CSV or XLSX file")
	question := fs.String("q", "", "Question to ask")
	transport := fs.String("transport", cfg.GeminiTransport, "Gemini transport (rest or sdk)")
	model := fs.String("model", cfg.GeminiModel, "Gemini model name")
	fs.Parse(os.Args[2:])

	if *question == "" {
		log.Fatal().Msg("Error: -q is required")
	}

	cfg.GeminiTransport = *transport
	cfg.GeminiModel = *model
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	st, err := loadStore(ctx, gcs.NewClient(cfg.GCSCredentialsFile), *file, *gcsURI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load transactions")
	}

	transportImpl, err := llm.NewTransport(ctx, cfg.LLM(), nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create LLM transport")
	}
	client := llm.NewClient(cfg.LLM(), transportImpl)

	reply, err := chat.NewService(st, client).Answer(ctx, *question)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to answer question")
	}
	printJSON(log, reply)
}

// loadStore reads a local file or a gs:// object into a fresh store.
// A gs:// value passed as file is treated as a GCS URI.
func loadStore(ctx context.Context, src gcs.Source, file, gcsURI string) (*store.Store, error) {
	if gcs.IsURI(file) && gcsURI == "" {
		file, gcsURI = "", file
	}
	if (file == "") == (gcsURI == "") {
		return nil, fmt.Errorf("exactly one of -file or -gcs-uri is required")
	}

	var (
		name string
		r    io.Reader
	)
	if gcsURI != "" {
		data, err := src.Fetch(ctx, gcsURI)
		if err != nil {
			return nil, fmt.Errorf("loadStore: %w", err)
		}
		name, r = gcs.Filename(gcsURI), bytes.NewReader(data)
	} else {
		f, err := os.Open(file)
		if err != nil {
			return nil, fmt.Errorf("loadStore: open file %q: %w", file, err)
		}
		defer f.Close()
		name, r = filepath.Base(file), f
	}

	table, err := tabular.Decode(name, r)
	if err != nil {
		return nil, fmt.Errorf("loadStore: decode %s: %w", name, err)
	}

	st := store.New()
	rows, err := st.Ingest(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("loadStore: %w", err)
	}
	log := logger.FromContext(ctx)
	log.Info().Str("source", name).Int("rows", rows).Msg("Transactions loaded")
	return st, nil
}

func printJSON(log zerolog.Logger, v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatal().Err(err).Msg("Failed to encode output")
	}
}
