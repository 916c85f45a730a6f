package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/budgetbuddy/budgetbuddy/internal/advisor"
	"github.com/budgetbuddy/budgetbuddy/internal/alerts"
	"github.com/budgetbuddy/budgetbuddy/internal/config"
	"github.com/budgetbuddy/budgetbuddy/internal/csvio"
	"github.com/budgetbuddy/budgetbuddy/internal/domain"
	infraBQ "github.com/budgetbuddy/budgetbuddy/internal/infra/bigquery"
	"github.com/budgetbuddy/budgetbuddy/internal/logger"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: budgetbuddy <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  export    Export a principal's transactions to a CSV file")
	fmt.Fprintln(os.Stderr, "  import    Import transactions from a CSV file")
	fmt.Fprintln(os.Stderr, "  alerts    Print the alerts that would fire for a principal today")
	fmt.Fprintln(os.Stderr, "  feedback  Run a budget plan file through the AI advisor")
	os.Exit(2)
}

func main() {
	log := logger.New()

	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	switch os.Args[1] {
	case "export":
		runExport(ctx, cfg, os.Args[2:])
	case "import":
		runImport(ctx, cfg, os.Args[2:])
	case "alerts":
		runAlerts(ctx, cfg, os.Args[2:])
	case "feedback":
		runFeedback(ctx, cfg, os.Args[2:])
	default:
		usage()
	}
}

func openStore(ctx context.Context, cfg config.Config) (*infraBQ.Store, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("GCP_PROJECT_ID is not set; the CLI needs the BigQuery record store")
	}
	return infraBQ.NewStore(ctx, cfg.ProjectID, cfg.DatasetID)
}

func runExport(ctx context.Context, cfg config.Config, args []string) {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("export", flag.ExitOnError)
	principal := fs.String("principal", "", "Principal id to export")
	out := fs.String("out", "transactions.csv", "Output CSV file path")
	fs.Parse(args)

	if *principal == "" {
		log.Fatal().Msg("Error: --principal is required")
	}

	records, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	data, err := records.FetchAll(ctx, *principal)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch records")
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create CSV file")
	}
	if err := csvio.Export(f, data.Transactions); err != nil {
		f.Close()
		log.Fatal().Err(err).Msg("Failed to write CSV file")
	}
	if err := f.Close(); err != nil {
		log.Fatal().Err(err).Msg("Failed to close CSV file")
	}

	fmt.Printf("Exported %d transactions to %s\n", len(data.Transactions), *out)
}

func runImport(ctx context.Context, cfg config.Config, args []string) {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("import", flag.ExitOnError)
	principal := fs.String("principal", "", "Principal id to import into")
	in := fs.String("in", "", "Input CSV file path")
	fs.Parse(args)

	if *principal == "" || *in == "" {
		log.Fatal().Msg("Error: --principal and --in are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read CSV file")
	}
	transactions, err := csvio.Import(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse CSV")
	}
	if len(transactions) == 0 {
		fmt.Println("No importable rows found.")
		return
	}

	records, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	if err := records.BulkImportTransactions(ctx, *principal, transactions); err != nil {
		log.Fatal().Err(err).Msg("Failed to import transactions")
	}

	fmt.Printf("Imported %d transactions for %s\n", len(transactions), *principal)
}

func runAlerts(ctx context.Context, cfg config.Config, args []string) {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("alerts", flag.ExitOnError)
	principal := fs.String("principal", "", "Principal id to evaluate")
	fs.Parse(args)

	if *principal == "" {
		log.Fatal().Msg("Error: --principal is required")
	}

	records, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open record store")
	}
	defer records.Close()

	data, err := records.FetchAll(ctx, *principal)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to fetch records")
	}

	snapshot := domain.Snapshot{
		Transactions: data.Transactions,
		Budgets:      data.Budgets,
		Recurring:    data.Recurring,
	}

	notifications := alerts.Evaluate(time.Now(), snapshot)
	if len(notifications) == 0 {
		fmt.Println("No alerts.")
		return
	}
	for _, n := range notifications {
		fmt.Printf("[%s] %s: %s\n", n.Kind, n.Title, n.Message)
	}
}

func runFeedback(ctx context.Context, cfg config.Config, args []string) {
	log := logger.FromContext(ctx)

	fs := flag.NewFlagSet("feedback", flag.ExitOnError)
	in := fs.String("in", "", "Budget plan file to analyze")
	fs.Parse(args)

	if *in == "" {
		log.Fatal().Msg("Error: --in is required")
	}

	raw, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read plan file")
	}

	adv := advisor.New(cfg.GeminiAPIKey, cfg.GeminiModel)
	feedback, err := adv.Analyze(ctx, string(raw))
	if err != nil {
		log.Fatal().Err(err).Msg("Plan analysis failed")
	}

	fmt.Println(feedback)
}
