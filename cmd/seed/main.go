package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"ingredient-guide/internal/core/ai/provider"
	"ingredient-guide/internal/core/ingredient"
	"ingredient-guide/internal/core/ingredient/store"
	"ingredient-guide/internal/infrastructure/config"
	"ingredient-guide/internal/pkg/common"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	namesFlag   []string
	intervalArg time.Duration
	concurrency int
	showItems   bool
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Pre-populate the ingredient store",
	Long: `Resolve a list of ingredient names through the generator and save the
valid results synchronously. Names already stored are skipped.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringSliceVar(&namesFlag, "names", nil, "comma separated names to seed (default: built-in list)")
	rootCmd.Flags().DurationVar(&intervalArg, "interval", 0, "minimum pause between generator calls (default from config)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "names processed at once (default from config)")
	rootCmd.Flags().BoolVar(&showItems, "details", false, "print one row per name")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer common.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	records, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer records.Close()

	generator, err := provider.New(ctx, cfg)
	if err != nil {
		return err
	}

	names := seedNames(namesFlag)
	interval := cfg.Seed.Interval
	if cmd.Flags().Changed("interval") {
		interval = intervalArg
	}
	workers := cfg.Seed.Concurrency
	if concurrency > 0 {
		workers = concurrency
	}

	common.LogInfo("預載開始",
		zap.Int("total", len(names)),
		zap.Duration("interval", interval),
		zap.Int("concurrency", workers),
		zap.String("store_driver", cfg.Store.Driver),
	)

	seeder := ingredient.NewSeeder(records, generator,
		ingredient.WithSeedInterval(interval),
		ingredient.WithSeedConcurrency(workers),
	)
	report, err := seeder.Seed(ctx, names)
	if err != nil {
		return fmt.Errorf("seeding aborted: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderReport(report, showItems))
	return nil
}

// seedNames 旗標為空時使用內建清單
func seedNames(flagNames []string) []string {
	names := make([]string, 0, len(flagNames))
	for _, n := range flagNames {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return ingredient.DefaultSeedNames
	}
	return names
}

func renderReport(report *ingredient.SeedReport, details bool) string {
	var b strings.Builder

	if details {
		t := table.NewWriter()
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"#", "Name", "Key", "Result", "Reason"})
		for i, item := range report.Items {
			t.AppendRow(table.Row{i + 1, item.Name, item.Key, string(item.Result), item.Reason})
		}
		b.WriteString(t.Render())
		b.WriteString("\n")
	}

	summary := table.NewWriter()
	summary.SetStyle(table.StyleRounded)
	summary.AppendHeader(table.Row{"Saved", "Skipped", "Failed", "Total"})
	summary.AppendRow(table.Row{report.Saved, report.Skipped, report.Failed, report.Total()})
	b.WriteString(summary.Render())

	return b.String()
}
