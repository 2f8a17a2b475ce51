package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gofeat/adapters/api"
	"gofeat/adapters/excel"
	"gofeat/app"
	"gofeat/domain/stats"
	"gofeat/internal"
	"gofeat/internal/config"
	"gofeat/internal/container"
	"gofeat/internal/report"
	"gofeat/internal/testkit"
	"gofeat/ports"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "gofeat",
		Short: "Rank predictors of a response by binned mean differences",
	}

	rootCmd.AddCommand(
		newRankCmd(),
		newGenerateCmd(),
		newServeCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the container shared by all commands
func setup(ctx context.Context, connect bool) (*container.Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	c, err := container.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if connect {
		if err := c.Connect(ctx); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func newRankCmd() *cobra.Command {
	var (
		file       string
		query      string
		sheet      string
		textCols   []string
		predictors []string
		pairMode   string
		reportDir  string
		noHTML     bool
		top        int
	)

	cmd := &cobra.Command{
		Use:   "rank [response]",
		Short: "Rank every predictor and predictor pair against a response",
		Long: `Rank predictors of a response column.

The dataset comes from a CSV/XLSX file (--file) or from a SQL query against
DATABASE_URL (--sql, or RANK_SQL_QUERY when --sql is empty).

Example: gofeat rank won --file games.csv --pair-mode all --top 20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			useSQL := cmd.Flags().Changed("sql")
			if file == "" && !useSQL {
				return fmt.Errorf("one of --file or --sql is required")
			}

			c, err := setup(ctx, useSQL)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if cmd.Flags().Changed("report-dir") {
				c.Config.Report.Dir = reportDir
			}
			if noHTML {
				c.Config.Report.HTML = false
			}

			var reader ports.DatasetReader
			if useSQL {
				if reader, err = c.SQLReader(query); err != nil {
					return err
				}
			} else {
				readerCfg := excel.DefaultReaderConfig()
				readerCfg.Sheet = sheet
				readerCfg.TextColumns = textCols
				reader = excel.NewDataReader(file, readerCfg, c.Logger)
			}

			mode, err := parseMode(pairMode)
			if err != nil {
				return err
			}

			service := c.RankingService(report.NewTextWriter(cmd.OutOrStdout(), top))
			_, err = service.Run(ctx, app.RankingRequest{
				Reader:     reader,
				Response:   args[0],
				Predictors: predictors,
				PairMode:   mode,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "CSV or XLSX dataset")
	cmd.Flags().StringVar(&query, "sql", "", "SQL query producing the dataset")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet to read (XLSX only, default first)")
	cmd.Flags().StringSliceVar(&textCols, "text-columns", nil, "Columns always loaded as text")
	cmd.Flags().StringSliceVar(&predictors, "predictors", nil, "Predictors to score (default: all other columns)")
	cmd.Flags().StringVar(&pairMode, "pair-mode", "", "Pair sweep: unordered or all (default from RANK_PAIR_MODE)")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Directory for markdown/HTML reports (empty disables)")
	cmd.Flags().BoolVar(&noHTML, "no-html", false, "Skip the HTML report")
	cmd.Flags().IntVar(&top, "top", 25, "Entries printed per ranking (0 prints all)")

	return cmd
}

func newGenerateCmd() *cobra.Command {
	cfg := testkit.DefaultGamesConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic game log with known signal, noise and interaction columns",
		Long: `Generate a synthetic CSV dataset for trying the ranking.

runs_scored and team drive "won" on their own, pitch_speed and spin_rate only
matter together, weather and noise_N are unrelated.

Example: gofeat generate --rows 2000 --seed 7 --out games.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			frame, err := testkit.NewGamesDataGenerator(cfg).Generate()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return testkit.WriteCSV(w, frame)
		},
	}

	cmd.Flags().IntVar(&cfg.Rows, "rows", cfg.Rows, "Number of rows")
	cmd.Flags().IntVar(&cfg.NoiseColumns, "noise-columns", cfg.NoiseColumns, "Number of pure noise columns")
	cmd.Flags().Float64Var(&cfg.MissingRate, "missing-rate", cfg.MissingRate, "Share of cells left missing")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Random seed")
	cmd.Flags().StringVar(&out, "out", "-", "Output file (- for stdout)")

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ranking HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := setup(ctx, true)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			if port != "" {
				c.Config.Server.Port = port
			}
			server := api.NewServer(c.RankingService(), c.ReportRepo, c.Config.Server, c.Logger)
			httpServer := &http.Server{
				Addr:         ":" + c.Config.Server.Port,
				Handler:      server.Handler(),
				ReadTimeout:  c.Config.Server.ReadTimeout,
				WriteTimeout: c.Config.Server.WriteTimeout,
			}
			go func() {
				<-ctx.Done()
				httpServer.Close()
			}()

			c.Logger.Info("listening on :%s", c.Config.Server.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "Listen port (default from PORT)")

	return cmd
}

func parseMode(s string) (stats.PairMode, error) {
	if s == "" {
		return "", nil
	}
	return stats.ParsePairMode(s)
}
