package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/ducklens-lab/trendlens/pkg/marketdata"
)

// fetchAction parses the flags, sets up the market data client and downloads
// daily bars for every requested symbol in turn.
func fetchAction(ctx context.Context, cmd *cli.Command) error {
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")

	apiKey := cmd.String("api-key")
	if apiKey == "" {
		apiKey = os.Getenv("POLYGON_API_KEY")
	}

	symbols := strings.Split(cmd.String("symbols"), ",")
	for i := range symbols {
		symbols[i] = strings.TrimSpace(symbols[i])
	}

	clientConfig := marketdata.ClientConfig{
		ProviderType:  marketdata.ProviderPolygon,
		DatabasePath:  cmd.String("db"),
		PolygonAPIKey: apiKey,
	}

	var bar *progressbar.ProgressBar
	onProgress := func(current float64, total float64, message string) {
		if bar == nil {
			bar = progressbar.Default(int64(total))
			bar.Describe(message)
		}

		bar.Set(int(current))
	}

	client, err := marketdata.NewClient(clientConfig, onProgress)
	if err != nil {
		return fmt.Errorf("failed to create market data client: %w", err)
	}

	for _, symbol := range symbols {
		bar = nil

		log.Printf("Downloading %s from %s to %s...",
			symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))

		path, err := client.Download(ctx, marketdata.DownloadParams{
			Symbol:    symbol,
			StartDate: startDate,
			EndDate:   endDate,
		})
		if err != nil {
			return fmt.Errorf("download failed for %s: %w", symbol, err)
		}

		fmt.Printf("\nDownloaded %s to %s\n", symbol, path)
	}

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "fetch",
		Usage: "Download historical daily bars into the local DuckDB database",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "symbols",
				Aliases:  []string{"s"},
				Usage:    "Comma-separated ticker symbols (e.g. AAPL,MSFT,SPY,VIX)",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:  "start",
				Usage: "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:  "end",
				Usage: "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value: time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB database file",
				Value:   "data/market.duckdb",
			},
			&cli.StringFlag{
				Name:  "api-key",
				Usage: "Polygon API key. Defaults to the POLYGON_API_KEY environment variable.",
			},
		},
		Action: fetchAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
