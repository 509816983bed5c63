package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/moznion/go-optional"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v2"

	"github.com/ducklens-lab/trendlens/internal/calendar"
	"github.com/ducklens-lab/trendlens/internal/datastore"
	"github.com/ducklens-lab/trendlens/internal/logger"
	"github.com/ducklens-lab/trendlens/internal/regime"
	"github.com/ducklens-lab/trendlens/internal/simulator"
)

const (
	schemaFileName = "simulation-config.json"
	sampleFileName = "simulation-config.yaml"
)

func runAction(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	dbPath := cmd.String("db")
	outputDir := cmd.String("output")

	configData, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	// The regime provider needs the index and VIX symbols before the
	// simulator sees the config, so parse it here.
	var config simulator.Config
	if err := yaml.Unmarshal(configData, &config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	appLogger, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	// The store must already hold snapshots; opening never recreates the table.
	store, err := datastore.NewDuckDBStore(dbPath, appLogger)
	if err != nil {
		return fmt.Errorf("failed to open snapshot store %s: %w", dbPath, err)
	}
	defer store.Close()

	eventCalendar := calendar.NewStaticCalendar(nil)
	if calendarPath := cmd.String("calendar"); calendarPath != "" {
		eventCalendar, err = calendar.LoadCalendar(calendarPath)
		if err != nil {
			return fmt.Errorf("failed to load calendar %s: %w", calendarPath, err)
		}
	}

	regimes := regime.NewRuleBasedProvider(store, config.IndexSymbol, config.VIXSymbol, appLogger)

	sim := simulator.NewSimulator(store, eventCalendar, regimes, appLogger)
	if err := sim.InitializeConfig(config); err != nil {
		return fmt.Errorf("failed to initialize simulator: %w", err)
	}

	// Set up signal handling for graceful shutdown
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	var bar *progressbar.ProgressBar
	onDay := simulator.OnDayCallback(func(current, total int) {
		if bar == nil {
			bar = progressbar.Default(int64(total))
			bar.Describe("Simulating trading days")
		}
		bar.Set(current)
	})

	result, err := sim.Run(runCtx, optional.Some(onDay))
	if err != nil {
		if err == context.Canceled {
			fmt.Println("\nSimulation stopped by user")
			return nil
		}
		return fmt.Errorf("simulation failed: %w", err)
	}

	folder := filepath.Join(outputDir, result.RunID)
	if err := sim.WriteResults(result, folder); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	fmt.Println(renderReport(result, folder))
	return nil
}

func schemaAction(ctx context.Context, cmd *cli.Command) error {
	outputDir := cmd.String("output")
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	config := simulator.DefaultConfig()
	schemaJSON, err := config.GenerateSchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}

	schemaPath := filepath.Join(outputDir, schemaFileName)
	if err := os.WriteFile(schemaPath, []byte(schemaJSON), 0644); err != nil {
		return fmt.Errorf("failed to write schema to file: %w", err)
	}

	// Write a sample config next to the schema unless one already exists.
	samplePath := filepath.Join(outputDir, sampleFileName)
	if _, err := os.Stat(samplePath); os.IsNotExist(err) {
		yamlBytes, err := yaml.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal sample config: %w", err)
		}
		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaFileName+"\n"), yamlBytes...)
		if err := os.WriteFile(samplePath, yamlBytes, 0644); err != nil {
			return fmt.Errorf("failed to write sample config: %w", err)
		}
		log.Printf("Sample config successfully generated at %s", samplePath)
	}
	log.Printf("Schema successfully generated at %s", schemaPath)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Walk-forward simulation of daily trend signals",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Run a simulation from a YAML config against a snapshot store",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "config",
						Aliases:  []string{"c"},
						Usage:    "Path to the simulation config YAML",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the DuckDB snapshot store",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for run results",
						Value:   "results",
					},
					&cli.StringFlag{
						Name:  "calendar",
						Usage: "Optional YAML file with economic events to avoid trading around",
					},
				},
				Action: runAction,
			},
			{
				Name:  "schema",
				Usage: "Write the config JSON schema and a sample config",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory for the schema and sample files",
						Value:   "config",
					},
				},
				Action: schemaAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
