// Package main implements the interactive console valuation tool.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/eucarpredict/valuation-engine/engine/encoding"
	"github.com/eucarpredict/valuation-engine/engine/valuation"
	"github.com/eucarpredict/valuation-engine/pkg/modelserve"
)

var (
	flagMappings string
	flagTechURL  string
	flagBrandURL string
)

var rootCmd = &cobra.Command{
	Use:   "valuation",
	Short: "European used-car valuation from the command line",
	Long: `Estimates the resale price of a used European car from its
specifications, using the two pre-trained regressors behind the
model server.`,
}

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Run an interactive valuation session",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildService()
		if err != nil {
			return err
		}
		sess := newSession(os.Stdin, os.Stdout, svc)
		return sess.Run(cmd.Context())
	},
}

var modelsCmd = &cobra.Command{
	Use:   "models <brand>",
	Short: "List catalog models for a brand",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		table, err := loadTable()
		if err != nil {
			return err
		}
		models := table.ModelsFor(args[0])
		if len(models) == 0 {
			return fmt.Errorf("no models found for brand %q", args[0])
		}
		for _, m := range models {
			fmt.Fprintf(os.Stdout, "%4d  %s\n", m.Code, m.Display)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagMappings, "mappings", envOr("MAPPINGS_PATH", "mappings.json"), "path to the encoding mappings file")
	rootCmd.PersistentFlags().StringVar(&flagTechURL, "tech-url", envOr("TECH_MODEL_URL", "http://localhost:9000/models/tech/predict"), "technical model predict endpoint")
	rootCmd.PersistentFlags().StringVar(&flagBrandURL, "brand-url", envOr("BRAND_MODEL_URL", "http://localhost:9000/models/brand/predict"), "brand model predict endpoint")
	rootCmd.AddCommand(predictCmd, modelsCmd)
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loadTable() (*encoding.Table, error) {
	table, err := encoding.LoadFile(flagMappings)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "[INFO] %s not found. Manual encoding will be required.\n", flagMappings)
			return encoding.NewTable(nil, nil), nil
		}
		return nil, err
	}
	return table, nil
}

func buildService() (*valuation.Service, error) {
	table, err := loadTable()
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	opts := modelserve.DefaultHTTPOptions()
	tech := modelserve.NewHTTP(flagTechURL, opts)
	brand := modelserve.NewHTTP(flagBrandURL, opts)
	return valuation.New(table, tech, brand, logger), nil
}
