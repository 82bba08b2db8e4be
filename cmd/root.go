package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/forecast-rugby/internal/config"
)

var (
	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "forecast-rugby",
	Short: "Rugby match forecasts from betting-site point spreads",
	Long:  "Scrapes point-spread markets for upcoming rugby matches, infers a winner and margin for each, and submits the matching forecasts to Scorecast.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var (
			c   *config.Config
			err error
		)
		if cfgFile != "" {
			c, err = config.LoadFile(cfgFile)
		} else {
			c, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: nearest config.toml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
