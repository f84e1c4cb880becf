package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/friendsincode/courtplan/internal/config"
	"github.com/friendsincode/courtplan/internal/logging"
	"github.com/friendsincode/courtplan/internal/version"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "courtplan",
	Short: "courtplan - court reservation scheduling toolkit",
	Long:  "courtplan assigns daily court reservations with a gap-minimizing heuristic and benchmarks it against a naive baseline over randomized workloads.",
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the courtplan version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(assignCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads process configuration (called by commands that need it)
func loadConfig() {
	cfg = config.Load()
	logger = logging.Setup(cfg.Environment)
}
