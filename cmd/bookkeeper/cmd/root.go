// Package cmd provides CLI commands for bookkeeper.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pigeonworks-llc/bookkeeper/pkg/config"
	"github.com/pigeonworks-llc/bookkeeper/pkg/logger"
)

var (
	cfgFile     string
	debug       bool
	profileName string
	noLogo      bool

	cfg      *config.Config
	log      = zap.NewNop()
	closeLog = func() {}
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bookkeeper",
	Short: "Small-business bookkeeping with PDF invoices and receipts",
	Long: `bookkeeper keeps customers, invoices, payment accounts and
income/cost transactions in a local SQLite database, and renders
A4 invoices and receipts as PDF.

It supports:
- Numbered invoices per customer with a bank details snapshot
- Receipts rendered when an invoice is marked paid
- Multiple payment accounts with one default
- A profit and loss summary of logged transactions

Example:
  bookkeeper customer add --name "Acme Pty Ltd" --abn "98 765 432 109"
  bookkeeper invoice create --customer 1 --item "2|Consulting|50.00"
  bookkeeper invoice toggle 1
  bookkeeper report`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load configuration: %v\n", err)
			os.Exit(1)
		}

		logCfg := logger.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: cfg.Log.Output,
		}
		if debug {
			logCfg.Level = "debug"
		}

		l, cleanup, err := logger.New(logCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
			os.Exit(1)
		}
		log, closeLog = l, cleanup
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "sender profile preset (overrides BOOKKEEPER_PROFILE)")
	rootCmd.PersistentFlags().BoolVar(&noLogo, "no-logo", false, "render documents without the header logo")

	// Add subcommands
	rootCmd.AddCommand(customerCmd)
	rootCmd.AddCommand(invoiceCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(transactionCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(profileCmd)
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		log.Error(msg, zap.Error(err))
		closeLog()
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
