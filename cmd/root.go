package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "loan-engine",
	Short: "Loan amortization equation engine",
	Long: `loan-engine solves the time-value-of-money equation for a loan:
number of periods, nominal rate, present value, periodic payment or
future value, under discrete or continuous compounding.

Endpoints:
  POST /loan/calculate       - monthly payment for amount, rate and term
  POST /loan/solve           - solve for any one of n, i, PV, PMT, FV
  POST /loan/schedule        - amortization table
  POST /loan/recommend-term  - score candidate terms
  GET  /healthz              - liveness`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file, .toml or .yaml (default: built-in defaults)")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
