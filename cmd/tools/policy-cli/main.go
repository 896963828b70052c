// cmd/tools/policy-cli/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"insurance-workers/internal/catalog"
)

var catalogPath string

var rootCmd = &cobra.Command{
	Use:   "policy-cli",
	Short: "Try the recommendation filter and comparison table against a policy catalog",
	Long: `policy-cli runs the same recommendation and comparison logic as the workers,
without Zeebe. It reads the built-in seed catalog unless --catalog points at a
YAML file in the same format.

Examples:
  policy-cli recommend --category Family --budget "₹20,000"
  policy-cli recommend --age 26-35 --gender Female
  policy-cli compare "Optima Secure" "Care Supreme" "Maternity Plus"
  policy-cli features`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "YAML catalog file (default: built-in seed catalog)")
	rootCmd.AddCommand(recommendCmd(), compareCmd(), featuresCmd())
}

func loadCatalog() (*catalog.SeedRepository, error) {
	if catalogPath != "" {
		return catalog.LoadSeedFile(catalogPath)
	}
	return catalog.NewSeedRepository()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
