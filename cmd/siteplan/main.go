package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "siteplan",
		Short: "Constraint-driven site planning: massing, compliance and cost",
	}

	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(estimateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generateCmd() *cobra.Command {
	var count int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "generate [project-path]",
		Short: "Generate massing scenario variants for a plot",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runGenerate(args[0], count, asJSON)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of variants to generate")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a text report")
	return cmd
}

func scoreCmd() *cobra.Command {
	var count int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score [project-path]",
		Short: "Generate variants and score each against bylaws, green and vastu rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runScore(args[0], count, asJSON)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 3, "number of variants to compare")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a text report")
	return cmd
}

func estimateCmd() *cobra.Command {
	var potential bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "estimate [project-path]",
		Short: "Estimate construction cost, revenue and timeline",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runEstimate(args[0], potential, asJSON)
		},
	}
	cmd.Flags().BoolVar(&potential, "potential", false, "estimate the plot's potential without generating a scenario")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON instead of a text report")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate project inputs without generating scenarios",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int
	var dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API backed by a local scenario store",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe(dbPath, port)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP server port")
	cmd.Flags().StringVar(&dbPath, "db", "siteplan.db", "path to the scenario database")
	return cmd
}
