package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopfront/shopfront/internal/config"
)

var (
	resetIncludeImages bool
	resetForce         bool
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset Shopfront to a clean state",
	Long: `Reset Shopfront by removing the persisted client state.

By default, only the state file (and its backup) is removed. This clears
the saved cart and any stored login credential. The next start boots
anonymous with an empty cart.

Optional flags:
  --include-images  Also remove locally uploaded product images
  --force           Skip confirmation prompt

Examples:
  # Reset state only (interactive confirmation)
  shopfront reset

  # Reset everything without prompting
  shopfront reset --include-images --force`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetIncludeImages, "include-images", false, "Also remove uploaded product images")
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Skip confirmation prompt")
	rootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigRaw()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	statePath := cfg.State.Path
	if stateFilePath != "" {
		statePath = stateFilePath
	}

	type target struct {
		path string
		desc string
	}
	targets := []target{
		{statePath, "client state"},
		{statePath + ".bak", "state backup"},
	}
	if resetIncludeImages && cfg.Uploads.Dir != "" {
		targets = append(targets, target{cfg.Uploads.Dir, "uploaded images"})
	}

	var existing []target
	for _, t := range targets {
		if _, err := os.Stat(t.path); err == nil {
			existing = append(existing, t)
		}
	}

	if len(existing) == 0 {
		fmt.Fprintln(os.Stderr, "Nothing to reset — no state files found.")
		return nil
	}

	fmt.Fprintln(os.Stderr, "The following will be removed:")
	for _, t := range existing {
		fmt.Fprintf(os.Stderr, "  - %s (%s)\n", t.path, t.desc)
	}

	if !resetForce {
		fmt.Fprint(os.Stderr, "\nProceed? [y/N] ")
		var answer string
		fmt.Scanln(&answer) //nolint:errcheck // interactive prompt, error irrelevant
		if answer != "y" && answer != "Y" {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return nil
		}
	}

	var failures int
	for _, t := range existing {
		if err := os.RemoveAll(t.path); err != nil {
			fmt.Fprintf(os.Stderr, "  ERROR removing %s: %v\n", t.path, err)
			failures++
		} else {
			fmt.Fprintf(os.Stderr, "  Removed %s\n", t.path)
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d file(s) could not be removed", failures)
	}

	fmt.Fprintln(os.Stderr, "\nReset complete. Shopfront will start fresh on next launch.")
	return nil
}
