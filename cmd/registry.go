package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/shelfscout/appraise-cli/internal/registry"
)

var registryCmd = &cobra.Command{
	Use:   "registry",
	Short: "Inspect the famous-creator registry",
}

var registryLookupCmd = &cobra.Command{
	Use:   "lookup <name>",
	Short: "Resolve a creator name against the registry",
	Long:  "Normalizes the name the same way the appraisal pipeline does, then resolves it with exact, case-insensitive, and last-name fallbacks.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return err
		}

		normalized := registry.NormalizeName(args[0])
		entry, ok := reg.Lookup(normalized)
		if !ok {
			fmt.Fprintf(os.Stderr, "no registry entry for %q (normalized %q)\n", args[0], normalized)
			return nil
		}

		out := struct {
			Query                  string  `json:"query"`
			Normalized             string  `json:"normalized"`
			Name                   string  `json:"name"`
			Tier                   string  `json:"tier"`
			SignedMultiplier       float64 `json:"signed_multiplier"`
			FirstEditionMultiplier float64 `json:"first_edition_multiplier"`
		}{
			Query:                  args[0],
			Normalized:             normalized,
			Name:                   entry.Name,
			Tier:                   entry.Tier,
			SignedMultiplier:       entry.SignedMultiplier,
			FirstEditionMultiplier: entry.FirstEditionMultiplier(),
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var registryStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the registry by fame tier",
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := registry.Load(cfg.Registry.Path)
		if err != nil {
			return err
		}

		byTier := map[string]int{}
		var maxEntry registry.Entry
		for _, e := range reg.Entries() {
			byTier[e.Tier]++
			if e.SignedMultiplier > maxEntry.SignedMultiplier {
				maxEntry = e
			}
		}

		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"TIER", "ENTRIES"})
		for tier, n := range byTier {
			t.AppendRow(table.Row{tier, n})
		}
		t.AppendFooter(table.Row{"total", reg.Len()})
		t.Render()

		fmt.Printf("Highest signed multiplier: %s (%.0fx)\n", maxEntry.Name, maxEntry.SignedMultiplier)
		return nil
	},
}

func init() {
	registryCmd.AddCommand(registryLookupCmd)
	registryCmd.AddCommand(registryStatsCmd)
	rootCmd.AddCommand(registryCmd)
}
