package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/pattern"
)

func newPatternsCmd(st *cliState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Manage the pattern library",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
	}

	cmd.AddCommand(newPatternsListCmd(st))
	cmd.AddCommand(newPatternsShowCmd(st))
	cmd.AddCommand(newPatternsAddCmd(st))
	cmd.AddCommand(newPatternsDeleteCmd(st))
	cmd.AddCommand(newPatternsExportCmd(st))
	return cmd
}

func newPatternsListCmd(st *cliState) *cobra.Command {
	var category, model, tags string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List patterns",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var patterns []*pattern.PromptPattern
			switch {
			case strings.TrimSpace(category) != "":
				patterns = a.Patterns.ByCategory(strings.TrimSpace(category))
			case strings.TrimSpace(model) != "":
				patterns = a.Patterns.ByModel(strings.TrimSpace(model))
			case strings.TrimSpace(tags) != "":
				patterns = a.Patterns.ByTags(strings.Split(tags, ","))
			default:
				patterns = a.Patterns.All()
			}
			sort.Slice(patterns, func(i, j int) bool {
				return strings.ToLower(patterns[i].Name) < strings.ToLower(patterns[j].Name)
			})

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMODEL\tUSES\tSUCCESS")
			for _, p := range patterns {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.2f\n",
					p.ID, p.Name, p.Category, p.Model, p.UsageCount, p.SuccessRate)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&model, "model", "", "filter by model (includes general patterns)")
	cmd.Flags().StringVar(&tags, "tags", "", "filter by comma-separated tags")
	return cmd
}

func newPatternsShowCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one pattern as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			p, ok := a.Patterns.Get(args[0])
			if !ok {
				return fmt.Errorf("patterns: unknown pattern %q", args[0])
			}
			b, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return fmt.Errorf("patterns: marshal json: %w", err)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newPatternsAddCmd(st *cliState) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update patterns from a YAML library file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(file) == "" {
				return fmt.Errorf("patterns: specify --file <library.yaml>")
			}

			lib, err := pattern.LoadFromFile(file)
			if err != nil {
				return err
			}
			if len(lib.Patterns) == 0 {
				return fmt.Errorf("patterns: %q contains no patterns", file)
			}

			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, p := range lib.Patterns {
				if err := a.SavePattern(cmd.Context(), p); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %d pattern(s) from %s\n", len(lib.Patterns), file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "pattern library YAML file")
	return cmd
}

func newPatternsDeleteCmd(st *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a pattern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			found, err := a.DeletePattern(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !found {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pattern %q not found (nothing deleted)\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newPatternsExportCmd(st *cliState) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every stored pattern to a YAML library file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(out) == "" {
				return fmt.Errorf("patterns: specify --out <library.yaml>")
			}

			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := pattern.SaveToFile(a.Patterns, out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d pattern(s) to %s\n", a.Patterns.Len(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "destination YAML file")
	return cmd
}
