package main

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/app"
)

func newSuggestCmd(st *cliState) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest library patterns similar to a prompt",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			promptText, err := resolvePromptText(cmd, opts.prompt, opts.file)
			if err != nil {
				return fmt.Errorf("suggest: %w", err)
			}

			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			suggestions := a.Patterns.Suggest(promptText, opts.model)
			if len(suggestions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No similar patterns found.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "PATTERN\tCONFIDENCE\tSUCCESS\tVARIABLES")
			for _, s := range suggestions {
				name := ""
				rate := 0.0
				if s.Pattern != nil {
					name = s.Pattern.Name
					rate = s.Pattern.SuccessRate
				}
				fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t%s\n", name, s.Confidence, rate, formatVariables(s.Variables))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "prompt text")
	cmd.Flags().StringVar(&opts.file, "file", "", "read prompt from file (use - for stdin)")
	cmd.Flags().StringVar(&opts.model, "model", "", "target model id")
	return cmd
}

func newMatchCmd(st *cliState) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Find patterns whose template matches a prompt exactly",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			promptText, err := resolvePromptText(cmd, opts.prompt, opts.file)
			if err != nil {
				return fmt.Errorf("match: %w", err)
			}

			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			matches := a.Patterns.FindMatching(promptText, opts.category, opts.model)
			if len(matches) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No matching patterns.")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tSUCCESS\tUSES")
			for _, p := range matches {
				fmt.Fprintf(tw, "%s\t%s\t%.2f\t%d\n", p.ID, p.Name, p.SuccessRate, p.UsageCount)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "prompt text")
	cmd.Flags().StringVar(&opts.file, "file", "", "read prompt from file (use - for stdin)")
	cmd.Flags().StringVar(&opts.category, "category", "", "pattern category")
	cmd.Flags().StringVar(&opts.model, "model", "", "target model id")
	return cmd
}

func newOutcomeCmd(st *cliState) *cobra.Command {
	var success, failure bool

	cmd := &cobra.Command{
		Use:   "outcome <pattern-id>",
		Short: "Record whether a pattern-built prompt succeeded",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if success == failure {
				return fmt.Errorf("outcome: specify exactly one of --success or --failure")
			}

			a, err := app.Load(cmd.Context(), st.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.RecordOutcome(cmd.Context(), args[0], success); err != nil {
				return err
			}

			p, ok := a.Patterns.Get(args[0])
			if !ok {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Pattern %q not found (nothing recorded)\n", args[0])
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: uses=%d success_rate=%.2f\n", p.ID, p.UsageCount, p.SuccessRate)
			return nil
		},
	}

	cmd.Flags().BoolVar(&success, "success", false, "record a success")
	cmd.Flags().BoolVar(&failure, "failure", false, "record a failure")
	return cmd
}

func formatVariables(vars map[string]string) string {
	if len(vars) == 0 {
		return "-"
	}
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vars[k])
	}
	return strings.Join(parts, " ")
}
