package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/advisor"
	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
	"github.com/stellarlinkco/prompt-lens/internal/metrics"
)

type improveOptions struct {
	prompt   string
	file     string
	category string
	model    string
	task     string
	max      int
	output   string
}

func newImproveCmd(st *cliState) *cobra.Command {
	var opts improveOptions

	cmd := &cobra.Command{
		Use:   "improve",
		Short: "Ask the configured LLM for concrete prompt fixes",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImprove(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "prompt text to improve")
	cmd.Flags().StringVar(&opts.file, "file", "", "read prompt from file (use - for stdin)")
	cmd.Flags().StringVar(&opts.category, "category", "", "pattern category to match against")
	cmd.Flags().StringVar(&opts.model, "model", "", "target model id")
	cmd.Flags().StringVar(&opts.task, "task", "", "task description for alignment scoring")
	cmd.Flags().IntVar(&opts.max, "max", 0, "maximum number of suggestions (default 5)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output format: table|json")

	return cmd
}

func runImprove(cmd *cobra.Command, st *cliState, opts *improveOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("improve: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("improve: nil options")
	}

	output, err := resolveOutputFormat(opts.output)
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	promptText, err := resolvePromptText(cmd, opts.prompt, opts.file)
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	provider, err := llm.DefaultProviderFromConfig(st.cfg)
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	a, err := app.Load(cmd.Context(), st.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	mc := &metrics.Client{Provider: provider, Tiers: st.cfg.Tiers()}
	result := a.Engine.Analyze(&analysis.Request{
		Prompt:          promptText,
		Category:        opts.category,
		TaskDescription: opts.task,
		ModelID:         opts.model,
		Metrics:         mc.Estimate(cmd.Context(), promptText, opts.model),
	})

	adv := &advisor.Advisor{Provider: provider}
	improved, err := adv.Improve(cmd.Context(), &advisor.ImproveRequest{
		Prompt:         promptText,
		Analysis:       result,
		MaxSuggestions: opts.max,
	})
	if err != nil {
		return fmt.Errorf("improve: %w", err)
	}

	switch output {
	case FormatJSON:
		b, err := json.Marshal(improved)
		if err != nil {
			return fmt.Errorf("improve: marshal json: %w", err)
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	default:
		printImproveTable(cmd, improved)
	}
	return nil
}

func printImproveTable(cmd *cobra.Command, improved *advisor.ImproveResult) {
	out := cmd.OutOrStdout()
	if improved == nil {
		_, _ = fmt.Fprintln(out, "No suggestions.")
		return
	}

	if improved.Summary != "" {
		_, _ = fmt.Fprintf(out, "%s\n\n", improved.Summary)
	}
	if len(improved.Suggestions) == 0 {
		_, _ = fmt.Fprintln(out, "No suggestions.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "PRIORITY\tTYPE\tDESCRIPTION\tIMPACT")
	for _, s := range improved.Suggestions {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.Priority, s.Type, s.Description, s.Impact)
	}
	_ = tw.Flush()

	for _, s := range improved.Suggestions {
		if s.Before == "" && s.After == "" {
			continue
		}
		_, _ = fmt.Fprintf(out, "\n[%s]\n", s.ID)
		if s.Before != "" {
			_, _ = fmt.Fprintf(out, "  before: %s\n", s.Before)
		}
		if s.After != "" {
			_, _ = fmt.Fprintf(out, "  after:  %s\n", s.After)
		}
	}
}
