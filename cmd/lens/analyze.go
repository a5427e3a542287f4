package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
	"github.com/stellarlinkco/prompt-lens/internal/metrics"
)

type analyzeOptions struct {
	prompt   string
	file     string
	category string
	model    string
	task     string
	context  []string
	output   string
	judge    bool
}

func newAnalyzeCmd(st *cliState) *cobra.Command {
	var opts analyzeOptions

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a prompt for quality, context fit, and best practices",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, st, &opts)
		},
	}

	cmd.Flags().StringVar(&opts.prompt, "prompt", "", "prompt text to analyze")
	cmd.Flags().StringVar(&opts.file, "file", "", "read prompt from file (use - for stdin)")
	cmd.Flags().StringVar(&opts.category, "category", "", "pattern category to match against")
	cmd.Flags().StringVar(&opts.model, "model", "", "target model id")
	cmd.Flags().StringVar(&opts.task, "task", "", "task description for alignment scoring")
	cmd.Flags().StringArrayVar(&opts.context, "context", nil, "context entry as key=value (repeatable)")
	cmd.Flags().StringVar(&opts.output, "output", "", "output format: table|json|github")
	cmd.Flags().BoolVar(&opts.judge, "judge", false, "use the configured LLM to grade complexity and readability")

	return cmd
}

func runAnalyze(cmd *cobra.Command, st *cliState, opts *analyzeOptions) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("analyze: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("analyze: nil options")
	}

	output, err := resolveOutputFormat(opts.output)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	promptText, err := resolvePromptText(cmd, opts.prompt, opts.file)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	ctxValues, err := parseContextEntries(opts.context)
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	a, err := app.Load(cmd.Context(), st.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var provider llm.Provider
	if opts.judge {
		provider, err = llm.DefaultProviderFromConfig(st.cfg)
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}
	mc := &metrics.Client{Provider: provider, Tiers: st.cfg.Tiers()}

	result := a.Engine.Analyze(&analysis.Request{
		Prompt:          promptText,
		Category:        opts.category,
		TaskDescription: opts.task,
		ModelID:         opts.model,
		Context:         ctxValues,
		Metrics:         mc.Estimate(cmd.Context(), promptText, opts.model),
	})

	_, _ = fmt.Fprint(cmd.OutOrStdout(), FormatAnalysisResult(result, output))
	return nil
}

func resolvePromptText(cmd *cobra.Command, promptFlag, fileFlag string) (string, error) {
	promptFlag = strings.TrimSpace(promptFlag)
	fileFlag = strings.TrimSpace(fileFlag)

	switch {
	case promptFlag != "" && fileFlag != "":
		return "", fmt.Errorf("--prompt and --file are mutually exclusive")
	case promptFlag != "":
		return promptFlag, nil
	case fileFlag == "":
		return "", fmt.Errorf("specify either --prompt <text> or --file <path>")
	case fileFlag == "-":
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	default:
		b, err := os.ReadFile(fileFlag)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

func parseContextEntries(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		key, value, ok := strings.Cut(e, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --context %q (expected key=value)", e)
		}
		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}
