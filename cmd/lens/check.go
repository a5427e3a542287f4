package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/ci"
)

var errCheckFailed = errors.New("lens: check failed")

type checkOptions struct {
	category string
	model    string
	strict   bool
	ci       bool
}

type checkedFile struct {
	path       string
	violations []analyzer.Violation
}

func newCheckCmd(st *cliState) *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Gate prompt files on best-practice rules",
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadState(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, st, &opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.category, "category", "", "rule category to check")
	cmd.Flags().StringVar(&opts.model, "model", "", "target model id for tier-scoped rules")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "fail on WARNING as well as ERROR")
	cmd.Flags().BoolVar(&opts.ci, "ci", false, "force CI mode (annotations and job summary)")

	return cmd
}

func runCheck(cmd *cobra.Command, st *cliState, opts *checkOptions, paths []string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("check: missing config (internal error)")
	}
	if opts == nil {
		return fmt.Errorf("check: nil options")
	}

	a, err := app.Load(cmd.Context(), st.cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ciMode := opts.ci || ci.DetectCI()

	var checked []checkedFile
	failed := false
	for _, path := range paths {
		b, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("check: %w", err)
		}

		violations := a.Engine.Checker.Check(string(b), opts.category, opts.model)
		checked = append(checked, checkedFile{path: path, violations: violations})

		for _, v := range violations {
			if checkFails(v.Severity, opts.strict) {
				failed = true
			}
			if ciMode {
				ci.AddAnnotation(annotationLevel(v.Severity), path, v.Name+": "+v.Suggestion)
			}
		}
	}

	printCheckReport(cmd, checked)

	if ciMode {
		ci.SetOutput("check_failed", fmt.Sprintf("%v", failed))
		if err := ci.SetJobSummary(buildCheckMarkdown(checked)); err != nil {
			fmt.Fprintf(stderrWriter, "ci: write job summary: %v\n", err)
		}
	}

	if failed {
		return errCheckFailed
	}
	return nil
}

func checkFails(sev analyzer.Severity, strict bool) bool {
	if sev == analyzer.SeverityError {
		return true
	}
	return strict && sev == analyzer.SeverityWarning
}

func printCheckReport(cmd *cobra.Command, checked []checkedFile) {
	out := cmd.OutOrStdout()
	total := 0
	for _, f := range checked {
		if len(f.violations) == 0 {
			_, _ = fmt.Fprintf(out, "%s: %s\n", f.path, coloredStatus(true))
			continue
		}
		_, _ = fmt.Fprintf(out, "%s: %s\n", f.path, coloredStatus(false))
		for _, v := range f.violations {
			total++
			_, _ = fmt.Fprintf(out, "  [%s] %s: %s\n", v.Severity, v.Name, v.Suggestion)
		}
	}
	_, _ = fmt.Fprintf(out, "Checked %d file(s), %d violation(s)\n", len(checked), total)
}

func coloredStatus(passed bool) string {
	if passed {
		return colorGreen + "PASS" + colorReset
	}
	return colorRed + "FAIL" + colorReset
}

func buildCheckMarkdown(checked []checkedFile) string {
	var buf strings.Builder
	buf.WriteString("## Prompt Check Results\n\n")

	if len(checked) == 0 {
		buf.WriteString("_No files checked._\n")
		return buf.String()
	}

	buf.WriteString("| File | Violations | Worst |\n")
	buf.WriteString("| --- | ---: | --- |\n")
	for _, f := range checked {
		fmt.Fprintf(&buf, "| %s | %d | %s |\n",
			escapeMarkdownCell(f.path), len(f.violations), worstSeverity(f.violations))
	}
	return buf.String()
}

func worstSeverity(violations []analyzer.Violation) string {
	worst := ""
	for _, v := range violations {
		switch v.Severity {
		case analyzer.SeverityError:
			return string(analyzer.SeverityError)
		case analyzer.SeverityWarning:
			worst = string(analyzer.SeverityWarning)
		case analyzer.SeverityInfo:
			if worst == "" {
				worst = string(analyzer.SeverityInfo)
			}
		}
	}
	if worst == "" {
		return "-"
	}
	return worst
}

func escapeMarkdownCell(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	s = strings.ReplaceAll(s, "|", "\\|")
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	return s
}
