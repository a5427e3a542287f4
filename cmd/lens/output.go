package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/stellarlinkco/prompt-lens/internal/analysis"
	"github.com/stellarlinkco/prompt-lens/internal/analyzer"
)

type OutputFormat string

const (
	FormatTable  OutputFormat = "table"
	FormatJSON   OutputFormat = "json"
	FormatGitHub OutputFormat = "github"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

func parseOutputFormat(s string) OutputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table":
		return FormatTable
	case "json", "jsonl":
		return FormatJSON
	case "github", "gh":
		return FormatGitHub
	default:
		return ""
	}
}

func resolveOutputFormat(flagValue string) (OutputFormat, error) {
	if strings.TrimSpace(flagValue) == "" {
		return FormatTable, nil
	}
	out := parseOutputFormat(flagValue)
	if out == "" {
		return "", fmt.Errorf("invalid --output %q (expected table|json|github)", flagValue)
	}
	return out, nil
}

func FormatAnalysisResult(result *analysis.Result, format OutputFormat) string {
	switch format {
	case FormatTable:
		return formatResultTable(result)
	case FormatJSON:
		return formatResultJSON(result)
	case FormatGitHub:
		return formatResultGitHub(result)
	default:
		return fmt.Sprintf("error: unknown output format %q\n", format)
	}
}

func formatResultTable(result *analysis.Result) string {
	if result == nil {
		return "Analysis: <nil>\n"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Tokens: %d  EstimatedCost: $%.4f", result.Metrics.TokenCount, result.Metrics.EstimatedCost)
	if result.Metrics.Complexity != "" {
		fmt.Fprintf(&buf, "  Complexity: %s", result.Metrics.Complexity)
	}
	if result.Metrics.Readability != "" {
		fmt.Fprintf(&buf, "  Readability: %s", result.Metrics.Readability)
	}
	buf.WriteString("\n\n")

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DIMENSION\tSCORE")
	fmt.Fprintf(tw, "clarity\t%.2f\n", result.Quality.Clarity)
	fmt.Fprintf(tw, "specificity\t%.2f\n", result.Quality.Specificity)
	fmt.Fprintf(tw, "consistency\t%.2f\n", result.Quality.Consistency)
	fmt.Fprintf(tw, "completeness\t%.2f\n", result.Quality.Completeness)
	fmt.Fprintf(tw, "domain_relevance\t%.2f\n", result.Context.DomainRelevance)
	fmt.Fprintf(tw, "task_alignment\t%.2f\n", result.Context.TaskAlignment)
	fmt.Fprintf(tw, "model_compatibility\t%.2f\n", result.Context.ModelCompatibility)
	fmt.Fprintf(tw, "context_awareness\t%.2f\n", result.Context.ContextAwareness)
	_ = tw.Flush()

	if len(result.Quality.Suggestions) > 0 {
		buf.WriteString("\nSuggestions:\n")
		for _, s := range result.Quality.Suggestions {
			fmt.Fprintf(&buf, "  - %s\n", s)
		}
	}

	if len(result.Violations) > 0 {
		buf.WriteString("\nViolations:\n")
		vt := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(vt, "SEVERITY\tRULE\tSUGGESTION")
		for _, v := range result.Violations {
			fmt.Fprintf(vt, "%s\t%s\t%s\n", coloredSeverity(v.Severity), v.Name, v.Suggestion)
		}
		_ = vt.Flush()
	}

	if len(result.Matches) > 0 {
		buf.WriteString("\nMatching patterns:\n")
		mt := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(mt, "PATTERN\tCONFIDENCE\tNOTE")
		for _, m := range result.Matches {
			name := ""
			if m.Pattern != nil {
				name = m.Pattern.Name
			}
			fmt.Fprintf(mt, "%s\t%.2f\t%s\n", name, m.Confidence, m.Note)
		}
		_ = mt.Flush()
	}

	if len(result.Suggestions) > 0 {
		buf.WriteString("\nSuggested patterns:\n")
		st := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintln(st, "PATTERN\tCONFIDENCE\tSUCCESS RATE")
		for _, s := range result.Suggestions {
			name := ""
			rate := 0.0
			if s.Pattern != nil {
				name = s.Pattern.Name
				rate = s.Pattern.SuccessRate
			}
			fmt.Fprintf(st, "%s\t%.2f\t%.2f\n", name, s.Confidence, rate)
		}
		_ = st.Flush()
	}

	return buf.String()
}

func formatResultJSON(result *analysis.Result) string {
	if result == nil {
		return "{\"error\":\"nil analysis result\"}\n"
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf("{\"error\":%q}\n", err.Error())
	}
	return string(b) + "\n"
}

func formatResultGitHub(result *analysis.Result) string {
	if result == nil {
		return "::error::nil analysis result\n"
	}

	var buf strings.Builder
	for _, v := range result.Violations {
		level := annotationLevel(v.Severity)
		msg := fmt.Sprintf("%s: %s (%s)", v.Name, v.Description, v.Suggestion)
		buf.WriteString("::" + level + "::")
		buf.WriteString(sanitizeGitHubAnnotation(msg))
		buf.WriteByte('\n')
	}

	buf.WriteString(fmt.Sprintf("Summary: clarity=%.2f specificity=%.2f consistency=%.2f completeness=%.2f violations=%d\n",
		result.Quality.Clarity, result.Quality.Specificity, result.Quality.Consistency, result.Quality.Completeness, len(result.Violations)))
	return buf.String()
}

func annotationLevel(sev analyzer.Severity) string {
	switch sev {
	case analyzer.SeverityError:
		return "error"
	case analyzer.SeverityWarning:
		return "warning"
	default:
		return "notice"
	}
}

func coloredSeverity(sev analyzer.Severity) string {
	switch sev {
	case analyzer.SeverityError:
		return colorRed + string(sev) + colorReset
	case analyzer.SeverityWarning:
		return colorYellow + string(sev) + colorReset
	default:
		return string(sev)
	}
}

func sanitizeGitHubAnnotation(s string) string {
	// GitHub Actions commands treat CR/LF and percent-encoding specially.
	// Keep it simple: flatten newlines and carriage returns.
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.TrimSpace(s)
}
