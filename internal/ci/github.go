package ci

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DetectCI returns true if running in GitHub Actions.
func DetectCI() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("GITHUB_ACTIONS")), "true")
}

// SetOutput sets a GitHub Actions output variable.
func SetOutput(name, value string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if path := strings.TrimSpace(os.Getenv("GITHUB_OUTPUT")); path != "" {
		_ = appendCommandFile(path, fmt.Sprintf("%s<<EOF\n%s\nEOF\n", name, value))
		return
	}
	fmt.Printf("::set-output name=%s::%s\n", name, escapeCommandValue(value))
}

// AddAnnotation adds a GitHub Actions annotation (error, warning, notice).
// The check command maps best-practice severities onto these levels for
// prompt files failing in CI.
func AddAnnotation(level, file string, message string) {
	lvl := strings.ToLower(strings.TrimSpace(level))
	switch lvl {
	case "error", "warning", "notice":
	default:
		lvl = "notice"
	}

	msg := escapeCommandValue(message)
	if file = strings.TrimSpace(file); file == "" {
		fmt.Printf("::%s::%s\n", lvl, msg)
		return
	}
	fmt.Printf("::%s file=%s::%s\n", lvl, file, msg)
}

// SetJobSummary writes markdown to the job summary.
func SetJobSummary(markdown string) error {
	path := strings.TrimSpace(os.Getenv("GITHUB_STEP_SUMMARY"))
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if !strings.HasSuffix(markdown, "\n") {
		markdown += "\n"
	}
	return appendCommandFile(path, markdown)
}

func appendCommandFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(content)
	return err
}

func escapeCommandValue(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}
