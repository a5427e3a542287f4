package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/stellarlinkco/prompt-lens/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, errCheckFailed) {
			osExit(1)
			return
		}
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "lens",
		Short:         "Analyze prompts for quality, pattern matches, and best practices",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newAnalyzeCmd(st))
	root.AddCommand(newImproveCmd(st))
	root.AddCommand(newPatternsCmd(st))
	root.AddCommand(newSuggestCmd(st))
	root.AddCommand(newMatchCmd(st))
	root.AddCommand(newOutcomeCmd(st))
	root.AddCommand(newCheckCmd(st))
	return root
}

func loadState(st *cliState) error {
	if st == nil {
		return fmt.Errorf("lens: nil state")
	}
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}
