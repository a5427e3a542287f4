package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/stellarlinkco/prompt-lens/api"
	"github.com/stellarlinkco/prompt-lens/internal/app"
	"github.com/stellarlinkco/prompt-lens/internal/config"
	"github.com/stellarlinkco/prompt-lens/internal/llm"
)

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr

	loadConfig                = config.Load
	loadApp                   = app.Load
	defaultProviderFromConfig = llm.DefaultProviderFromConfig
	newServer                 = api.NewServer
	runServer                 = (*api.Server).Run
)

func main() {
	osExit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(stderrWriter)

	var addr string
	var configPath string
	fs.StringVar(&addr, "addr", ":8080", "listen address")
	fs.StringVar(&configPath, "config", config.DefaultPath, "path to config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	a, err := loadApp(context.Background(), cfg)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	defer a.Close()

	// The server degrades gracefully without an LLM provider: analysis and
	// pattern endpoints stay up, improve returns 503.
	provider, err := defaultProviderFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(stderrWriter, "warning: no llm provider: %v\n", err)
		provider = nil
	}

	srv, err := newServer(a, provider)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	if err := runServer(srv, addr); err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	return 0
}
