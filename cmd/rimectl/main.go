package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/amylase/rime-judge/internal/cli/config"
	httpclient "github.com/amylase/rime-judge/internal/cli/http"
	"github.com/amylase/rime-judge/internal/cli/repl"
)

const defaultConfigPath = "configs/rimectl.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	baseURL := flag.String("base", "", "Override base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	pretty := flag.Bool("pretty", false, "Pretty print JSON response")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *pretty {
		trueValue := true
		cfg.PrettyJSON = &trueValue
	}

	client := httpclient.New(cfg.BaseURL, cfg.Timeout)
	session := repl.New(client, cfg.PrettyJSON != nil && *cfg.PrettyJSON)
	session.Run(context.Background())
}
