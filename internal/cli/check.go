package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/ailint/internal/cache"
	"github.com/dshills/ailint/internal/config"
	"github.com/dshills/ailint/internal/discover"
	"github.com/dshills/ailint/internal/lint"
	"github.com/dshills/ailint/internal/output"
	"github.com/dshills/ailint/internal/providers"
	"github.com/dshills/ailint/internal/rules"
)

var (
	flagConfig      string
	flagProvider    string
	flagModel       string
	flagConcurrency int
	flagFormat      string
	flagOut         string
	flagCacheDir    string
	flagNoCache     bool
	flagChanged     bool
	flagNoColor     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "Lint files against the configured rules",
	Long:  "Check files against every matching rule from .ailint.yml. With no paths, the current directory is walked. Results are cached by content hash, so unchanged (file, rule) pairs skip the provider entirely.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagNoColor {
			color.NoColor = true
		}

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}

		files, err := resolveFiles(args)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		reporter, out, err := buildReporter()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = ExitUsageError
			return nil
		}
		if out != nil {
			defer out.Close()
		}

		engine := &lint.Engine{
			Matcher: rules.NewMatcher(cfg.Rules),
			Cache:   cache.New(!flagNoCache, cfg.CacheDir),
			Judge: lint.NewClient(lint.ClientOptions{
				Provider:      cfg.Provider,
				ProviderURL:   cfg.ProviderURL,
				DefaultModel:  cfg.Model,
				Catalog:       providers.DefaultCatalog(),
				RedactSecrets: cfg.RedactSecrets,
			}),
			Reporter:    reporter,
			Concurrency: cfg.Concurrency,
		}

		res, err := engine.Run(context.Background(), files)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			if providers.IsAuthError(err) {
				exitCode = ExitAuthError
			} else {
				exitCode = ExitRuntimeError
			}
			return nil
		}

		exitCode = res.ExitCode
		return nil
	},
}

// loadConfig loads the config file and applies CLI flag overrides on top.
func loadConfig() (config.Config, error) {
	loader := config.NewLoader()
	cfg, err := loader.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}
	if flagProvider != "" {
		cfg.Provider = flagProvider
	}
	if flagModel != "" {
		cfg.Model = flagModel
	}
	if flagConcurrency > 0 {
		cfg.Concurrency = flagConcurrency
	}
	if flagCacheDir != "" {
		cfg.CacheDir = flagCacheDir
	}
	if err := loader.Validate(&cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func resolveFiles(args []string) ([]string, error) {
	if flagChanged {
		return discover.Changed(".")
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	return discover.Files(args)
}

// buildReporter returns the reporter and, when --out is set, the file to
// close after the run.
func buildReporter() (lint.Reporter, *os.File, error) {
	w := os.Stdout
	var f *os.File
	if flagOut != "" {
		var err error
		f, err = os.Create(flagOut)
		if err != nil {
			return nil, nil, fmt.Errorf("creating output file: %w", err)
		}
		w = f
	}
	reporter, err := output.New(flagFormat, w)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, nil, err
	}
	return reporter, f, nil
}

func init() {
	checkCmd.Flags().StringVar(&flagConfig, "config", "", "Config file path (default: .ailint.yml)")
	checkCmd.Flags().StringVar(&flagProvider, "provider", "", "LLM provider (anthropic, openai, ollama, lmstudio)")
	checkCmd.Flags().StringVar(&flagModel, "model", "", "Default model name")
	checkCmd.Flags().IntVar(&flagConcurrency, "concurrency", 0, "Maximum in-flight provider calls (1-20)")
	checkCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format (text, json)")
	checkCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	checkCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "Cache directory (default: .ai-lint)")
	checkCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Bypass the result cache for this run")
	checkCmd.Flags().BoolVar(&flagChanged, "changed", false, "Lint only files changed relative to HEAD")
	checkCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}
