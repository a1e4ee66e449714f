package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SergeNasr/ai-threads/pkg/config"
	"github.com/SergeNasr/ai-threads/pkg/engine"
	"github.com/SergeNasr/ai-threads/pkg/generation"
	"github.com/SergeNasr/ai-threads/pkg/thread"
)

type appFlags struct {
	configPath string
	backend    string
	model      string
	altScreen  bool
}

func parseFlags() appFlags {
	var flags appFlags
	flag.StringVar(&flags.configPath, "config", "threads.toml", "path to the TOML config file")
	flag.StringVar(&flags.backend, "backend", "", "generation backend override: fixture|openai")
	flag.StringVar(&flags.model, "model", "", "model name override for the openai backend")
	flag.BoolVar(&flags.altScreen, "alt-screen", true, "run in the terminal alternate screen")
	flag.Parse()
	return flags
}

func buildSource(cfg config.Config) (generation.Source, error) {
	switch cfg.Backend {
	case "", "fixture":
		return generation.NewFixtureSource(cfg.TokenDelay(), time.Now().UnixNano()), nil
	case "openai":
		return generation.NewOpenAISource(cfg.Model)
	default:
		return nil, fmt.Errorf("unknown backend %q (want fixture or openai)", cfg.Backend)
	}
}

func main() {
	flags := parseFlags()

	cfg, err := config.Load(flags.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "threads-tui: %v\n", err)
		os.Exit(1)
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if flags.model != "" {
		cfg.Model = flags.model
	}

	source, err := buildSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "threads-tui: %v\n", err)
		os.Exit(1)
	}

	store := thread.NewStore()
	rootID := store.SeedRoot(cfg.Welcome)
	eng := engine.New(store, source)

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if flags.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	p := tea.NewProgram(newModel(cfg, flags.configPath, store, eng, rootID), opts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "threads-tui fatal error: %v\n", err)
		os.Exit(1)
	}
}
