// Package config loads the TOML application config.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/SergeNasr/ai-threads/pkg/command"
)

const defaultWelcome = `Welcome to **AI Threads**!

I'm here to help you explore ideas through conversation:

- **Branch conversations**: use /branch to explore tangents without losing context
- **Slash commands**: type / for shortcuts like /summarize, /explain, and more
- **Parallel threads**: multiple conversations can stream in the background

Try asking me something, or use a slash command to get started!`

// Config is the full application configuration. Zero values are filled with
// defaults by Load.
type Config struct {
	Backend        string          `toml:"backend"`
	Model          string          `toml:"model"`
	PollIntervalMS int             `toml:"poll_interval_ms"`
	TokenDelayMS   int             `toml:"token_delay_ms"`
	Welcome        string          `toml:"welcome"`
	Commands       []CommandConfig `toml:"commands"`
}

// CommandConfig declares one slash command in the config file.
type CommandConfig struct {
	Trigger        string        `toml:"trigger"`
	Description    string        `toml:"description"`
	PromptTemplate string        `toml:"prompt_template"`
	Parameters     []ParamConfig `toml:"parameters"`
}

type ParamConfig struct {
	Name        string `toml:"name"`
	Required    bool   `toml:"required"`
	Description string `toml:"description"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Backend:        "fixture",
		Model:          "gpt-4o",
		PollIntervalMS: 250,
		TokenDelayMS:   40,
		Welcome:        defaultWelcome,
	}
}

// Load reads the TOML file at path and overlays it on the defaults. A
// missing file yields the defaults; a malformed file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var loaded Config
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}

	if loaded.Backend != "" {
		cfg.Backend = loaded.Backend
	}
	if loaded.Model != "" {
		cfg.Model = loaded.Model
	}
	if loaded.PollIntervalMS > 0 {
		cfg.PollIntervalMS = loaded.PollIntervalMS
	}
	if loaded.TokenDelayMS > 0 {
		cfg.TokenDelayMS = loaded.TokenDelayMS
	}
	if loaded.Welcome != "" {
		cfg.Welcome = loaded.Welcome
	}
	cfg.Commands = loaded.Commands
	return cfg, nil
}

// SlashCommands converts the configured command set, falling back to the
// built-in defaults when the config declares none.
func (c Config) SlashCommands() []command.SlashCommand {
	if len(c.Commands) == 0 {
		return command.Defaults()
	}
	out := make([]command.SlashCommand, 0, len(c.Commands))
	for _, cc := range c.Commands {
		cmd := command.SlashCommand{
			ID:             "cmd-" + cc.Trigger,
			Trigger:        cc.Trigger,
			Description:    cc.Description,
			PromptTemplate: cc.PromptTemplate,
		}
		for _, p := range cc.Parameters {
			cmd.Parameters = append(cmd.Parameters, command.Param{
				Name:        p.Name,
				Required:    p.Required,
				Description: p.Description,
			})
		}
		out = append(out, cmd)
	}
	return out
}

// PollInterval returns the tick interval for the UI refresh loop.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// TokenDelay returns the fixture source's per-token pacing delay.
func (c Config) TokenDelay() time.Duration {
	return time.Duration(c.TokenDelayMS) * time.Millisecond
}
