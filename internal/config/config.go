package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	envConfig         = "DGB_CONFIG"
	envToken          = "DGB_TOKEN"
	envDBPath         = "DGB_DB_PATH"
	envTranscriptRoot = "DGB_TRANSCRIPT_ROOT"
)

type Config struct {
	TranscriptRoot string    `toml:"transcript_root,omitempty"`
	DBPath         string    `toml:"db_path,omitempty"`
	Bot            BotConfig `toml:"bot"`

	path string
	// raw holds what the file itself said (empty when unset), loaded the
	// effective values Load produced; Save writes raw back for any field
	// still at its loaded value.
	raw, loaded stored
}

// stored are the fields that env vars, defaults or ~ expansion can change
// between the file and memory.
type stored struct {
	transcriptRoot, dbPath, token string
}

func (c *Config) current() stored {
	return stored{transcriptRoot: c.TranscriptRoot, dbPath: c.DBPath, token: c.Bot.Token}
}

// BotConfig drives the daily thread poster.
type BotConfig struct {
	Token             string `toml:"token,omitempty"`
	GuildID           int64  `toml:"guild_id"`
	ForumChannelID    int64  `toml:"forum_channel_id"`
	CurrentPostNumber int    `toml:"current_post_number"`
	Timezone          string `toml:"timezone"`
	PostCron          string `toml:"post_cron"`
}

// Load reads .env from the working directory, then the config file
// ($DGB_CONFIG or ~/.config/dgb/config.toml), then env overrides.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	cfgPath := os.Getenv(envConfig)
	if cfgPath == "" {
		cfgPath = filepath.Join(home, ".config", "dgb", "config.toml")
	}
	return LoadFile(expandHome(cfgPath, home), home)
}

// LoadFile reads cfgPath (a missing file yields defaults) and applies env
// overrides. home is used for defaults and ~ expansion.
func LoadFile(cfgPath, home string) (*Config, error) {
	cfg := &Config{
		TranscriptRoot: filepath.Join(home, ".config", "dgb", "transcripts"),
		DBPath:         filepath.Join(home, ".config", "dgb", "dgb.db"),
		Bot: BotConfig{
			Timezone: "UTC",
			PostCron: "0 12 * * *",
		},
		path: cfgPath,
	}

	if _, err := os.Stat(cfgPath); err == nil {
		md, err := toml.DecodeFile(cfgPath, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config %s: %w", cfgPath, err)
		}
		if md.IsDefined("transcript_root") {
			cfg.raw.transcriptRoot = cfg.TranscriptRoot
		}
		if md.IsDefined("db_path") {
			cfg.raw.dbPath = cfg.DBPath
		}
		if md.IsDefined("bot", "token") {
			cfg.raw.token = cfg.Bot.Token
		}
	}

	override(envToken, &cfg.Bot.Token)
	override(envDBPath, &cfg.DBPath)
	override(envTranscriptRoot, &cfg.TranscriptRoot)

	// expand ~ in paths
	cfg.TranscriptRoot = expandHome(cfg.TranscriptRoot, home)
	cfg.DBPath = expandHome(cfg.DBPath, home)

	cfg.loaded = cfg.current()
	return cfg, nil
}

func override(env string, field *string) {
	if v := os.Getenv(env); v != "" {
		*field = v
	}
}

// Path returns the file the config was loaded from.
func (c *Config) Path() string { return c.path }

// Save writes the config back to its file. Paths and the token are written
// as the file had them unless the caller changed them after loading, so
// env values, defaults and expanded ~ never land on disk.
func (c *Config) Save() error {
	out := *c
	if c.TranscriptRoot == c.loaded.transcriptRoot {
		out.TranscriptRoot = c.raw.transcriptRoot
	}
	if c.DBPath == c.loaded.dbPath {
		out.DBPath = c.raw.dbPath
	}
	if c.Bot.Token == c.loaded.token {
		out.Bot.Token = c.raw.token
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	tmp := c.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := toml.NewEncoder(f).Encode(out); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode config: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write config: %w", err)
	}
	return os.Rename(tmp, c.path)
}

// Validate reports every required field that is unset.
func (b BotConfig) Validate() error {
	var missing []string
	if b.Token == "" {
		missing = append(missing, "token")
	}
	if b.GuildID == 0 {
		missing = append(missing, "guild_id")
	}
	if b.ForumChannelID == 0 {
		missing = append(missing, "forum_channel_id")
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing configuration fields: %v", missing)
	}
	if _, err := b.Location(); err != nil {
		return err
	}
	return nil
}

// Location resolves Timezone; empty means UTC.
func (b BotConfig) Location() (*time.Location, error) {
	if b.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

func expandHome(path, home string) string {
	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		return filepath.Join(home, path[2:])
	}
	return path
}
