package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	charmLog "github.com/charmbracelet/log"
	toml "github.com/pelletier/go-toml/v2"
)

// IDStrategy selects how fresh column and card ids are generated.
type IDStrategy string

const (
	IDStrategyUUID     IDStrategy = "uuid"
	IDStrategySequence IDStrategy = "sequence"
)

type Config struct {
	Logging    LoggingConfig    `toml:"logging"`
	Board      BoardConfig      `toml:"board"`
	IDs        IDConfig         `toml:"ids"`
	Server     ServerConfig     `toml:"server"`
	CardFields CardFieldsConfig `toml:"card_fields"`
	Search     SearchConfig     `toml:"search"`
	Keys       KeyConfig        `toml:"keys"`
}

type LoggingConfig struct {
	Level   string           `toml:"level"`
	DevFile DevFileLogConfig `toml:"dev_file"`
}

// DevFileLogConfig controls the logfmt file sink written in dev mode.
type DevFileLogConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type BoardConfig struct {
	SeedPath    string `toml:"seed_path"`
	ColumnWidth int    `toml:"column_width"`
}

type IDConfig struct {
	Strategy IDStrategy `toml:"strategy"`
}

type ServerConfig struct {
	HTTPBind    string `toml:"http_bind"`
	APIEndpoint string `toml:"api_endpoint"`
	MCPEndpoint string `toml:"mcp_endpoint"`
}

type CardFieldsConfig struct {
	ShowLabels      bool `toml:"show_labels"`
	ShowDueDate     bool `toml:"show_due_date"`
	ShowDescription bool `toml:"show_description"`
}

type SearchConfig struct {
	Limit         int `toml:"limit"`
	ActivityLimit int `toml:"activity_limit"`
}

// KeyConfig overrides selected TUI key bindings. Blank values keep the built-in key.
type KeyConfig struct {
	PickCard    string `toml:"pick_card"`
	PickColumn  string `toml:"pick_column"`
	Search      string `toml:"search"`
	ActivityLog string `toml:"activity_log"`
	CopyTitle   string `toml:"copy_title"`
}

// Default returns the built-in configuration. An empty seedPath selects the built-in board.
func Default(seedPath string) Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
			DevFile: DevFileLogConfig{
				Enabled: true,
				Dir:     ".trelloclone/log",
			},
		},
		Board: BoardConfig{
			SeedPath:    seedPath,
			ColumnWidth: 30,
		},
		IDs: IDConfig{
			Strategy: IDStrategyUUID,
		},
		Server: ServerConfig{
			HTTPBind:    "127.0.0.1:8080",
			APIEndpoint: "/api/v1",
			MCPEndpoint: "/mcp",
		},
		CardFields: CardFieldsConfig{
			ShowLabels:      true,
			ShowDueDate:     true,
			ShowDescription: false,
		},
		Search: SearchConfig{
			Limit:         20,
			ActivityLimit: 50,
		},
		Keys: KeyConfig{
			PickCard:    "space",
			PickColumn:  "m",
			Search:      "/",
			ActivityLog: "g",
			CopyTitle:   "y",
		},
	}
}

func Load(path string, defaults Config) (Config, error) {
	cfg := defaults
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if len(content) == 0 {
		return cfg, nil
	}

	if err := toml.Unmarshal(content, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode toml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := charmLog.ParseLevel(strings.TrimSpace(c.Logging.Level)); err != nil {
		return fmt.Errorf("invalid logging.level: %q", c.Logging.Level)
	}

	switch IDStrategy(strings.ToLower(strings.TrimSpace(string(c.IDs.Strategy)))) {
	case IDStrategyUUID, IDStrategySequence:
	default:
		return fmt.Errorf("invalid ids.strategy: %q", c.IDs.Strategy)
	}

	if c.Board.ColumnWidth < 16 {
		return fmt.Errorf("board.column_width must be >= 16, got %d", c.Board.ColumnWidth)
	}

	c.Server.APIEndpoint = strings.TrimSpace(c.Server.APIEndpoint)
	c.Server.MCPEndpoint = strings.TrimSpace(c.Server.MCPEndpoint)
	if c.Server.APIEndpoint != "" && !strings.HasPrefix(c.Server.APIEndpoint, "/") {
		return fmt.Errorf("server.api_endpoint must start with /: %q", c.Server.APIEndpoint)
	}
	if c.Server.MCPEndpoint != "" && !strings.HasPrefix(c.Server.MCPEndpoint, "/") {
		return fmt.Errorf("server.mcp_endpoint must start with /: %q", c.Server.MCPEndpoint)
	}
	if c.Server.APIEndpoint != "" && strings.TrimRight(c.Server.APIEndpoint, "/") == strings.TrimRight(c.Server.MCPEndpoint, "/") {
		return errors.New("server.api_endpoint and server.mcp_endpoint must differ")
	}

	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must be >= 0, got %d", c.Search.Limit)
	}
	if c.Search.ActivityLimit < 0 {
		return fmt.Errorf("search.activity_limit must be >= 0, got %d", c.Search.ActivityLimit)
	}

	seenKeys := map[string]string{}
	for name, raw := range map[string]string{
		"pick_card":    c.Keys.PickCard,
		"pick_column":  c.Keys.PickColumn,
		"search":       c.Keys.Search,
		"activity_log": c.Keys.ActivityLog,
		"copy_title":   c.Keys.CopyTitle,
	} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if other, ok := seenKeys[raw]; ok {
			return fmt.Errorf("keys.%s and keys.%s both use %q", other, name, raw)
		}
		seenKeys[raw] = name
	}

	return nil
}

// UseSequenceIDs reports whether ids should come from a monotonic counter.
func (c Config) UseSequenceIDs() bool {
	return IDStrategy(strings.ToLower(strings.TrimSpace(string(c.IDs.Strategy)))) == IDStrategySequence
}

// WriteDefault writes the default configuration to path unless a file already exists.
func WriteDefault(path string, cfg Config) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	content, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode toml: %w", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func EnsureConfigDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
