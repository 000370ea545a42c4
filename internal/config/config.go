package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vancomm/minesweeper-board/internal/mines"
)

type Log struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

func (l Log) ParseLevel() (logrus.Level, error) {
	return logrus.ParseLevel(l.Level)
}

// Board holds the default game and the largest board a client may request.
type Board struct {
	Width     int `mapstructure:"width"`
	Height    int `mapstructure:"height"`
	MineCount int `mapstructure:"mine_count"`
	MaxWidth  int `mapstructure:"max_width"`
	MaxHeight int `mapstructure:"max_height"`
}

type Session struct {
	TTL           time.Duration `mapstructure:"ttl"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type JWTConfig struct {
	TokenLifetime  time.Duration `mapstructure:"token_lifetime"`
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	PublicKeyPath  string        `mapstructure:"public_key_path"`
}

type Config struct {
	Mode     string `mapstructure:"mode"`
	Addr     string `mapstructure:"addr"`
	BasePath string `mapstructure:"base_path"`

	// CorsOrigins lists the origins allowed to call the API; empty allows any.
	CorsOrigins []string  `mapstructure:"cors_origins"`
	Log         Log       `mapstructure:"log"`
	Board       Board     `mapstructure:"board"`
	Session     Session   `mapstructure:"session"`
	JWT         JWTConfig `mapstructure:"jwt"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("mode", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("base_path", "")
	v.SetDefault("cors_origins", []string{})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("board.width", 9)
	v.SetDefault("board.height", 9)
	v.SetDefault("board.mine_count", 10)
	v.SetDefault("board.max_width", 100)
	v.SetDefault("board.max_height", 100)
	v.SetDefault("session.ttl", "24h")
	v.SetDefault("session.sweep_interval", "1m")
	v.SetDefault("jwt.token_lifetime", "24h")
	v.SetDefault("jwt.private_key_path", "")
	v.SetDefault("jwt.public_key_path", "")
}

// Load reads defaults, then the config file at path (if any), then MINES_*
// environment variables, e.g. MINES_BOARD_WIDTH or MINES_JWT_TOKEN_LIFETIME.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MINES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c Config) Validate() error {
	if c.Mode != "development" && c.Mode != "production" {
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if _, err := c.Log.ParseLevel(); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	b := c.Board
	if b.MaxWidth <= 0 || b.MaxWidth > math.MaxUint16 ||
		b.MaxHeight <= 0 || b.MaxHeight > math.MaxUint16 {
		return fmt.Errorf("board limits must be within 1..%d", math.MaxUint16)
	}
	if b.Width > b.MaxWidth || b.Height > b.MaxHeight {
		return fmt.Errorf(
			"default board %dx%d exceeds limit %dx%d",
			b.Width, b.Height, b.MaxWidth, b.MaxHeight,
		)
	}
	if err := mines.ValidateConfiguration(b.Width, b.Height, b.MineCount); err != nil {
		return fmt.Errorf("invalid default board: %w", err)
	}
	if c.Session.TTL <= 0 || c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session ttl and sweep interval must be positive")
	}
	if c.JWT.TokenLifetime <= 0 {
		return fmt.Errorf("jwt token lifetime must be positive")
	}
	return nil
}

func (c Config) Fields() logrus.Fields {
	return map[string]any{
		"mode":                 c.Mode,
		"addr":                 c.Addr,
		"base_path":            c.BasePath,
		"cors_origins":         c.CorsOrigins,
		"log_level":            c.Log.Level,
		"log_file":             c.Log.File,
		"board":                fmt.Sprintf("%dx%d(%d)", c.Board.Width, c.Board.Height, c.Board.MineCount),
		"board_limit":          fmt.Sprintf("%dx%d", c.Board.MaxWidth, c.Board.MaxHeight),
		"session_ttl":          c.Session.TTL.String(),
		"jwt_token_lifetime":   c.JWT.TokenLifetime.String(),
		"jwt_private_key_path": c.JWT.PrivateKeyPath,
		"jwt_public_key_path":  c.JWT.PublicKeyPath,
	}
}

func (c Config) Production() bool {
	return c.Mode == "production"
}

func (c Config) Development() bool {
	return c.Mode != "production"
}
