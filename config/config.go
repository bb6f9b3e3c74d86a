// Package config holds the runtime settings of the game window and its
// network link.
package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var ErrInvalidAddress = errors.New("invalid ip address")

type Config struct {
	// Address is host:port. The host listens on it, the client dials it.
	Address string `yaml:"address"`
	Host    bool   `yaml:"host"`

	AssetDir  string `yaml:"asset_dir"`
	PieceFont string `yaml:"piece_font"`
	TextFont  string `yaml:"text_font"`

	WindowWidth  int `yaml:"window_width"`
	WindowHeight int `yaml:"window_height"`
	TPS          int `yaml:"tps"`

	PollTimeout time.Duration `yaml:"poll_timeout"`
}

func Default() Config {
	return Config{
		AssetDir:     "assets",
		PieceFont:    "chess_merida_unicode.ttf",
		TextFont:     "Roboto-Regular.ttf",
		WindowWidth:  1040,
		WindowHeight: 800,
		TPS:          60,
		PollTimeout:  2 * time.Millisecond,
	}
}

// Load overlays the YAML file at path on c. Keys the file does not set keep
// their value; unknown keys are an error.
func Load(path string, c Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return c, err
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// FromEnv overlays the PAWNHEARTS_* environment variables on c.
func FromEnv(c Config) Config {
	c.Address = getenv("PAWNHEARTS_ADDR", c.Address)
	c.Host = getenb("PAWNHEARTS_HOST", c.Host)
	c.AssetDir = getenv("PAWNHEARTS_ASSETS", c.AssetDir)
	return c
}

func (c Config) Validate() error {
	if c.WindowWidth <= 0 || c.WindowHeight <= 0 {
		return fmt.Errorf("window size %dx%d", c.WindowWidth, c.WindowHeight)
	}
	if c.TPS <= 0 {
		return fmt.Errorf("tps %d", c.TPS)
	}
	if c.PollTimeout <= 0 {
		return fmt.Errorf("poll timeout %s", c.PollTimeout)
	}
	if c.Address != "" {
		return ValidateAddress(c.Address)
	}
	return nil
}

// ValidateAddress accepts ip:port, with an empty ip meaning every interface
// and "localhost" as the one name allowed.
func ValidateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return fmt.Errorf("%w: port %q", ErrInvalidAddress, port)
	}
	if host != "" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("%w: %q", ErrInvalidAddress, host)
	}
	return nil
}

// Asset resolves a file name against AssetDir.
func (c Config) Asset(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.AssetDir, name)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}
