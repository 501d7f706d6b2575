package utils

import (
	"errors"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

const (
	ConfigFile  = "config.toml"
	EnvFile     = ".env"
	DefaultHost = "localhost"
	DefaultPort = 8000
)

type ServerConfig struct {
	Port           int      `toml:"port"`
	ReplyBuffer    int      `toml:"reply_buffer"`
	ObserveAddr    string   `toml:"observe_addr"`
	OriginPatterns []string `toml:"origin_patterns"`
}

type ClientConfig struct {
	Host               string `toml:"host"`
	Port               int    `toml:"port"`
	Color              string `toml:"color"`
	ExchangeIntervalMS int    `toml:"exchange_interval_ms"`
	ReplyTimeoutMS     int    `toml:"reply_timeout_ms"`
	ReceiveBuffer      int    `toml:"receive_buffer"`
	PollIntervalMS     int    `toml:"poll_interval_ms"`
}

type ResolutionConfig struct {
	X, Y int
}

type UIConfig struct {
	Resolution ResolutionConfig
}

type Config struct {
	Server ServerConfig
	Client ClientConfig
	UI     UIConfig
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        DefaultPort,
			ReplyBuffer: 500,
		},
		Client: ClientConfig{
			Host:               DefaultHost,
			Port:               DefaultPort,
			Color:              DefaultLocalColorName,
			ExchangeIntervalMS: 100,
			ReplyTimeoutMS:     30,
			ReceiveBuffer:      500,
			PollIntervalMS:     100,
		},
		UI: UIConfig{
			Resolution: ResolutionConfig{X: 800, Y: 600},
		},
	}
}

// ReadTOML overlays fileName on the defaults.
func ReadTOML(fileName string) (*Config, error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(file, config); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig resolves defaults, the TOML file and the environment. A missing file
// is not an error; a broken one is logged and ignored.
func LoadConfig(fileName string) *Config {
	config, err := ReadTOML(fileName)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("ignoring %s: %v", fileName, err)
		}
		config = DefaultConfig()
	}
	LoadEnv(config)
	return config
}

// LoadEnv applies TANKS_* variables from the process environment and, for keys not
// already set there, from the .env file.
func LoadEnv(config *Config) {
	if err := godotenv.Load(EnvFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("ignoring %s: %v", EnvFile, err)
	}
	if host := os.Getenv("TANKS_HOST"); host != "" {
		config.Client.Host = host
	}
	if port := os.Getenv("TANKS_PORT"); port != "" {
		config.Client.Port = ParsePort(port, config.Client.Port)
		config.Server.Port = ParsePort(port, config.Server.Port)
	}
	if color := os.Getenv("TANKS_COLOR"); color != "" {
		config.Client.Color = color
	}
	if addr, ok := os.LookupEnv("TANKS_OBSERVE_ADDR"); ok {
		config.Server.ObserveAddr = addr
	}
}

// ParsePort returns s as a port number, or fallback if s is not one.
func ParsePort(s string, fallback int) int {
	port, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || port < 1 || port > math.MaxUint16 {
		return fallback
	}
	return port
}

// ApplyServerArgs reads the optional listen port from args[1]. args[0] is the
// program or subcommand name.
func (c *Config) ApplyServerArgs(args []string) {
	if len(args) > 1 {
		c.Server.Port = ParsePort(args[1], DefaultPort)
	}
}

// ApplyClientArgs reads the optional host, port and color name positionals.
func (c *Config) ApplyClientArgs(args []string) {
	if len(args) > 0 && args[0] != "" {
		c.Client.Host = args[0]
	}
	if len(args) > 1 {
		c.Client.Port = ParsePort(args[1], DefaultPort)
	}
	if len(args) > 2 {
		c.Client.Color = args[2]
	}
}

func AlmostEqual(a, b, threshold float64) bool {
	return math.Abs(a-b) <= threshold
}
