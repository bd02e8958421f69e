package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/decred/slog"
	"github.com/joho/godotenv"

	"polypong/protocol"
)

const (
	EnvBrokerURL     = "POLYPONG_BROKER_URL"
	EnvBrokerAddr    = "POLYPONG_BROKER_ADDR"
	EnvListenAddr    = "POLYPONG_LISTEN_ADDR"
	EnvPublicURL     = "POLYPONG_PUBLIC_URL"
	EnvSerialization = "POLYPONG_SERIALIZATION"
	EnvTickHz        = "POLYPONG_TICK_HZ"
	EnvLogLevel      = "POLYPONG_LOG_LEVEL"
)

type Config struct {
	BrokerURL     string
	BrokerAddr    string
	ListenAddr    string
	PublicURL     string
	Serialization string
	TickHz        int
	LogLevel      slog.Level
}

func Default() Config {
	return Config{
		BrokerURL:     "http://localhost:9000",
		BrokerAddr:    ":9000",
		ListenAddr:    ":8080",
		PublicURL:     "ws://localhost:8080/ws",
		Serialization: protocol.DefaultSerialization,
		TickHz:        protocol.DefaultTickHz,
		LogLevel:      slog.LevelInfo,
	}
}

// Load reads the given .env files (".env" when none are named) into the
// environment and builds a Config on top of the defaults. Missing files are
// skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment.
func FromEnv() (Config, error) {
	cfg := Default()
	if v, err := GetEnvVariable(EnvBrokerURL); err == nil {
		cfg.BrokerURL = v
	}
	if v, err := GetEnvVariable(EnvBrokerAddr); err == nil {
		cfg.BrokerAddr = v
	}
	if v, err := GetEnvVariable(EnvListenAddr); err == nil {
		cfg.ListenAddr = v
	}
	if v, err := GetEnvVariable(EnvPublicURL); err == nil {
		cfg.PublicURL = v
	}
	if v, err := GetEnvVariable(EnvSerialization); err == nil {
		if _, err := protocol.SerializationByName(v); err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSerialization, err)
		}
		cfg.Serialization = v
	}
	if v, err := GetEnvVariable(EnvTickHz); err == nil {
		hz, err := strconv.Atoi(v)
		if err != nil || hz <= 0 {
			return Config{}, fmt.Errorf("%s: %q is not a positive integer", EnvTickHz, v)
		}
		cfg.TickHz = hz
	}
	if v, err := GetEnvVariable(EnvLogLevel); err == nil {
		lvl, ok := slog.LevelFromString(v)
		if !ok {
			return Config{}, fmt.Errorf("%s: unknown level %q", EnvLogLevel, v)
		}
		cfg.LogLevel = lvl
	}
	return cfg, nil
}

func GetEnvVariable(v string) (string, error) {
	if v == "" {
		return "", fmt.Errorf("input param empty")
	}
	b := os.Getenv(v)
	if b == "" {
		return "", fmt.Errorf("failed to get variable for %s", v)
	}

	return b, nil
}
