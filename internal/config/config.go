package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	TransportGenAI  = "genai"
	TransportOpenAI = "openai"

	// DefaultOpenAIBaseURL is Gemini's OpenAI-compatible endpoint.
	DefaultOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// Config holds everything read from the environment at startup.
type Config struct {
	APIKey    string
	BaseURL   string
	Transport string

	LogLevel  string // debug, info, warn, error
	LogFormat string // text, json
	LogFile   string

	JournalEnabled bool
	JournalPath    string
}

// Load reads the configuration and validates it for talking to the service.
func Load(envFile string, getenv func(string) string) (*Config, error) {
	cfg, err := Read(envFile, getenv)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(envFile); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read resolves configuration from getenv first and envFile second. The env file
// is optional: a missing file is not an error, an unreadable one is.
func Read(envFile string, getenv func(string) string) (*Config, error) {
	fileVals := map[string]string{}
	if envFile != "" {
		vals, err := godotenv.Read(envFile)
		switch {
		case err == nil:
			fileVals = vals
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
		}
	}

	lookup := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		if v := strings.TrimSpace(fileVals[key]); v != "" {
			return v
		}
		return def
	}

	dataDir := DataDir()
	cfg := &Config{
		APIKey:         lookup("API_KEY", ""),
		BaseURL:        lookup("GENAI_BASE_URL", ""),
		Transport:      strings.ToLower(lookup("GENAI_TRANSPORT", TransportGenAI)),
		LogLevel:       lookup("LOG_LEVEL", "info"),
		LogFormat:      lookup("LOG_FORMAT", "text"),
		LogFile:        lookup("LOG_FILE", filepath.Join(dataDir, "answergen.log")),
		JournalEnabled: parseBool(lookup("JOURNAL_ENABLED", "true")),
		JournalPath:    lookup("JOURNAL_PATH", filepath.Join(dataDir, "answergen.db")),
	}

	return cfg, nil
}

func (c *Config) Validate(envFile string) error {
	if c.APIKey == "" {
		return fmt.Errorf("API_KEY is not defined: set it in the environment or in %s", displayEnvFile(envFile))
	}
	switch c.Transport {
	case TransportGenAI, TransportOpenAI:
	default:
		return fmt.Errorf("unsupported GENAI_TRANSPORT: %s", c.Transport)
	}
	return nil
}

// OpenAIBaseURL is the base URL used by the OpenAI-compatible transport.
func (c *Config) OpenAIBaseURL() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	return DefaultOpenAIBaseURL
}

// DataDir is where the log file and journal live by default.
func DataDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		homeDir, herr := os.UserHomeDir()
		if herr != nil {
			return "."
		}
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "answergen")
}

// MaskAPIKey hides all but the edges of a credential for logging.
func MaskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****" + key[len(key)-4:]
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func displayEnvFile(envFile string) string {
	if envFile == "" {
		return "a .env file"
	}
	return envFile
}
