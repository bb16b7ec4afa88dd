package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr           = ":8080"
	DefaultMaxUploadBytes = 10 << 20
)

type Config struct {
	APIKey         string
	Model          string
	BaseURL        string
	PDFPath        string // local file used when an upload request carries no file
	Addr           string
	MaxUploadBytes int64
	Greetings      bool
	LogLevel       string
	LogFormat      string
}

// Load reads an optional .env file and then the process environment.
// Values already set in the environment win over .env.
func Load(envFiles ...string) Config {
	_ = godotenv.Load(envFiles...)

	c := Config{
		APIKey:         firstEnv("GEMINI_API_KEY", "GOOGLE_API_KEY"),
		Model:          os.Getenv("GEMINI_MODEL"),
		BaseURL:        os.Getenv("GEMINI_BASE_URL"),
		PDFPath:        os.Getenv("PDF_PATH"),
		Addr:           firstEnv("PDFCHAT_ADDR"),
		MaxUploadBytes: DefaultMaxUploadBytes,
		LogLevel:       firstEnv("PDFCHAT_LOG_LEVEL"),
		LogFormat:      firstEnv("PDFCHAT_LOG_FORMAT"),
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if v := os.Getenv("PDFCHAT_MAX_UPLOAD_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.MaxUploadBytes = n
		}
	}
	if v := os.Getenv("PDFCHAT_GREETINGS"); v != "" {
		c.Greetings, _ = strconv.ParseBool(v)
	}
	return c
}

// Validate checks the settings needed to reach the Gemini API.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("missing API key: set GEMINI_API_KEY or pass --api-key")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload size must be positive")
	}
	return nil
}

// Logger builds the process logger from LogLevel and LogFormat.
func (c Config) Logger() *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(os.Getenv(k)); v != "" {
			return v
		}
	}
	return ""
}
