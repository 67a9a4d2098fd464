package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	ListenAddr     string
	DBPath         string
	FramePath      string
	CaptionBackend string
	DevelopDelay   time.Duration
	LogLevel       slog.Level
	LogFile        string
}

func Load() *Config {
	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "/data/retrocam.db"),
		FramePath:      getEnv("FRAME_PATH", "/data/frames"),
		CaptionBackend: getEnv("CAPTION_BACKEND", "openai"),
		DevelopDelay:   getDuration("DEVELOP_DELAY", 4*time.Second),
		LogLevel:       getLevel("LOG_LEVEL", slog.LevelInfo),
		LogFile:        getEnv("LOG_FILE", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}

func getLevel(key string, defaultVal slog.Level) slog.Level {
	switch os.Getenv(key) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return defaultVal
	}
}
