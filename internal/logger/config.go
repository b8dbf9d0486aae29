package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	// Log Level: trace, debug, info, warn, error, fatal
	Level string `env:"LOG_LEVEL" envDefault:"info"`

	// Log Format: json, text
	Format string `env:"LOG_FORMAT" envDefault:"text"`

	// Log Output: file, stdout, both
	Output string `env:"LOG_OUTPUT" envDefault:"both"`

	// Log Rotation
	MaxSize    int  `env:"LOG_MAX_SIZE" envDefault:"100"`  // MB
	MaxBackups int  `env:"LOG_MAX_BACKUPS" envDefault:"7"` // Số file cũ giữ lại
	MaxAge     int  `env:"LOG_MAX_AGE" envDefault:"7"`     // Số ngày giữ lại
	Compress   bool `env:"LOG_COMPRESS" envDefault:"true"` // Nén file cũ

	// Log Paths
	LogPath       string `env:"LOG_PATH" envDefault:"./logs"`
	AppFile       string `env:"LOG_APP_FILE" envDefault:"app.log"`
	MigrationFile string `env:"LOG_MIGRATION_FILE" envDefault:"migration.log"`
	AuditFile     string `env:"LOG_AUDIT_FILE" envDefault:"audit.log"`
	ErrorFile     string `env:"LOG_ERROR_FILE" envDefault:"error.log"`

	// Kích thước buffer của async writer
	BufferSize int `env:"LOG_BUFFER_SIZE" envDefault:"1000"`
}

// DefaultConfig đọc cấu hình từ environment, mặc định theo GO_ENV
// (development: debug + text, còn lại: info + json).
func DefaultConfig() *LogConfig {
	cfg := &LogConfig{}
	if err := env.Parse(cfg); err != nil {
		// Env sai định dạng (ví dụ LOG_MAX_SIZE=abc) thì dùng mặc định, logger chưa sẵn sàng để báo lỗi
		fmt.Fprintf(os.Stderr, "invalid log configuration, using defaults: %v\n", err)
		return fallbackConfig()
	}

	// envDefault luôn ghi đè, nên điều chỉnh theo môi trường sau khi parse
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" || goEnv == "development" {
		if os.Getenv("LOG_LEVEL") == "" {
			cfg.Level = "debug"
		}
	} else if os.Getenv("LOG_FORMAT") == "" {
		cfg.Format = "json"
	}

	cfg.normalize()
	return cfg
}

func fallbackConfig() *LogConfig {
	return &LogConfig{
		Level:         "info",
		Format:        "text",
		Output:        "stdout",
		MaxSize:       100,
		MaxBackups:    7,
		MaxAge:        7,
		Compress:      true,
		LogPath:       "./logs",
		AppFile:       "app.log",
		MigrationFile: "migration.log",
		AuditFile:     "audit.log",
		ErrorFile:     "error.log",
		BufferSize:    1000,
	}
}

func (c *LogConfig) normalize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	c.Output = strings.ToLower(strings.TrimSpace(c.Output))
	if c.BufferSize <= 0 {
		c.BufferSize = 1000
	}
}
