package logger

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jimyag/ansigo-inventory/pkg/errors"
)

var (
	// Logger 全局日志实例，默认写到 stderr，stdout 只留给 inventory JSON
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// LogLevel 日志级别
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

// 颜色代码
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

// Config 日志配置
type Config struct {
	Level      LogLevel
	Output     io.Writer
	TimeFormat string
	Pretty     bool
	NoColor    bool
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Level:      WarnLevel,
		Output:     os.Stderr,
		TimeFormat: time.RFC3339,
		Pretty:     true,
	}
}

// Init 初始化日志系统
func Init(cfg *Config) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	if cfg.TimeFormat != "" {
		zerolog.TimeFieldFormat = cfg.TimeFormat
	}

	output := cfg.Output
	if cfg.Pretty {
		// Ansible 风格的诊断输出: [WARNING]: ...
		output = zerolog.ConsoleWriter{
			Out:     cfg.Output,
			NoColor: cfg.NoColor,
			FormatLevel: func(i interface{}) string {
				return levelPrefix(fmt.Sprintf("%s", i), cfg.NoColor)
			},
			FormatTimestamp: func(i interface{}) string {
				return ""
			},
			FormatMessage: func(i interface{}) string {
				if i == nil {
					return ""
				}
				return fmt.Sprintf("%s", i)
			},
			FormatFieldName: func(i interface{}) string {
				return ""
			},
			FormatFieldValue: func(i interface{}) string {
				return ""
			},
			FormatErrFieldName: func(i interface{}) string {
				return ""
			},
			FormatErrFieldValue: func(i interface{}) string {
				return ""
			},
		}
	}

	zerolog.SetGlobalLevel(parseLogLevel(cfg.Level))

	Logger = zerolog.New(output).With().Timestamp().Logger()
	log.Logger = Logger
}

// levelPrefix 返回级别前缀
func levelPrefix(level string, noColor bool) string {
	var prefix, color string
	switch level {
	case "debug":
		prefix, color = "[DEBUG]:", ColorCyan
	case "warn":
		prefix, color = "[WARNING]:", ColorYellow
	case "error", "fatal", "panic":
		prefix, color = "[ERROR]:", ColorRed
	default:
		return ""
	}
	if noColor {
		return prefix
	}
	return color + prefix + ColorReset
}

// parseLogLevel 解析日志级别
func parseLogLevel(level LogLevel) zerolog.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.WarnLevel
	}
}

// SetLevel 设置日志级别
func SetLevel(level LogLevel) {
	zerolog.SetGlobalLevel(parseLogLevel(level))
}

// Debugf 格式化调试日志
func Debugf(format string, args ...interface{}) {
	Logger.Debug().Msgf(format, args...)
}

// Infof 格式化信息日志
func Infof(format string, args ...interface{}) {
	Logger.Info().Msgf(format, args...)
}

// Warnf 格式化警告日志
func Warnf(format string, args ...interface{}) {
	Logger.Warn().Msgf(format, args...)
}

// Errorf 格式化错误日志
func Errorf(format string, args ...interface{}) {
	Logger.Error().Msgf(format, args...)
}

// FileWarning 记录单个文件被跳过的原因
func FileWarning(err error) {
	event := Logger.Warn().Err(err)
	var invErr *errors.InventoryError
	if stderrors.As(err, &invErr) {
		event = event.Str("path", invErr.Path).Str("kind", invErr.Type.String())
	}
	event.Msgf("Skipping %v", err)
}
