package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// BuildLogger arma el logger de un módulo: JSON sobre stderr, con el origen de cada línea.
// El nivel viene del campo log_level del config (DEBUG, INFO, WARN, ERROR). Si no se reconoce se usa INFO.
func BuildLogger(level string) *slog.Logger {
	return BuildLoggerConSalida(os.Stderr, level)
}

// BuildLoggerConSalida es igual a BuildLogger pero escribe en w. Sirve para los tests.
func BuildLoggerConSalida(w io.Writer, level string) *slog.Logger {
	ops := &slog.HandlerOptions{
		AddSource: true,
		Level:     ParseLevel(level),
	}
	return slog.New(slog.NewJSONHandler(w, ops))
}

// ParseLevel convierte el nivel del archivo de configuración a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func ErrAttr(err error) slog.Attr {
	return slog.Any("error", err)
}

func StringAttr(key, value string) slog.Attr {
	return slog.String(key, value)
}

func IntAttr(key string, value int) slog.Attr {
	return slog.Int(key, value)
}

func Float64Attr(key string, value float64) slog.Attr {
	return slog.Float64(key, value)
}

func BoolAttr(key string, value bool) slog.Attr {
	return slog.Bool(key, value)
}

func AnyAttr(key string, value any) slog.Attr {
	return slog.Any(key, value)
}
