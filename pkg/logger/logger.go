package logger

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"glimpse/config"
)

// Logger wraps zerolog behind the small surface the rest of the app
// uses. Construct with NewLogger; passed by value.
type Logger struct {
	zl zerolog.Logger
}

func NewLogger(cfg *config.Config) (*Logger, error) {
	level := zerolog.InfoLevel
	if cfg != nil && cfg.LoggerMode.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.LoggerMode.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	var zl zerolog.Logger
	if cfg != nil && cfg.LoggerMode.Development {
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).With().Timestamp().Logger()
	} else {
		zl = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return &Logger{zl: zl}, nil
}

func (l Logger) Debug(msg string, keysAndValues ...any) {
	l.emit(l.zl.Debug(), msg, keysAndValues)
}

func (l Logger) Info(msg string, keysAndValues ...any) {
	l.emit(l.zl.Info(), msg, keysAndValues)
}

func (l Logger) Warn(msg string, keysAndValues ...any) {
	l.emit(l.zl.Warn(), msg, keysAndValues)
}

func (l Logger) Error(msg string, keysAndValues ...any) {
	l.emit(l.zl.Error(), msg, keysAndValues)
}

func (l Logger) Debugf(format string, args ...any) { l.zl.Debug().Msgf(format, args...) }
func (l Logger) Infof(format string, args ...any)  { l.zl.Info().Msgf(format, args...) }
func (l Logger) Warnf(format string, args ...any)  { l.zl.Warn().Msgf(format, args...) }
func (l Logger) Errorf(format string, args ...any) { l.zl.Error().Msgf(format, args...) }

func (l Logger) emit(ev *zerolog.Event, msg string, keysAndValues []any) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	ev.Msg(msg)
}
