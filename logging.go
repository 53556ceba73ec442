package hivetrace

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewDebugLogger returns a console logger suitable for tracing the
// notifier's own activity (payload builds, deliveries, shielded middleware
// failures) during development. By default a Notifier logs nothing.
func NewDebugLogger() *zap.SugaredLogger {
	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		LevelKey:    "L",
		MessageKey:  "M",
		TimeKey:     "T",
		EncodeLevel: zapcore.CapitalColorLevelEncoder,
		EncodeTime:  zapcore.ISO8601TimeEncoder,
	})
	return zap.New(zapcore.NewCore(
		encoder,
		zapcore.Lock(os.Stderr),
		zapcore.DebugLevel,
	)).Sugar()
}
