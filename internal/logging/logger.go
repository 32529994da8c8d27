package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnvVar selects the log level when no --log-level flag is given.
// Unset or empty means silent, which keeps wizard and runner output clean.
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "AVRSETUP_LOG_LEVEL"

var logger *zap.Logger

// Initialize builds the global logger at the given level. An empty level
// falls back to AVRSETUP_LOG_LEVEL; if that is empty too, logging is
// disabled entirely.
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		logger = zap.NewNop()
		return nil
	}

	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(level)),
		Encoding:         "console",
		EncoderConfig:    consoleEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

// InitializeFromEnv initializes logging from AVRSETUP_LOG_LEVEL alone.
func InitializeFromEnv() error {
	return Initialize("")
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		// Anything else that was set explicitly reads as info
		return zapcore.InfoLevel
	}
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	return cfg
}

// GetLogger returns the global logger. Before Initialize it returns a nop
// logger, so library code can log unconditionally.
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// Debug logs at debug level.
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Info logs at info level.
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Warn logs at warn level.
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs at error level.
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// Fatal logs the message and exits.
func Fatal(msg string, fields ...zap.Field) {
	GetLogger().Fatal(msg, fields...)
}

// LogConnection records a connection lifecycle event on the API server.
func LogConnection(remoteAddr string, event string) {
	Info("Connection event",
		zap.String("remote_addr", remoteAddr),
		zap.String("event", event),
	)
}

// LogHTTPRequest records one incoming API request.
func LogHTTPRequest(remoteAddr string, method string, path string) {
	Info("HTTP request",
		zap.String("remote_addr", remoteAddr),
		zap.String("method", method),
		zap.String("path", path),
	)
}

// LogHTTPResponse records the status an API request was answered with.
func LogHTTPResponse(remoteAddr string, statusCode int, path string) {
	Info("HTTP response",
		zap.String("remote_addr", remoteAddr),
		zap.Int("status_code", statusCode),
		zap.String("path", path),
	)
}

// LogWebSocketMessage records one event stream frame. Frames are JSON text;
// the payload itself only appears at debug level.
func LogWebSocketMessage(remoteAddr string, direction string, data []byte) {
	fields := []zap.Field{
		zap.String("remote_addr", remoteAddr),
		zap.String("direction", direction),
		zap.Int("length", len(data)),
	}
	if GetLogger().Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.ByteString("content", data))
	}
	Info("WebSocket message", fields...)
}

// LogDeviceProbe records one receiver endpoint probe attempt.
func LogDeviceProbe(host string, endpoint string, err error) {
	if err != nil {
		Debug("Receiver probe failed",
			zap.String("host", host),
			zap.String("endpoint", endpoint),
			zap.Error(err),
		)
		return
	}
	Debug("Receiver probe succeeded",
		zap.String("host", host),
		zap.String("endpoint", endpoint),
	)
}

// Sync flushes buffered log entries. Call before exit.
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
