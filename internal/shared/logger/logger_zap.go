// Package logger содержит общий логгер для server и agent.
//
// Пакет предоставляет Zap-логгер, настроенный на запись в файл с ротацией
// (lumberjack) и удобный метод для логирования HTTP-запросов.
package logger

import (
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DefaultFile: файл логов по умолчанию.
var DefaultFile = filepath.Join("runtime", "logs", "http.log")

// HTTPLogger представляет обёртку над zap.Logger для логирования HTTP-событий.
//
// Встраивание *zap.Logger позволяет использовать все методы zap напрямую.
type HTTPLogger struct {
	*zap.Logger
}

// Options: параметры логгера (обычно берутся из секции log конфига сервера).
type Options struct {
	// File: путь к файлу логов, пустая строка означает DefaultFile.
	File string
	// Level: debug|info|warn|error.
	Level string
	// Format: console|json.
	Format string
	// Stdout: дублировать ли логи в stdout.
	Stdout bool
	// MaxSizeMB, MaxBackups, MaxAgeDays: параметры ротации lumberjack.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewHTTPLogger создаёт файловый zap-логгер с параметрами по умолчанию.
//
// Логи записываются в файл runtime/logs/http.log.
// Для файлов включена ротация (MaxSize/MaxBackups/MaxAge) и сжатие архивов.
// Формат времени: "HH:MM:SS DD.MM.YYYY".
func NewHTTPLogger() *HTTPLogger {
	return New(Options{})
}

// New создаёт логгер по переданным опциям.
func New(opts Options) *HTTPLogger {
	if opts.File == "" {
		opts.File = DefaultFile
	}
	if opts.MaxSizeMB == 0 {
		opts.MaxSizeMB = 100 // MB ≈ ~300 000 строк
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 10
	}
	if opts.MaxAgeDays == 0 {
		opts.MaxAgeDays = 30
	}
	_ = os.MkdirAll(filepath.Dir(opts.File), 0755)

	// lumberjack отвечает за ротацию файлов
	writer := zapcore.AddSync(&lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   true,
	})
	if opts.Stdout {
		writer = zapcore.NewMultiWriteSyncer(writer, zapcore.AddSync(os.Stdout))
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "ts"
	encoderCfg.EncodeTime = customTimeEncoder

	// по умолчанию обычный текст
	encoder := zapcore.NewConsoleEncoder(encoderCfg)
	if opts.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encoderCfg)
	}

	core := zapcore.NewCore(encoder, writer, parseLevel(opts.Level))

	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))

	return &HTTPLogger{Logger: logger}
}

// NewNop возвращает логгер, который ничего не пишет (для тестов).
func NewNop() *HTTPLogger {
	return &HTTPLogger{Logger: zap.NewNop()}
}

// LogRequest записывает структурированный лог об HTTP-запросе.
//
// method и uri: параметры запроса,
// status: HTTP-статус ответа,
// responseSize: размер ответа в байтах,
// duration: длительность обработки запроса в миллисекундах.
// extra добавляются к записи как есть (request_id, remote_addr).
func (logger *HTTPLogger) LogRequest(method, uri string, status, responseSize int, duration float64, extra ...zap.Field) {
	fields := append([]zap.Field{
		zap.String("method", method),
		zap.String("uri", uri),
		zap.Int("status", status),
		zap.Int("response_size", responseSize),
		zap.Float64("duration_ms", duration),
	}, extra...)

	switch {
	case status >= http.StatusInternalServerError:
		logger.Error("HTTP request", fields...)
	default:
		logger.Info("HTTP request", fields...)
	}
}

// parseLevel переводит строку уровня в zapcore.Level, неизвестное значение: info.
func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// customTimeEncoder форматирует время для логов в виде "HH:MM:SS DD.MM.YYYY".
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05 02.01.2006"))
}
