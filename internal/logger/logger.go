package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const appName = "inkpress"

// Options 日志输出配置，零值字段使用默认值
type Options struct {
	// Level debug/info/warn/error，为空时 debug 模式用 debug，其余用 info
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Console 非 debug 模式下是否同时输出到 stdout（容器部署常用）
	Console bool
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Dir) == "" {
		o.Dir = "logs"
	}
	if strings.TrimSpace(o.Filename) == "" {
		o.Filename = "app.log"
	}
	if o.MaxSizeMB <= 0 {
		o.MaxSizeMB = 100
	}
	if o.MaxBackups <= 0 {
		o.MaxBackups = 7
	}
	if o.MaxAgeDays <= 0 {
		o.MaxAgeDays = 30
	}
	return o
}

// L 全局结构化日志实例，Init 之前为 nil
var L *zap.Logger

var (
	stdoutOnce   sync.Once
	stdoutLogger *zap.Logger
)

// Init 初始化全局日志并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New 创建日志实例
// debug 模式输出彩色控制台日志；其余模式以 JSON 写入滚动文件，文件不可用时退回 stdout
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	level, err := parseLevel(options.Level, debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, using %s\n", err, level)
	}

	if debug {
		encoderCfg := encoderConfig()
		encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return newLogger(zapcore.NewCore(zapcore.NewConsoleEncoder(encoderCfg), zapcore.Lock(os.Stdout), level))
	}

	jsonEncoder := zapcore.NewJSONEncoder(encoderConfig())
	file, err := rollingFile(options.withDefaults())
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v, writing to stdout\n", err)
		return newLogger(zapcore.NewCore(jsonEncoder, zapcore.Lock(os.Stdout), level))
	}
	core := zapcore.NewCore(jsonEncoder, file, level)
	if options.Console {
		core = zapcore.NewTee(core, zapcore.NewCore(jsonEncoder.Clone(), zapcore.Lock(os.Stdout), level))
	}
	return newLogger(core)
}

func parseLevel(raw string, debug bool) (zapcore.Level, error) {
	fallback := zapcore.InfoLevel
	if debug {
		fallback = zapcore.DebugLevel
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return fallback, err
	}
	return level, nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	return cfg
}

func newLogger(core zapcore.Core) *zap.Logger {
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).With(zap.String("app", appName))
}

// rollingFile 确认目录可写后返回 lumberjack 滚动文件
func rollingFile(options Options) (zapcore.WriteSyncer, error) {
	path, err := prepareLogFile(options.Dir, options.Filename)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    options.MaxSizeMB,
		MaxBackups: options.MaxBackups,
		MaxAge:     options.MaxAgeDays,
		Compress:   options.Compress,
	}), nil
}

func prepareLogFile(dir, filename string) (string, error) {
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("log filename %q must not contain a path", filename)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	path := filepath.Join(dir, filename)
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open log file: %w", err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close log file: %w", err)
	}
	return path, nil
}

// StdLogger 适配标准库 log，供启动阶段使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(z())
}

func z() *zap.Logger {
	if L != nil {
		return L
	}
	stdoutOnce.Do(func() {
		stdoutLogger = newLogger(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig()),
			zapcore.Lock(os.Stdout),
			zapcore.InfoLevel,
		))
	})
	return stdoutLogger
}

// S 返回全局 SugaredLogger
func S() *zap.SugaredLogger {
	return z().Sugar()
}

// SW 返回附带键值对的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }
