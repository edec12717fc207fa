package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
)

// log 全局日志实例，未调用SetupLogger时只输出到控制台
var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}).
	With().Timestamp().Logger()

// Options 日志配置
type Options struct {
	Dir   string // 日志目录，为空时不写文件
	Level string // debug, info, warn, error
}

// SetupLogger 初始化日志配置：同时输出到控制台和按日期命名的日志文件
func SetupLogger(opts Options) error {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.DateTime}}

	if opts.Dir != "" {
		// 创建日志目录
		if err := os.MkdirAll(opts.Dir, 0755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}

		// 生成当前日期的日志文件名
		logFileName := filepath.Join(opts.Dir, fmt.Sprintf("%s.log", time.Now().Format("2006-01-02")))
		logFile, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("打开日志文件失败: %w", err)
		}
		writers = append(writers, logFile)
	}

	log = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().Timestamp().Logger()
	return nil
}

// Get 返回底层的zerolog实例，用于结构化字段输出
func Get() *zerolog.Logger {
	return &log
}

// Debug 记录调试级别的日志
func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

// Info 记录信息级别的日志
func Info(format string, v ...interface{}) {
	log.Info().Msgf(format, v...)
}

// Warning 记录警告级别的日志
func Warning(format string, v ...interface{}) {
	log.Warn().Msgf(format, v...)
}

// Error 记录错误级别的日志
func Error(format string, v ...interface{}) {
	log.Error().Msgf(format, v...)
}

// Fatal 记录错误并退出进程
func Fatal(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}
