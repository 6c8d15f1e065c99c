package logger

import (
	"os"
	"time"

	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

// SetupLogger 初始化日志配置：控制台 + 滚动日志文件
func SetupLogger() error {
	logDir := "logs"
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}

	// 日志文件按大小滚动，保留最近的备份
	file := &lumberjack.Logger{
		Filename:   logDir + "/server.log",
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     28, // 天
		Compress:   true,
	}

	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.DateTime,
	}

	zerolog.TimeFieldFormat = time.DateTime
	multi := zerolog.MultiLevelWriter(console, file)
	log = zerolog.New(multi).With().Timestamp().Logger()

	return nil
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

// Debug 记录调试级别的日志
func Debug(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}
