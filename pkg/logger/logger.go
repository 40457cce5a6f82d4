package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/dreschagin/chaos-dashboard/internal/application/port"
)

type Logger struct {
	logger    *log.Logger
	level     Level
	publisher atomic.Pointer[publisherHolder]
}

type publisherHolder struct {
	publisher port.LogPublisher
}

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
)

// publishTimeout ограничивает время передачи записи во внешнюю систему
const publishTimeout = 2 * time.Second

func New(level string) *Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter создает logger, пишущий в произвольный writer
func NewWithWriter(level string, w io.Writer) *Logger {
	return &Logger{
		logger: log.New(w, "", 0),
		level:  parseLevel(level),
	}
}

// SetLogPublisher подключает отправку записей во внешнюю систему (CloudWatch Logs).
// nil отключает отправку.
func (l *Logger) SetLogPublisher(publisher port.LogPublisher) {
	if publisher == nil {
		l.publisher.Store(nil)
		return
	}
	l.publisher.Store(&publisherHolder{publisher: publisher})
}

func parseLevel(level string) Level {
	switch level {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn":
		return WARN
	case "error":
		return ERROR
	default:
		return INFO
	}
}

func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.level <= DEBUG {
		l.log(port.LogLevelDebug, msg, args...)
	}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	if l.level <= INFO {
		l.log(port.LogLevelInfo, msg, args...)
	}
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.level <= WARN {
		l.log(port.LogLevelWarn, msg, args...)
	}
}

func (l *Logger) Error(msg string, err error, args ...interface{}) {
	if l.level <= ERROR {
		if err != nil {
			args = append(args, "error", err.Error())
		}
		l.log(port.LogLevelError, msg, args...)
	}
}

func (l *Logger) log(level port.LogLevel, msg string, args ...interface{}) {
	now := time.Now()
	message := fmt.Sprintf("[%s] [%s] %s", now.Format("2006-01-02 15:04:05"), level, msg)

	if len(args) > 0 {
		message += " |"
		for i := 0; i < len(args); i += 2 {
			if i+1 < len(args) {
				message += fmt.Sprintf(" %v=%v", args[i], args[i+1])
			}
		}
	}

	l.logger.Println(message)

	if holder := l.publisher.Load(); holder != nil {
		l.forward(holder.publisher, port.LogEntry{
			Timestamp: now,
			Level:     level,
			Message:   msg,
			Fields:    fieldsFromArgs(args),
		})
	}
}

// forward не должен логировать через l: publisher сам может вызвать logger
func (l *Logger) forward(publisher port.LogPublisher, entry port.LogEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := publisher.Publish(ctx, entry); err != nil {
		l.logger.Println(fmt.Sprintf("[%s] [%s] log publish failed | error=%v",
			time.Now().Format("2006-01-02 15:04:05"), port.LogLevelWarn, err))
	}
}

func fieldsFromArgs(args []interface{}) map[string]interface{} {
	if len(args) < 2 {
		return nil
	}

	fields := make(map[string]interface{}, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		fields[fmt.Sprint(args[i])] = args[i+1]
	}
	return fields
}
