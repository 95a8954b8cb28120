package logger

import (
	"context"
	"fmt"
	"time"

	common_models "go-bighil/internal/common/models"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap/zapcore"
)

// LogEntry holds the data passed from Zap to the worker
type LogEntry struct {
	Level       zapcore.Level
	Message     string
	IpAddress   string
	ComplaintID string
	ActorID     string
	Caller      string
}

// DBLogWriter persists log entries off the request path.
type DBLogWriter struct {
	col     *mongo.Collection
	logChan chan LogEntry
}

func NewDBLogWriter(db *mongo.Database) *DBLogWriter {
	writer := &DBLogWriter{
		col:     db.Collection("logs"),
		logChan: make(chan LogEntry, 1000),
	}

	go writer.processLogs()

	return writer
}

// AddLog never blocks; a full buffer drops the entry.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	select {
	case w.logChan <- entry:
	default:
		fmt.Println("DB Log Channel Full! Dropping log:", entry.Message)
	}
}

func (w *DBLogWriter) processLogs() {
	for entry := range w.logChan {
		record := common_models.Log{
			Message:      entry.Message,
			IpAddress:    entry.IpAddress,
			ComplaintID:  entry.ComplaintID,
			ActorID:      entry.ActorID,
			Caller:       entry.Caller,
			LogLevelId:   mapLevelToInt(entry.Level),
			CreatedOnUtc: time.Now().UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = w.col.InsertOne(ctx, record)
		cancel()
	}
}

func mapLevelToInt(l zapcore.Level) int {
	switch l {
	case zapcore.DebugLevel:
		return 10
	case zapcore.InfoLevel:
		return 20
	case zapcore.WarnLevel:
		return 30
	case zapcore.ErrorLevel:
		return 40
	case zapcore.FatalLevel:
		return 50
	default:
		return 20
	}
}
