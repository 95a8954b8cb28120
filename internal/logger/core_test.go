package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDBCoreTeesEntriesWithContextFields(t *testing.T) {
	obsCore, observed := observer.New(zapcore.InfoLevel)
	writer := &DBLogWriter{logChan: make(chan LogEntry, 4)}

	log := zap.New(NewDBCore(obsCore, writer)).With(zap.String("actorId", "a-1"))
	log.Info("status changed", zap.String("complaintId", "c-1"), zap.String("ip", "10.0.0.1"))
	log.Debug("ignored below level")

	require.Equal(t, 1, observed.Len())
	require.Len(t, writer.logChan, 1)

	entry := <-writer.logChan
	assert.Equal(t, "status changed", entry.Message)
	assert.Equal(t, "c-1", entry.ComplaintID)
	assert.Equal(t, "10.0.0.1", entry.IpAddress)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
}

func TestAddLogDropsWhenFull(t *testing.T) {
	writer := &DBLogWriter{logChan: make(chan LogEntry, 1)}
	writer.AddLog(LogEntry{Message: "first"})
	writer.AddLog(LogEntry{Message: "second"})

	assert.Len(t, writer.logChan, 1)
	assert.Equal(t, "first", (<-writer.logChan).Message)
}

func TestMapLevelToInt(t *testing.T) {
	assert.Equal(t, 40, mapLevelToInt(zapcore.ErrorLevel))
	assert.Equal(t, 20, mapLevelToInt(zapcore.DPanicLevel))
}
