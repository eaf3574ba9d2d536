package logging

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNamedAndWith(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Named("guide").With(Pax(6)).Debug("guide costs", Day(2))
	With(zap.String("session", "s-1")).Info("quotation calculated")

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	require.Equal(t, "guide", entries[0].LoggerName)
	require.Equal(t, int64(6), entries[0].ContextMap()["pax"])
	require.Equal(t, int64(2), entries[0].ContextMap()["day"])
	require.Empty(t, entries[1].LoggerName)
	require.Equal(t, "s-1", entries[1].ContextMap()["session"])
}

func TestSetLoggerNil(t *testing.T) {
	SetLogger(nil)
	require.NotNil(t, Logger)
	Warn("dropped", Lookup("hotel_rate", "Amman/4/Ghost"))
}

func TestInitializeWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quote.log")
	require.NoError(t, Initialize(Config{Level: "debug", Format: "json", Output: path}))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Info("rate tables loaded")
	Sync()
	require.FileExists(t, path)

	require.Error(t, Initialize(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")}))
}
