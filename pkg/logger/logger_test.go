package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetReturnsSameInstance(t *testing.T) {
	l1 := Get(0)
	l2 := Get(0)
	require.NotNil(t, l1)
	assert.Same(t, l1, l2)
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, sync := New(Options{Output: &buf})
	log.Info("packed", ViewKey, "book", "visible", 7)
	sync()

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "packed", entry[MessageKey])
	assert.Equal(t, "book", entry[ViewKey])
	assert.EqualValues(t, 7, entry["visible"])
	assert.Contains(t, entry, CommitKey)
	assert.Contains(t, entry, TimeStampKey)
}

func TestNew_ConsoleFormatAndVerbosity(t *testing.T) {
	var buf bytes.Buffer
	log, sync := New(Options{Output: &buf, Format: "console", Level: -1})
	log.Info("ready")
	log.V(1).Info("recomputed")
	log.V(2).Info("hidden")
	sync()

	out := buf.String()
	assert.Contains(t, out, "recomputed")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookgrid.log")
	f, err := OpenFile(path)
	require.NoError(t, err)

	log, sync := New(Options{Output: f})
	log.Info("to file")
	sync()
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing", "x.log"))
	assert.Error(t, err)
}

func TestWithLogger(t *testing.T) {
	l := logr.Discard()
	ctx := WithLogger(context.Background(), &l)
	assert.Same(t, &l, FromContext(ctx))
	assert.Equal(t, ctx, WithLogger(ctx, &l), "same logger keeps the context")

	other := logr.Discard()
	assert.Same(t, &other, FromContext(WithLogger(ctx, &other)))
}

func TestFromContextFallbacks(t *testing.T) {
	orig := globalLogrLogger
	defer func() { globalLogrLogger = orig }()

	globalLogrLogger = nil
	assert.Same(t, &defaultNoopLogger, FromContext(context.Background()))

	g := logr.Discard()
	globalLogrLogger = &g
	assert.Same(t, &g, FromContext(context.Background()))
}

func TestSyncWithoutLogger(t *testing.T) {
	orig := globalZapLogger
	globalZapLogger = nil
	defer func() { globalZapLogger = orig }()

	assert.NotPanics(t, Sync)
}

func TestIsIgnorableSyncError(t *testing.T) {
	assert.True(t, isIgnorableSyncError(&os.PathError{Op: "sync", Path: "/dev/stderr", Err: syscall.ENOTTY}))
	assert.True(t, isIgnorableSyncError(errors.New("sync /dev/stderr: The handle is invalid.")))
	assert.False(t, isIgnorableSyncError(errors.New("disk full")))
}
