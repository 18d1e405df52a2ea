// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logbuf

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestLevelFiltering(t *testing.T) {
	l := New()
	l.Debug("hidden", nil)
	l.Info("shown", nil)
	l.Warn("careful", nil)
	l.Error("broken", nil, nil)

	logs := l.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, "shown", logs[0].Message)
	assert.Equal(t, LevelInfo, logs[0].Level)
	assert.Equal(t, LevelError, logs[2].Level)
}

func TestSetLevelIsNotRetroactive(t *testing.T) {
	l := New(WithLevel(LevelDebug))
	l.Debug("before", nil)
	l.SetLevel(LevelWarn)
	l.Debug("after", nil)
	l.Info("after info", nil)

	logs := l.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "before", logs[0].Message)
	assert.Equal(t, LevelWarn, l.Level())
}

func TestLogsMinLevel(t *testing.T) {
	l := New(WithLevel(LevelDebug))
	l.Debug("d", nil)
	l.Info("i", nil)
	l.Warn("w", nil)
	l.Error("e", nil, errors.New("boom"))

	assert.Len(t, l.Logs(), 4)
	assert.Len(t, l.Logs(LevelWarn), 2)
	assert.Len(t, l.Logs(LevelError), 1)
	// Filtering does not mutate the buffer.
	assert.Equal(t, 4, l.Len())
}

func TestEvictionKeepsNewest(t *testing.T) {
	l := New()
	for i := 0; i < DefaultCapacity+1; i++ {
		l.Info(fmt.Sprintf("entry %d", i), nil)
	}

	logs := l.Logs()
	require.Len(t, logs, DefaultCapacity)
	assert.Equal(t, "entry 1", logs[0].Message, "oldest entry should be evicted")
	for i, e := range logs {
		assert.Equal(t, fmt.Sprintf("entry %d", i+1), e.Message)
	}
}

func TestEvictionWrapsRepeatedly(t *testing.T) {
	l := New(WithCapacity(3))
	for i := 0; i < 10; i++ {
		l.Info(fmt.Sprintf("m%d", i), nil)
		assert.LessOrEqual(t, l.Len(), 3)
	}

	var got []string
	for _, e := range l.Logs() {
		got = append(got, e.Message)
	}
	assert.Equal(t, []string{"m7", "m8", "m9"}, got)
}

func TestClear(t *testing.T) {
	l := New(WithCapacity(2))
	l.Info("a", nil)
	l.Info("b", nil)
	l.Info("c", nil)
	l.Clear()
	assert.Equal(t, 0, l.Len())
	assert.Empty(t, l.Export())

	l.Info("d", nil)
	logs := l.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, "d", logs[0].Message)
}

func TestTimestampsAreMonotonic(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	times := []time.Time{base, base.Add(-time.Hour), base.Add(time.Second)}
	i := 0
	l := New(WithClock(func() time.Time {
		ts := times[i]
		i++
		return ts
	}))

	l.Info("first", nil)
	l.Info("clock went backwards", nil)
	l.Info("third", nil)

	logs := l.Logs()
	require.Len(t, logs, 3)
	for j := 1; j < len(logs); j++ {
		assert.False(t, logs[j].Timestamp.Before(logs[j-1].Timestamp))
	}
	assert.Equal(t, base, logs[1].Timestamp)
}

func TestContextIsCopied(t *testing.T) {
	l := New()
	ctx := map[string]any{"file": "a.md"}
	l.Info("staged", ctx)
	ctx["file"] = "changed.md"

	assert.Equal(t, "a.md", l.Logs()[0].Context["file"])
}

func TestExport(t *testing.T) {
	l := New(WithClock(stepClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))))
	l.Info("conversion started", nil)
	l.Warn("unexpected MIME type", map[string]any{"mime": "image/png"})
	l.Error("conversion failed", nil, errors.New("markitdown exited 1"))

	out := l.Export()
	blocks := strings.Split(out, "\n\n")
	require.Len(t, blocks, 3)

	assert.Equal(t, "[2026-03-01T12:00:01Z] INFO: conversion started", blocks[0])
	assert.Contains(t, blocks[1], "WARN: unexpected MIME type")
	assert.Contains(t, blocks[1], "Context: {\n  \"mime\": \"image/png\"\n}")
	assert.Contains(t, blocks[2], "ERROR: conversion failed")
	assert.Contains(t, blocks[2], "Error: markitdown exited 1")
	assert.Contains(t, blocks[2], "Stack: ")
}

func TestWriteTo(t *testing.T) {
	l := New()
	l.Info("hello", nil)
	var buf bytes.Buffer
	n, err := l.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Contains(t, buf.String(), "INFO: hello")
}

func TestConsoleMirror(t *testing.T) {
	var console bytes.Buffer
	l := New(WithConsole(&console))
	l.Debug("filtered", nil)
	l.Warn("mirrored", map[string]any{"ext": "txt"})

	out := console.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "msg=mirrored")
	assert.Contains(t, out, "ext=txt")
}

func TestSetMirrorNilStopsMirroring(t *testing.T) {
	var console bytes.Buffer
	l := New(WithConsole(&console))
	l.SetMirror(nil)
	l.Warn("kept only in memory", nil)

	assert.Empty(t, console.String())
	assert.Equal(t, 1, l.Len())
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing", nil, errors.New("x"))
	assert.Equal(t, 0, l.Len())
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"Error", LevelError, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
