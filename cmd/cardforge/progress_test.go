package main

import (
	"bytes"
	"strings"
	"testing"

	colorize "github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestProgressBarLine(t *testing.T) {
	colorize.NoColor = true

	tests := []struct {
		name     string
		current  int
		total    int
		message  string
		contains string
		filled   int
	}{
		{name: "start", current: 0, total: 4, message: "ace", contains: " 0/4 ace", filled: 0},
		{name: "half", current: 2, total: 4, message: "two", contains: " 2/4 two", filled: 10},
		{name: "done", current: 4, total: 4, message: "", contains: " 4/4 ", filled: 20},
		{name: "empty export", current: 0, total: 0, message: "", contains: " 0/0 ", filled: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &progressBar{width: 60}
			line := b.line(tt.current, tt.total, tt.message)
			assert.Contains(t, line, tt.contains)
			assert.Equal(t, tt.filled, strings.Count(line, "="))
			assert.Equal(t, 60-1, len([]rune(line)))
		})
	}
}

func TestProgressBarTruncatesMessage(t *testing.T) {
	colorize.NoColor = true

	b := &progressBar{width: 40}
	line := b.line(1, 2, strings.Repeat("x", 100))
	assert.Equal(t, 40-1, len([]rune(line)))
}

func TestProgressBarWritesInPlace(t *testing.T) {
	colorize.NoColor = true

	var buf bytes.Buffer
	b := &progressBar{out: &buf, width: 40}
	b.Done()
	assert.Empty(t, buf.String())

	b.Update(1, 2, "one")
	b.Update(2, 2, "two")
	b.Done()
	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"))
	assert.True(t, strings.HasSuffix(out, "\n"))
}
