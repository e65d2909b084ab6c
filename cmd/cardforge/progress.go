package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"golang.org/x/term"
)

type progressBar struct {
	out   io.Writer
	width int
	drawn bool
}

func newProgressBar(out *os.File) *progressBar {
	width, _, err := term.GetSize(int(out.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	return &progressBar{out: out, width: width}
}

// Update redraws the bar in place. It matches export.Progress.
func (b *progressBar) Update(current, total int, message string) {
	fmt.Fprint(b.out, "\r"+b.line(current, total, message))
	b.drawn = true
}

func (b *progressBar) Done() {
	if b.drawn {
		fmt.Fprintln(b.out)
	}
}

func (b *progressBar) line(current, total int, message string) string {
	counter := fmt.Sprintf(" %d/%d ", current, total)
	barWidth := b.width / 3
	if barWidth < 10 {
		barWidth = 10
	}

	filled := 0
	if total > 0 {
		filled = barWidth * current / total
	}
	if filled > barWidth {
		filled = barWidth
	}

	room := b.width - barWidth - len(counter) - 3
	if room < 0 {
		room = 0
	}
	if r := []rune(message); len(r) > room {
		message = string(r[:room])
	}

	return "[" + colorize.GreenString(strings.Repeat("=", filled)) + strings.Repeat(" ", barWidth-filled) + "]" +
		counter + message + strings.Repeat(" ", room-len([]rune(message)))
}
