package termview

import (
	"bufio"
	"io"
	"strings"

	"github.com/gdamore/tcell/v2"
)

const maxLines = 25

// Console shows the last few log lines over the board. It is toggled with
// the backtick key.
type Console struct {
	lines      [maxLines]string
	start, end int
	xscroll    int
	input      *bufio.Reader
	shown      bool
}

func MakeConsole(rdr io.Reader) *Console {
	return &Console{input: bufio.NewReader(rdr)}
}

// Think pulls in whatever has been logged since the last call.
func (c *Console) Think() {
	for line, _, err := c.input.ReadLine(); err == nil; line, _, err = c.input.ReadLine() {
		c.lines[c.end] = string(line)
		c.end = (c.end + 1) % len(c.lines)
		if c.start == c.end {
			c.start = (c.start + 1) % len(c.lines)
		}
	}
}

// Lines returns the buffered lines, oldest first.
func (c *Console) Lines() []string {
	var out []string
	for i := c.start; i != c.end; i = (i + 1) % len(c.lines) {
		out = append(out, c.lines[i])
	}
	return out
}

func (c *Console) Shown() bool {
	return c.shown
}

func (c *Console) Toggle() {
	c.shown = !c.shown
	c.xscroll = 0
}

// respond takes keys while the console is shown.
func (c *Console) respond(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyLeft:
		c.xscroll -= 10
	case tcell.KeyRight:
		c.xscroll += 10
	case tcell.KeyRune:
		if ev.Rune() != ' ' {
			return false
		}
		c.xscroll = 0
	default:
		return false
	}
	if c.xscroll < 0 {
		c.xscroll = 0
	}
	return true
}

func lineStyle(line string) tcell.Style {
	style := tcell.StyleDefault.Background(tcell.ColorPurple).Foreground(tcell.ColorWhite)
	switch {
	case strings.Contains(line, "level=WARN"):
		return style.Foreground(tcell.ColorYellow)
	case strings.Contains(line, "level=ERROR"):
		return style.Foreground(tcell.ColorRed)
	}
	return style
}

func (c *Console) draw(screen tcell.Screen, height int) {
	w, _ := screen.Size()
	lines := c.Lines()
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	for y, line := range lines {
		style := lineStyle(line)
		runes := []rune(line)
		for x := 0; x < w; x++ {
			r := ' '
			if i := x + c.xscroll; i < len(runes) {
				r = runes[i]
			}
			screen.SetContent(x, y, r, nil, style)
		}
	}
}
