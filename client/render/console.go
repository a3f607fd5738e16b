package render

import (
	"fmt"
	"io"
	"strings"
)

const barWidth = 30

// Console is a line-oriented View for terminals. Progress lines are only
// written when the percentage or step changes.
type Console struct {
	out         io.Writer
	resolveURL  func(string) string
	lastPercent int
	lastStep    string
}

// NewConsole writes to out. resolveURL, if set, turns server-relative
// download links into absolute ones.
func NewConsole(out io.Writer, resolveURL func(string) string) *Console {
	return &Console{
		out:         out,
		resolveURL:  resolveURL,
		lastPercent: -1,
	}
}

func (c *Console) ShowSelection(name, size string) {
	fmt.Fprintf(c.out, "Selected %s (%s)\n", name, size)
}

func (c *Console) Notify(message string) {
	fmt.Fprintln(c.out, message)
}

func (c *Console) SetSubmit(enabled bool, label string) {
	if enabled {
		return
	}
	fmt.Fprintln(c.out, label)
}

func (c *Console) ShowProgressView() {
	fmt.Fprintln(c.out, "Upload complete, processing video...")
}

func (c *Console) UpdateProgress(progress int, step string) {
	if progress == c.lastPercent && step == c.lastStep {
		return
	}
	c.lastPercent = progress
	c.lastStep = step
	fmt.Fprintf(c.out, "%s %3d%% %s\n", Bar(progress), progress, step)
}

func (c *Console) ShowCompleted(downloadURL string) {
	if c.resolveURL != nil {
		downloadURL = c.resolveURL(downloadURL)
	}
	fmt.Fprintf(c.out, "Dubbing completed. Download: %s\n", downloadURL)
}

func (c *Console) ShowFailed(message string) {
	fmt.Fprintf(c.out, "Dubbing failed: %s\n", message)
}

// Bar draws a fixed-width progress bar for a 0-100 percentage.
func Bar(progress int) string {
	filled := progress * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(" ", barWidth-filled) + "]"
}
