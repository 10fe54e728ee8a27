package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

const (
	markerDone      = "[✓]"
	markerInfo      = "[*]"
	markerImportant = "[#]"
	markerError     = "[!]"
	fieldIndent     = "  "
)

// presenter renders user-facing status lines. Colour is decided per writer,
// so output captured in a buffer is always plain.
type presenter struct {
	w              io.Writer
	doneColor      *color.Color
	infoColor      *color.Color
	importantColor *color.Color
	errorColor     *color.Color
	labelColor     *color.Color
	valueColor     *color.Color
}

func newPresenter(w io.Writer) *presenter {
	p := &presenter{
		w:              w,
		doneColor:      color.New(color.Bold, color.FgGreen),
		infoColor:      color.New(color.Bold, color.FgCyan),
		importantColor: color.New(color.Bold, color.FgYellow),
		errorColor:     color.New(color.Bold, color.FgRed),
		labelColor:     color.New(color.Bold),
		valueColor:     color.New(color.Italic),
	}
	colorize := isTerminal(w)
	for _, c := range []*color.Color{p.doneColor, p.infoColor, p.importantColor, p.errorColor, p.labelColor, p.valueColor} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *presenter) status(marker *color.Color, text, message string) {
	fmt.Fprintf(p.w, "%s %s\n", marker.Sprint(text), message)
}

func (p *presenter) done(message string) { p.status(p.doneColor, markerDone, message) }

func (p *presenter) info(message string) { p.status(p.infoColor, markerInfo, message) }

func (p *presenter) important(message string) { p.status(p.importantColor, markerImportant, message) }

func (p *presenter) failure(message string) { p.status(p.errorColor, markerError, message) }

// quote renders a user-supplied value the way every message shows it.
func (p *presenter) quote(value string) string {
	return p.valueColor.Sprintf("'%s'", value)
}

// field prints one indented "Label: 'value'" detail line.
func (p *presenter) field(label, value string) {
	fmt.Fprintf(p.w, "%s%s %s\n", fieldIndent, p.labelColor.Sprint(label+":"), p.quote(value))
}

// entry prints one indented "#index: 'value'" listing line.
func (p *presenter) entry(index int, value string) {
	fmt.Fprintf(p.w, "%s%s %s\n", fieldIndent, p.labelColor.Sprintf("#%d:", index), p.quote(value))
}

func (p *presenter) block(text string) {
	fmt.Fprintln(p.w, text)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
