package render

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Printer writes operator-facing output. Status and good lines go to the
// output stream; error lines go to the error stream. Writes are serialised so
// one message is never interleaved with another.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
	err io.Writer

	status lipgloss.Style
	good   lipgloss.Style
	bad    lipgloss.Style
}

// NewPrinter creates a printer. Colour is used only when color is true.
func NewPrinter(out, errOut io.Writer, color bool) *Printer {
	p := &Printer{out: out, err: errOut}

	r := lipgloss.NewRenderer(out)
	if !color {
		r.SetColorProfile(termenv.Ascii)
		p.status, p.good, p.bad = r.NewStyle(), r.NewStyle(), r.NewStyle()
		return p
	}

	r.SetColorProfile(termenv.ANSI256)
	p.status = r.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	p.good = r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	p.bad = r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	return p
}

// ColorEnabled reports whether w is a terminal and NO_COLOR is unset.
func ColorEnabled(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Line prints a formatted line without a prefix.
func (p *Printer) Line(format string, a ...any) {
	p.write(p.out, fmt.Sprintf(format, a...)+"\n")
}

// Blank prints an empty line.
func (p *Printer) Blank() {
	p.write(p.out, "\n")
}

// Raw writes text exactly as given.
func (p *Printer) Raw(text string) {
	p.write(p.out, text)
}

// Status prints an informational "[*]" line.
func (p *Printer) Status(format string, a ...any) {
	p.write(p.out, p.status.Render("[*]")+" "+fmt.Sprintf(format, a...)+"\n")
}

// Good prints a "[+]" success line.
func (p *Printer) Good(format string, a ...any) {
	p.write(p.out, p.good.Render("[+]")+" "+fmt.Sprintf(format, a...)+"\n")
}

// Error prints a "[-]" line on the error stream.
func (p *Printer) Error(format string, a ...any) {
	p.write(p.err, p.bad.Render("[-]")+" "+fmt.Sprintf(format, a...)+"\n")
}

// Table prints t preceded by a blank line, or a "No data" status when t has
// no rows.
func (p *Printer) Table(t *Table) {
	if t.Empty() {
		title := ""
		if t != nil && t.Title != "" {
			title = " for " + t.Title
		}
		p.Status("No data%s", title)
		return
	}
	p.write(p.out, "\n"+t.String()+"\n")
}

func (p *Printer) write(w io.Writer, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	io.WriteString(w, s)
}
