// Package plaintext renders assembled documents as wrapped plain text
// for terminal preview and debugging. Fonts and point sizes do not
// apply; alignment, spacing-in-lines, and structure are preserved.
package plaintext

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"

	"github.com/yourq1021/md2doc"
)

const defaultWidth = 80

// listIndent is the number of spaces per list nesting depth.
const listIndent = 2

// Writer implements md2doc.DocumentSink over an io.Writer. Output is
// written as blocks arrive, so a write failure surfaces from the Add
// call that hit it.
type Writer struct {
	w     io.Writer
	width int
	began bool
}

// NewWriter returns a plain text sink wrapping at width columns. A
// non-positive width falls back to 80.
func NewWriter(w io.Writer, width int) *Writer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Writer{w: w, width: width}
}

// BeginDocument starts a new document. Page geometry has no plain text
// equivalent and is ignored.
func (p *Writer) BeginDocument(md2doc.PageGeometry) error {
	if p.began {
		return errors.New("plaintext: document already begun")
	}
	p.began = true
	return nil
}

// SetHeader writes the page header once at the top of the output.
func (p *Writer) SetHeader(text string, style md2doc.StyleSpec) error {
	return p.writeBlock(p.aligned(text, style.Alignment), style)
}

// AddHeading writes a heading, centered when its style says so.
func (p *Writer) AddHeading(level int, runs []md2doc.StyledRun) error {
	text := joinRuns(runs)
	style := blockStyle(runs)
	return p.writeBlock(p.aligned(text, style.Alignment), style)
}

// AddParagraph writes a word-wrapped paragraph.
func (p *Writer) AddParagraph(runs []md2doc.StyledRun) error {
	return p.writeBlock(wordwrap.String(joinRuns(runs), p.width), blockStyle(runs))
}

// AddListItem writes one marker-prefixed, depth-indented item.
func (p *Writer) AddListItem(ordered bool, depth int, runs []md2doc.StyledRun) error {
	marker := "- "
	if ordered {
		marker = "1. "
	}
	pad := depth * listIndent
	wrapped := wordwrap.String(marker+joinRuns(runs), p.width-pad)
	return p.writeBlock(indent.String(wrapped, uint(pad)), blockStyle(runs))
}

// AddBlockquote writes quoted text with a "> " prefix on every line.
func (p *Writer) AddBlockquote(runs []md2doc.StyledRun) error {
	wrapped := wordwrap.String(joinRuns(runs), p.width-2)
	lines := strings.Split(wrapped, "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return p.writeBlock(strings.Join(lines, "\n"), blockStyle(runs))
}

// AddCodeBlock writes literal lines indented by four spaces, unwrapped.
func (p *Writer) AddCodeBlock(lines []string, style md2doc.StyleSpec) error {
	return p.writeBlock(indent.String(strings.Join(lines, "\n"), 4), style)
}

// AddHorizontalRule writes a full-width dash line.
func (p *Writer) AddHorizontalRule() error {
	return p.writeBlock(strings.Repeat("-", p.width), md2doc.StyleSpec{})
}

// Finalize completes the document. Plain text needs no trailer.
func (p *Writer) Finalize() error {
	if !p.began {
		return errors.New("plaintext: document not begun")
	}
	return nil
}

func (p *Writer) writeBlock(text string, style md2doc.StyleSpec) error {
	if !p.began {
		return errors.New("plaintext: document not begun")
	}
	for i := 0.0; i < style.SpacingBeforeLines; i++ {
		if _, err := io.WriteString(p.w, "\n"); err != nil {
			return fmt.Errorf("plaintext: %w", err)
		}
	}
	if _, err := io.WriteString(p.w, text+"\n"); err != nil {
		return fmt.Errorf("plaintext: %w", err)
	}
	blank := style.SpacingAfterLines
	if blank < 1 {
		blank = 1
	}
	for i := 0.0; i < blank; i++ {
		if _, err := io.WriteString(p.w, "\n"); err != nil {
			return fmt.Errorf("plaintext: %w", err)
		}
	}
	return nil
}

// aligned centers text by display width so double-width CJK runes pad
// correctly.
func (p *Writer) aligned(text string, align md2doc.Alignment) string {
	if align != md2doc.AlignCenter {
		return text
	}
	pad := (p.width - runewidth.StringWidth(text)) / 2
	if pad <= 0 {
		return text
	}
	return strings.Repeat(" ", pad) + text
}

func joinRuns(runs []md2doc.StyledRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func blockStyle(runs []md2doc.StyledRun) md2doc.StyleSpec {
	if len(runs) == 0 {
		return md2doc.StyleSpec{}
	}
	return runs[0].Style
}
