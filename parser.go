package md2doc

import (
	"strings"
	"unicode"
)

// indentUnit is the number of leading spaces that advance a list item
// one nesting depth.
const indentUnit = 2

// Parse tokenizes raw Markdown text into an ordered block sequence.
// Input is assumed to be UTF-8; use ValidateInput ahead of Parse when
// the source is untrusted. Parse never fails: malformed constructs
// degrade to paragraphs or literal text.
func Parse(text string) Document {
	p := blockParser{}
	for _, line := range stripFrontMatter(splitLines(text)) {
		p.feedLine(line)
	}
	p.finish()
	return Document{Blocks: p.blocks}
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	// A trailing newline produces one empty trailing element, not a line.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines
}

type blockParser struct {
	blocks []Block

	inFence    bool
	fenceLines []string

	paraLines  []string
	quoteLines []string
}

func (p *blockParser) feedLine(line string) {
	if p.inFence {
		if strings.TrimSpace(line) == "```" {
			p.closeFence()
			return
		}
		p.fenceLines = append(p.fenceLines, line)
		return
	}

	if strings.TrimSpace(line) == "" {
		p.flushText()
		return
	}

	trimmed := strings.TrimLeft(line, " \t")

	if strings.HasPrefix(trimmed, "```") {
		p.flushText()
		p.inFence = true
		p.fenceLines = nil
		return
	}

	if isRuleLine(trimmed) {
		p.flushText()
		p.blocks = append(p.blocks, Block{Kind: BlockRule})
		return
	}

	if level, rest, ok := headingLine(trimmed); ok {
		p.flushText()
		p.blocks = append(p.blocks, Block{Kind: BlockHeading, Level: level, Text: rest})
		return
	}

	if strings.HasPrefix(trimmed, ">") {
		p.flushPara()
		// Strip the marker and at most one following space; the rest of
		// the line is kept verbatim.
		rest := strings.TrimPrefix(trimmed[1:], " ")
		p.quoteLines = append(p.quoteLines, rest)
		return
	}

	if ordered, rest, ok := listLine(trimmed); ok {
		p.flushText()
		depth := leadingSpaces(line) / indentUnit
		if depth < 0 {
			depth = 0
		}
		p.blocks = append(p.blocks, Block{Kind: BlockListItem, Ordered: ordered, Depth: depth, Text: rest})
		return
	}

	p.flushQuote()
	p.paraLines = append(p.paraLines, strings.TrimSpace(line))
}

func (p *blockParser) finish() {
	if p.inFence {
		// Unterminated fence still closes at end of input.
		p.closeFence()
	}
	p.flushText()
}

func (p *blockParser) closeFence() {
	p.blocks = append(p.blocks, Block{Kind: BlockCode, Lines: p.fenceLines})
	p.inFence = false
	p.fenceLines = nil
}

func (p *blockParser) flushText() {
	p.flushPara()
	p.flushQuote()
}

func (p *blockParser) flushPara() {
	if len(p.paraLines) == 0 {
		return
	}
	p.blocks = append(p.blocks, Block{Kind: BlockParagraph, Text: strings.Join(p.paraLines, " ")})
	p.paraLines = nil
}

func (p *blockParser) flushQuote() {
	if len(p.quoteLines) == 0 {
		return
	}
	p.blocks = append(p.blocks, Block{Kind: BlockBlockquote, Text: strings.Join(p.quoteLines, " ")})
	p.quoteLines = nil
}

// headingLine reports whether trimmed starts a heading. Seven or more
// hash marks, or a missing trailing space (including a bare marker line
// like "##"), is not a heading; the caller falls through to the
// paragraph rule so the markers stay literal.
func headingLine(trimmed string) (level int, text string, ok bool) {
	n := 0
	for n < len(trimmed) && trimmed[n] == '#' {
		n++
	}
	if n < 1 || n > 6 {
		return 0, "", false
	}
	if n >= len(trimmed) || (trimmed[n] != ' ' && trimmed[n] != '\t') {
		return 0, "", false
	}
	return n, strings.TrimSpace(trimmed[n:]), true
}

// listLine reports whether trimmed starts a list item and returns the
// item text with the marker stripped.
func listLine(trimmed string) (ordered bool, text string, ok bool) {
	if len(trimmed) >= 2 && (trimmed[0] == '-' || trimmed[0] == '*' || trimmed[0] == '+') &&
		(trimmed[1] == ' ' || trimmed[1] == '\t') {
		return false, strings.TrimSpace(trimmed[2:]), true
	}
	i := 0
	for i < len(trimmed) && trimmed[i] >= '0' && trimmed[i] <= '9' {
		i++
	}
	if i > 0 && i+1 < len(trimmed) && trimmed[i] == '.' &&
		(trimmed[i+1] == ' ' || trimmed[i+1] == '\t') {
		return true, strings.TrimSpace(trimmed[i+2:]), true
	}
	return false, "", false
}

// isRuleLine reports whether trimmed is a horizontal rule: three or
// more of the same marker character, optionally space-separated.
func isRuleLine(trimmed string) bool {
	var marker rune
	count := 0
	for _, r := range trimmed {
		if unicode.IsSpace(r) {
			continue
		}
		if r != '-' && r != '*' && r != '_' {
			return false
		}
		if marker == 0 {
			marker = r
		} else if r != marker {
			return false
		}
		count++
	}
	return count >= 3
}

func leadingSpaces(line string) int {
	n := 0
	for n < len(line) && line[n] == ' ' {
		n++
	}
	return n
}
