package md2doc

import (
	"github.com/yourq1021/md2doc/internal/scriptclass"
)

// ScriptClass selects which of a role's two fonts applies to a run.
type ScriptClass uint8

const (
	// ScriptLatin covers ASCII letters, digits, Latin punctuation, and
	// everything else outside the CJK ranges.
	ScriptLatin ScriptClass = iota
	// ScriptCJK covers Han ideographs, kana, and CJK punctuation.
	ScriptCJK
)

func (s ScriptClass) String() string {
	if s == ScriptCJK {
		return "cjk"
	}
	return "latin"
}

// Run is a maximal contiguous span of inline text sharing one script
// class and one emphasis state. Text is never empty.
type Run struct {
	Text   string
	Script ScriptClass
	Bold   bool
	Italic bool
	Code   bool
}

// span is an emphasis-delimited stretch of inline text before script
// splitting.
type span struct {
	text   []rune
	bold   bool
	italic bool
	code   bool
}

// SegmentRuns splits raw inline text into typed runs. Markdown emphasis
// markers are consumed; unmatched markers degrade to literal text.
// Segmentation is lossless: concatenating the run texts in order
// reproduces the input with only marker characters removed.
func SegmentRuns(raw string) []Run {
	spans := inlineSpans([]rune(raw))
	runs := make([]Run, 0, len(spans))
	for _, sp := range spans {
		runs = appendScriptRuns(runs, sp)
	}
	return runs
}

// openMark remembers where an emphasis opener was consumed. The opener
// is committed on a lookahead that finds a prospective closer, but that
// closer can still be swallowed by a later code span, bold pair, or
// link; the mark lets the opener come back as literal text.
type openMark struct {
	at    int  // span index of the opener position
	seq   int  // opening order, for same-index ties
	other bool // whether the other emphasis kind was open at the time
}

func inlineSpans(rs []rune) []span {
	var (
		spans       []span
		cur         span
		boldDelim   rune
		italicDelim rune
		boldOpen    openMark
		italicOpen  openMark
		openSeq     int
	)
	flush := func() {
		if len(cur.text) > 0 {
			spans = append(spans, cur)
		}
		cur = span{bold: boldDelim != 0, italic: italicDelim != 0}
	}
	setFlags := func() {
		if len(cur.text) == 0 {
			cur.bold = boldDelim != 0
			cur.italic = italicDelim != 0
			return
		}
		if cur.bold != (boldDelim != 0) || cur.italic != (italicDelim != 0) {
			flush()
		}
	}

	i := 0
	for i < len(rs) {
		r := rs[i]

		if r == '`' {
			if j := indexRune(rs, i+1, '`'); j >= 0 {
				flush()
				if j > i+1 {
					spans = append(spans, span{
						text:   rs[i+1 : j],
						bold:   boldDelim != 0,
						italic: italicDelim != 0,
						code:   true,
					})
				}
				i = j + 1
				continue
			}
			cur.text = append(cur.text, r)
			i++
			continue
		}

		if (r == '*' || r == '_') && i+1 < len(rs) && rs[i+1] == r {
			if boldDelim == r {
				boldDelim = 0
				setFlags()
				i += 2
				continue
			}
			if boldDelim == 0 && indexPair(rs, i+2, r) >= 0 {
				boldDelim = r
				setFlags()
				openSeq++
				boldOpen = openMark{at: len(spans), seq: openSeq, other: italicDelim != 0}
				i += 2
				continue
			}
			// No closer ahead: fall through to single-marker handling
			// so the characters degrade one at a time.
		}

		if r == '*' || r == '_' {
			if italicDelim == r {
				italicDelim = 0
				setFlags()
				i++
				continue
			}
			// An immediately adjacent closer would make an empty span;
			// treat both characters as literal instead.
			if italicDelim == 0 && indexRune(rs, i+1, r) > i+1 {
				italicDelim = r
				setFlags()
				openSeq++
				italicOpen = openMark{at: len(spans), seq: openSeq, other: boldDelim != 0}
				i++
				continue
			}
			cur.text = append(cur.text, r)
			i++
			continue
		}

		if r == '[' {
			if text, next, ok := linkText(rs, i); ok {
				cur.text = append(cur.text, text...)
				i = next
				continue
			}
			cur.text = append(cur.text, r)
			i++
			continue
		}

		cur.text = append(cur.text, r)
		i++
	}
	if len(cur.text) > 0 {
		spans = append(spans, cur)
	}
	// An opener still unmatched here had its prospective closer
	// swallowed by a code span, bold pair, or link. Restore the marker
	// as literal text at its original position and clear the flag it
	// set from every span opened under it. The literal keeps the other
	// emphasis flag only when that emphasis was open at the time and
	// did find its closer.
	if boldDelim != 0 {
		for i := boldOpen.at; i < len(spans); i++ {
			spans[i].bold = false
		}
		lit := span{text: []rune{boldDelim, boldDelim}, italic: boldOpen.other && italicDelim == 0}
		spans = insertSpan(spans, boldOpen.at, lit)
		if italicDelim != 0 && italicOpen.seq > boldOpen.seq {
			italicOpen.at++
		}
	}
	if italicDelim != 0 {
		for i := italicOpen.at; i < len(spans); i++ {
			spans[i].italic = false
		}
		lit := span{text: []rune{italicDelim}, bold: italicOpen.other && boldDelim == 0}
		spans = insertSpan(spans, italicOpen.at, lit)
	}
	return spans
}

func insertSpan(spans []span, at int, sp span) []span {
	spans = append(spans, span{})
	copy(spans[at+1:], spans[at:])
	spans[at] = sp
	return spans
}

// linkText matches [text](url) starting at rs[i] and returns the link
// text with the URL dropped. A partial match is rejected so the caller
// emits the bracket literally.
func linkText(rs []rune, i int) (text []rune, next int, ok bool) {
	textEnd := indexRune(rs, i+1, ']')
	if textEnd < 0 || textEnd+1 >= len(rs) || rs[textEnd+1] != '(' {
		return nil, 0, false
	}
	urlEnd := indexRune(rs, textEnd+2, ')')
	if urlEnd < 0 {
		return nil, 0, false
	}
	return rs[i+1 : textEnd], urlEnd + 1, true
}

func indexRune(rs []rune, from int, r rune) int {
	for i := from; i < len(rs); i++ {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func indexPair(rs []rune, from int, r rune) int {
	for i := from; i+1 < len(rs); i++ {
		if rs[i] == r && rs[i+1] == r {
			return i
		}
	}
	return -1
}

// appendScriptRuns splits a span at script-class transitions and merges
// the result into runs, coalescing with the previous run when class and
// emphasis state match.
func appendScriptRuns(runs []Run, sp span) []Run {
	start := 0
	cls := ScriptLatin
	for i, r := range sp.text {
		c := classify(r)
		if i == 0 {
			cls = c
			continue
		}
		if c != cls {
			runs = appendRun(runs, Run{
				Text: string(sp.text[start:i]), Script: cls,
				Bold: sp.bold, Italic: sp.italic, Code: sp.code,
			})
			start = i
			cls = c
		}
	}
	if start < len(sp.text) {
		runs = appendRun(runs, Run{
			Text: string(sp.text[start:]), Script: cls,
			Bold: sp.bold, Italic: sp.italic, Code: sp.code,
		})
	}
	return runs
}

func appendRun(runs []Run, r Run) []Run {
	if n := len(runs); n > 0 {
		last := &runs[n-1]
		if last.Script == r.Script && last.Bold == r.Bold && last.Italic == r.Italic && last.Code == r.Code {
			last.Text += r.Text
			return runs
		}
	}
	return append(runs, r)
}

func classify(r rune) ScriptClass {
	if scriptclass.IsCJK(r) {
		return ScriptCJK
	}
	return ScriptLatin
}
