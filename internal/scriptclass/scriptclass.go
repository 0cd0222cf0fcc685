// Package scriptclass classifies code points into the CJK and Latin
// script classes used for font selection. Classification is a pure
// predicate over Unicode ranges; no locale or global state.
package scriptclass

type cjkRange struct {
	lo rune
	hi rune
}

// Ranges counted as CJK for font-selection purposes: Han ideographs,
// CJK punctuation and symbols, kana, and full/halfwidth forms. Anything
// else, including ASCII letters, digits, and Latin punctuation, is
// Latin.
var cjkRanges = []cjkRange{
	{0x2E80, 0x2EFF},   // CJK Radicals Supplement
	{0x3000, 0x303F},   // CJK Symbols and Punctuation
	{0x3040, 0x309F},   // Hiragana
	{0x30A0, 0x30FF},   // Katakana
	{0x3400, 0x4DBF},   // CJK Unified Ideographs Extension A
	{0x4E00, 0x9FFF},   // CJK Unified Ideographs
	{0xF900, 0xFAFF},   // CJK Compatibility Ideographs
	{0xFE30, 0xFE4F},   // CJK Compatibility Forms
	{0xFF00, 0xFFEF},   // Halfwidth and Fullwidth Forms
	{0x20000, 0x2A6DF}, // CJK Unified Ideographs Extension B
}

// IsCJK reports whether r belongs to a CJK range.
func IsCJK(r rune) bool {
	for _, rng := range cjkRanges {
		if r < rng.lo {
			return false
		}
		if r <= rng.hi {
			return true
		}
	}
	return false
}
