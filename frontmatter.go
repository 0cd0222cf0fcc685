package md2doc

import "strings"

// Front matter delimiters recognized at the very start of the input:
// YAML "---" and TOML "+++".
var frontMatterDelims = []string{"---", "+++"}

// stripFrontMatter drops a leading front matter block. The opener must
// be the first line and a matching closer must exist; otherwise the
// lines pass through untouched, so a document opening with a "---"
// horizontal rule and no closer is not swallowed.
func stripFrontMatter(lines []string) []string {
	if len(lines) < 2 {
		return lines
	}
	open := strings.TrimRight(lines[0], " \t")
	delim := ""
	for _, d := range frontMatterDelims {
		if open == d {
			delim = d
			break
		}
	}
	if delim == "" {
		return lines
	}
	if !metadataLikely(lines[1], delim) {
		return lines
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " \t") == delim {
			return lines[i+1:]
		}
	}
	return lines
}

// metadataLikely reports whether the line after the opener looks like
// front matter metadata rather than document text, so two plain
// horizontal rules are not mistaken for a metadata block.
func metadataLikely(line, delim string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	if delim == "+++" {
		return strings.Contains(trimmed, "=")
	}
	return strings.Contains(trimmed, ":")
}
