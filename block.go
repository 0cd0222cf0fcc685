package md2doc

// BlockKind identifies the structural variant of a Block.
type BlockKind uint8

const (
	// BlockHeading is a Markdown heading, levels 1 through 6.
	BlockHeading BlockKind = iota
	// BlockParagraph is a run of plain text lines.
	BlockParagraph
	// BlockListItem is a single ordered or unordered list item.
	BlockListItem
	// BlockBlockquote is a quoted passage.
	BlockBlockquote
	// BlockCode is a fenced code block with literal lines.
	BlockCode
	// BlockRule is a horizontal rule.
	BlockRule
)

// Block is one structural unit of a parsed document. Which fields are
// meaningful depends on Kind: Level for headings, Ordered and Depth for
// list items, Lines for code blocks, Text for everything except code
// blocks and rules.
type Block struct {
	Kind    BlockKind
	Level   int
	Ordered bool
	Depth   int
	Text    string
	Lines   []string
}

// Document is an ordered sequence of blocks. Order always matches the
// source; blocks are never reordered.
type Document struct {
	Blocks []Block
}
