package docx

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yourq1021/md2doc"
)

// ErrNotBegun reports a sink call before BeginDocument.
var ErrNotBegun = errors.New("docx: document not begun")

// listIndentTwips is the left indent added per list nesting depth.
const listIndentTwips = 420

// quoteIndentTwips is the left indent of blockquote paragraphs.
const quoteIndentTwips = 420

// Writer builds a .docx package from sink calls. Create one with
// NewWriter, feed it through md2doc.Assemble, and the package is
// written to the underlying writer on Finalize.
type Writer struct {
	w      io.Writer
	body   strings.Builder
	geo    md2doc.PageGeometry
	began  bool
	done   bool
	header struct {
		set   bool
		text  string
		style md2doc.StyleSpec
	}
	// Ordered-list numbering restarts whenever a non-list block or an
	// unordered item interrupts the sequence at that depth.
	ordinals map[int]int
}

// NewWriter returns a Writer that emits the finished package to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, ordinals: make(map[int]int)}
}

// BeginDocument records the page geometry. Must be the first call.
func (d *Writer) BeginDocument(geo md2doc.PageGeometry) error {
	if d.began {
		return errors.New("docx: document already begun")
	}
	d.began = true
	d.geo = geo
	return nil
}

// SetHeader registers the page header, applied uniformly to all pages.
func (d *Writer) SetHeader(text string, style md2doc.StyleSpec) error {
	if !d.began {
		return ErrNotBegun
	}
	d.header.set = true
	d.header.text = text
	d.header.style = style
	return nil
}

// AddHeading appends a heading paragraph.
func (d *Writer) AddHeading(level int, runs []md2doc.StyledRun) error {
	if !d.began {
		return ErrNotBegun
	}
	d.resetOrdinals()
	d.paragraph(paraProps(runs, 0), runs)
	return nil
}

// AddParagraph appends a body paragraph.
func (d *Writer) AddParagraph(runs []md2doc.StyledRun) error {
	if !d.began {
		return ErrNotBegun
	}
	d.resetOrdinals()
	d.paragraph(paraProps(runs, 0), runs)
	return nil
}

// AddListItem appends one list item with an explicit marker and a
// depth-scaled indent.
func (d *Writer) AddListItem(ordered bool, depth int, runs []md2doc.StyledRun) error {
	if !d.began {
		return ErrNotBegun
	}
	marker := "• "
	if ordered {
		d.ordinals[depth]++
		marker = strconv.Itoa(d.ordinals[depth]) + ". "
	} else {
		d.ordinals[depth] = 0
	}
	indent := listIndentTwips * (depth + 1)
	markerRun := md2doc.StyledRun{Run: md2doc.Run{Text: marker}}
	if len(runs) > 0 {
		markerRun.Style = runs[0].Style
	}
	d.paragraph(paraProps(runs, indent), append([]md2doc.StyledRun{markerRun}, runs...))
	return nil
}

// AddBlockquote appends quoted text as an indented body paragraph.
func (d *Writer) AddBlockquote(runs []md2doc.StyledRun) error {
	if !d.began {
		return ErrNotBegun
	}
	d.resetOrdinals()
	d.paragraph(paraProps(runs, quoteIndentTwips), runs)
	return nil
}

// AddCodeBlock appends one monospaced paragraph per literal line. No
// inline styling applies beyond the code role's base template.
func (d *Writer) AddCodeBlock(lines []string, style md2doc.StyleSpec) error {
	if !d.began {
		return ErrNotBegun
	}
	d.resetOrdinals()
	for _, line := range lines {
		d.paragraph(styleParaProps(style, 0), []md2doc.StyledRun{{
			Run:   md2doc.Run{Text: line, Code: true},
			Style: style,
		}})
	}
	return nil
}

// AddHorizontalRule appends an empty paragraph with a bottom border.
func (d *Writer) AddHorizontalRule() error {
	if !d.began {
		return ErrNotBegun
	}
	d.resetOrdinals()
	d.body.WriteString(`<w:p><w:pPr><w:pBdr><w:bottom w:val="single" w:sz="6" w:space="1" w:color="auto"/></w:pBdr></w:pPr></w:p>`)
	return nil
}

// Finalize zips the package parts to the underlying writer. The Writer
// is spent afterwards.
func (d *Writer) Finalize() error {
	if !d.began {
		return ErrNotBegun
	}
	if d.done {
		return errors.New("docx: already finalized")
	}
	d.done = true

	zw := zip.NewWriter(d.w)
	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", d.contentTypes()},
		{"_rels/.rels", packageRels},
		{"word/_rels/document.xml.rels", d.documentRels()},
		{"word/styles.xml", stylesXML},
		{"word/document.xml", d.documentXML()},
	}
	if d.header.set {
		parts = append(parts, struct {
			name    string
			content string
		}{"word/header1.xml", d.headerXML()})
	}
	for _, part := range parts {
		f, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("docx: create %s: %w", part.name, err)
		}
		if _, err := io.WriteString(f, part.content); err != nil {
			return fmt.Errorf("docx: write %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("docx: close package: %w", err)
	}
	return nil
}

func (d *Writer) resetOrdinals() {
	for depth := range d.ordinals {
		delete(d.ordinals, depth)
	}
}

func (d *Writer) paragraph(pPr string, runs []md2doc.StyledRun) {
	d.body.WriteString("<w:p>")
	if pPr != "" {
		d.body.WriteString(pPr)
	}
	for _, r := range runs {
		d.body.WriteString(runXML(r))
	}
	d.body.WriteString("</w:p>")
}

// paraProps derives paragraph properties from the first run's style;
// all runs in a block share one role template apart from the font.
func paraProps(runs []md2doc.StyledRun, indentTwips int) string {
	if len(runs) == 0 {
		if indentTwips == 0 {
			return ""
		}
		return "<w:pPr>" + indentXML(indentTwips) + "</w:pPr>"
	}
	return styleParaProps(runs[0].Style, indentTwips)
}

func styleParaProps(style md2doc.StyleSpec, indentTwips int) string {
	var b strings.Builder
	if indentTwips > 0 {
		b.WriteString(indentXML(indentTwips))
	}
	if spacing := spacingXML(style); spacing != "" {
		b.WriteString(spacing)
	}
	if style.Alignment == md2doc.AlignCenter {
		b.WriteString(`<w:jc w:val="center"/>`)
	}
	if b.Len() == 0 {
		return ""
	}
	return "<w:pPr>" + b.String() + "</w:pPr>"
}

func indentXML(twips int) string {
	return fmt.Sprintf(`<w:ind w:left="%d"/>`, twips)
}

// spacingXML emits before/after spacing in lines (the *Lines attributes
// are hundredths of a line; plain before/after carry a twip fallback at
// 240 twips per line) and exact line spacing when the style fixes it.
func spacingXML(style md2doc.StyleSpec) string {
	var attrs []string
	if style.SpacingBeforeLines > 0 {
		attrs = append(attrs,
			fmt.Sprintf(`w:beforeLines="%d"`, int(style.SpacingBeforeLines*100)),
			fmt.Sprintf(`w:before="%d"`, int(style.SpacingBeforeLines*240)))
	}
	if style.SpacingAfterLines > 0 {
		attrs = append(attrs,
			fmt.Sprintf(`w:afterLines="%d"`, int(style.SpacingAfterLines*100)),
			fmt.Sprintf(`w:after="%d"`, int(style.SpacingAfterLines*240)))
	}
	if style.LineSpacingPt > 0 {
		attrs = append(attrs,
			fmt.Sprintf(`w:line="%d"`, int(style.LineSpacingPt*20)),
			`w:lineRule="exact"`)
	}
	if len(attrs) == 0 {
		return ""
	}
	return "<w:spacing " + strings.Join(attrs, " ") + "/>"
}

func runXML(r md2doc.StyledRun) string {
	var b strings.Builder
	b.WriteString("<w:r>")
	b.WriteString(runProps(r))
	b.WriteString(`<w:t xml:space="preserve">`)
	b.WriteString(escapeXML(r.Text))
	b.WriteString("</w:t></w:r>")
	return b.String()
}

func runProps(r md2doc.StyledRun) string {
	var b strings.Builder
	b.WriteString("<w:rPr>")
	if r.Style.Font != "" {
		font := escapeXML(r.Style.Font)
		fmt.Fprintf(&b, `<w:rFonts w:ascii="%s" w:hAnsi="%s" w:eastAsia="%s"/>`, font, font, font)
	}
	if r.Bold || r.Style.Bold {
		b.WriteString("<w:b/>")
	}
	if r.Italic {
		b.WriteString("<w:i/>")
	}
	if r.Style.SizePt > 0 {
		fmt.Fprintf(&b, `<w:sz w:val="%d"/><w:szCs w:val="%d"/>`,
			int(r.Style.SizePt*2), int(r.Style.SizePt*2))
	}
	b.WriteString("</w:rPr>")
	return b.String()
}

func (d *Writer) documentXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"><w:body>`)
	b.WriteString(d.body.String())
	b.WriteString(d.sectPr())
	b.WriteString("</w:body></w:document>")
	return b.String()
}

func (d *Writer) sectPr() string {
	var b strings.Builder
	b.WriteString("<w:sectPr>")
	if d.header.set {
		b.WriteString(`<w:headerReference w:type="default" r:id="rId2"/>`)
	}
	fmt.Fprintf(&b, `<w:pgSz w:w="%d" w:h="%d"/>`,
		mmToTwips(d.geo.WidthMM), mmToTwips(d.geo.HeightMM))
	fmt.Fprintf(&b, `<w:pgMar w:top="%d" w:bottom="%d" w:left="%d" w:right="%d"/>`,
		mmToTwips(d.geo.TopMarginMM), mmToTwips(d.geo.BottomMarginMM),
		mmToTwips(d.geo.LeftMarginMM), mmToTwips(d.geo.RightMarginMM))
	b.WriteString("</w:sectPr>")
	return b.String()
}

func (d *Writer) headerXML() string {
	run := md2doc.StyledRun{
		Run:   md2doc.Run{Text: d.header.text},
		Style: d.header.style,
	}
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<w:hdr xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:p>`)
	b.WriteString(styleParaProps(d.header.style, 0))
	b.WriteString(runXML(run))
	b.WriteString("</w:p></w:hdr>")
	return b.String()
}

func (d *Writer) contentTypes() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>`)
	b.WriteString(`<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>`)
	if d.header.set {
		b.WriteString(`<Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>`)
	}
	b.WriteString("</Types>")
	return b.String()
}

func (d *Writer) documentRels() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	b.WriteString(`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>`)
	if d.header.set {
		b.WriteString(`<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>`)
	}
	b.WriteString("</Relationships>")
	return b.String()
}

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

const packageRels = xmlHeader + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const stylesXML = xmlHeader + `<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:docDefaults><w:rPrDefault><w:rPr><w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:eastAsia="SimSun"/><w:sz w:val="24"/><w:szCs w:val="24"/></w:rPr></w:rPrDefault><w:pPrDefault><w:pPr/></w:pPrDefault></w:docDefaults><w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/></w:style></w:styles>`

func mmToTwips(mm float64) int {
	return int(mm*1440/25.4 + 0.5)
}

func escapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)
