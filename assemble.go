package md2doc

import (
	"fmt"
	"io"
	"runtime"
	"sync"
)

// PageGeometry is the fixed page size and margins passed to the sink
// once per document, in millimeters.
type PageGeometry struct {
	WidthMM        float64
	HeightMM       float64
	TopMarginMM    float64
	BottomMarginMM float64
	LeftMarginMM   float64
	RightMarginMM  float64
}

// A4Geometry returns the default page geometry: A4 with 30mm top and
// left margins, 25mm bottom and right margins.
func A4Geometry() PageGeometry {
	return PageGeometry{
		WidthMM:        210,
		HeightMM:       297,
		TopMarginMM:    30,
		BottomMarginMM: 25,
		LeftMarginMM:   30,
		RightMarginMM:  25,
	}
}

// StyledRun is a segmented run carrying its resolved style.
type StyledRun struct {
	Run
	Style StyleSpec
}

// DocumentSink materializes styled blocks into a concrete document
// artifact. Sinks are order-sensitive and append-only; the assembler
// guarantees calls arrive in source order. Any returned error aborts
// assembly immediately.
type DocumentSink interface {
	BeginDocument(geo PageGeometry) error
	SetHeader(text string, style StyleSpec) error
	AddHeading(level int, runs []StyledRun) error
	AddParagraph(runs []StyledRun) error
	AddListItem(ordered bool, depth int, runs []StyledRun) error
	AddBlockquote(runs []StyledRun) error
	AddCodeBlock(lines []string, style StyleSpec) error
	AddHorizontalRule() error
	Finalize() error
}

// Blocks at or above this count get their run styles precomputed in
// parallel before the serial sink phase.
const parallelThreshold = 32

// Assemble emits doc to sink in strict source order: BeginDocument,
// optional SetHeader, one Add call per block, Finalize. Run styles may
// be precomputed concurrently, but sink calls are always serialized in
// block order. A sink error is returned as-is; the partial document is
// the sink's to discard, and no retry happens here. The assembler holds
// no state between calls and can be reused after Finalize.
func Assemble(doc Document, profile StyleProfile, header HeaderConfig, sink DocumentSink) error {
	styled := precomputeRuns(doc.Blocks, profile)

	if err := sink.BeginDocument(A4Geometry()); err != nil {
		return err
	}
	if header.Set {
		if err := sink.SetHeader(header.Text, headerStyle(header.Text, profile)); err != nil {
			return err
		}
	}
	for i, b := range doc.Blocks {
		var err error
		switch b.Kind {
		case BlockHeading:
			err = sink.AddHeading(b.Level, styled[i])
		case BlockParagraph:
			err = sink.AddParagraph(styled[i])
		case BlockListItem:
			err = sink.AddListItem(b.Ordered, b.Depth, styled[i])
		case BlockBlockquote:
			err = sink.AddBlockquote(styled[i])
		case BlockCode:
			err = sink.AddCodeBlock(b.Lines, profile.Resolve(RoleCode, ScriptLatin))
		case BlockRule:
			err = sink.AddHorizontalRule()
		}
		if err != nil {
			return err
		}
	}
	return sink.Finalize()
}

// headerStyle resolves the header role using the script class of the
// first run so a CJK header picks the CJK font.
func headerStyle(text string, profile StyleProfile) StyleSpec {
	script := ScriptLatin
	if runs := SegmentRuns(text); len(runs) > 0 {
		script = runs[0].Script
	}
	return profile.Resolve(RoleHeader, script)
}

// precomputeRuns resolves every block's styled runs into an
// index-addressed slice. Blocks are independent, so large documents
// fan out across workers; results land at their block index and the
// caller drains the slice strictly in order. Code blocks and rules
// carry no inline runs.
func precomputeRuns(blocks []Block, profile StyleProfile) [][]StyledRun {
	styled := make([][]StyledRun, len(blocks))
	if len(blocks) < parallelThreshold {
		for i, b := range blocks {
			styled[i] = blockRuns(b, profile)
		}
		return styled
	}
	workers := runtime.GOMAXPROCS(0)
	if workers > len(blocks) {
		workers = len(blocks)
	}
	indexes := make(chan int)
	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				styled[i] = blockRuns(blocks[i], profile)
			}
		}()
	}
	for i := range blocks {
		indexes <- i
	}
	close(indexes)
	wg.Wait()
	return styled
}

func blockRuns(b Block, profile StyleProfile) []StyledRun {
	var role Role
	switch b.Kind {
	case BlockHeading:
		role = RoleForHeading(b.Level)
	case BlockParagraph, BlockListItem, BlockBlockquote:
		role = RoleBody
	default:
		return nil
	}
	runs := SegmentRuns(b.Text)
	out := make([]StyledRun, len(runs))
	for i, r := range runs {
		out[i] = StyledRun{Run: r, Style: profile.Resolve(role, r.Script)}
	}
	return out
}

// RenderRequest contains inputs for a full parse-then-assemble pass.
type RenderRequest struct {
	Reader  io.Reader
	Sink    DocumentSink
	Profile StyleProfile
	Header  HeaderConfig
}

// Render reads Markdown from req.Reader, validates it, and assembles it
// into req.Sink. A zero Profile falls back to DefaultProfile.
func Render(req RenderRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("render: reader is nil")
	}
	if req.Sink == nil {
		return fmt.Errorf("render: sink is nil")
	}
	src, err := io.ReadAll(req.Reader)
	if err != nil {
		return fmt.Errorf("render: read input: %w", err)
	}
	if err := ValidateInput(src); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	profile := req.Profile
	if profile.isZero() {
		profile = DefaultProfile()
	}
	return Assemble(Parse(string(src)), profile, req.Header, req.Sink)
}
