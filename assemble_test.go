package md2doc

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingSink captures the call sequence for protocol assertions.
type recordingSink struct {
	calls     []string
	headerTxt string
	failOn    string
	failErr   error
}

func (s *recordingSink) record(name string) error {
	s.calls = append(s.calls, name)
	if s.failOn == name {
		return s.failErr
	}
	return nil
}

func (s *recordingSink) BeginDocument(geo PageGeometry) error {
	return s.record(fmt.Sprintf("begin(%gx%g)", geo.WidthMM, geo.HeightMM))
}

func (s *recordingSink) SetHeader(text string, style StyleSpec) error {
	s.headerTxt = text
	return s.record("header")
}

func (s *recordingSink) AddHeading(level int, runs []StyledRun) error {
	return s.record(fmt.Sprintf("heading%d:%s", level, joinStyled(runs)))
}

func (s *recordingSink) AddParagraph(runs []StyledRun) error {
	return s.record("para:" + joinStyled(runs))
}

func (s *recordingSink) AddListItem(ordered bool, depth int, runs []StyledRun) error {
	return s.record(fmt.Sprintf("item(%v,%d):%s", ordered, depth, joinStyled(runs)))
}

func (s *recordingSink) AddBlockquote(runs []StyledRun) error {
	return s.record("quote:" + joinStyled(runs))
}

func (s *recordingSink) AddCodeBlock(lines []string, style StyleSpec) error {
	return s.record("code:" + strings.Join(lines, "|"))
}

func (s *recordingSink) AddHorizontalRule() error {
	return s.record("rule")
}

func (s *recordingSink) Finalize() error {
	return s.record("finalize")
}

func joinStyled(runs []StyledRun) string {
	var b strings.Builder
	for _, r := range runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

func TestAssembleProtocolOrder(t *testing.T) {
	t.Parallel()
	doc := Parse("# title\n\nbody\n\n---\n")
	sink := &recordingSink{}
	header := ResolveHeader("running head", "")
	if err := Assemble(doc, DefaultProfile(), header, sink); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	want := []string{"begin(210x297)", "header", "heading1:title", "para:body", "rule", "finalize"}
	if len(sink.calls) != len(want) {
		t.Fatalf("unexpected calls: %v", sink.calls)
	}
	for i, call := range want {
		if sink.calls[i] != call {
			t.Fatalf("call %d: expected %q, got %q", i, call, sink.calls[i])
		}
	}
}

func TestHeaderPrecedence(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		override   string
		configured string
		wantSet    bool
		wantText   string
	}{
		{"override wins", "A", "B", true, "A"},
		{"config fallback", "", "B", true, "B"},
		{"absent", "", "", false, ""},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			header := ResolveHeader(tc.override, tc.configured)
			if header.Set != tc.wantSet || header.Text != tc.wantText {
				t.Fatalf("unexpected header: %+v", header)
			}
			sink := &recordingSink{}
			if err := Assemble(Parse("x\n"), DefaultProfile(), header, sink); err != nil {
				t.Fatalf("assemble: %v", err)
			}
			sawHeader := false
			for _, call := range sink.calls {
				if call == "header" {
					sawHeader = true
				}
			}
			if sawHeader != tc.wantSet {
				t.Fatalf("expected header call %v, calls: %v", tc.wantSet, sink.calls)
			}
			if tc.wantSet && sink.headerTxt != tc.wantText {
				t.Fatalf("expected header text %q, got %q", tc.wantText, sink.headerTxt)
			}
		})
	}
}

func TestAssembleSinkFailureAborts(t *testing.T) {
	t.Parallel()
	doc := Parse("one\n\ntwo\n\nthree\n")
	sinkErr := errors.New("backend rejected write")
	sink := &recordingSink{failOn: "para:two", failErr: sinkErr}
	err := Assemble(doc, DefaultProfile(), HeaderConfig{}, sink)
	if !errors.Is(err, sinkErr) {
		t.Fatalf("expected sink error surfaced, got %v", err)
	}
	last := sink.calls[len(sink.calls)-1]
	if last != "para:two" {
		t.Fatalf("expected abort at failing call, calls: %v", sink.calls)
	}
}

func TestAssembleOrderWithParallelPrecompute(t *testing.T) {
	t.Parallel()
	var src strings.Builder
	for i := 0; i < parallelThreshold*4; i++ {
		fmt.Fprintf(&src, "paragraph %d\n\n", i)
	}
	sink := &recordingSink{}
	if err := Assemble(Parse(src.String()), DefaultProfile(), HeaderConfig{}, sink); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	blockCalls := sink.calls[1 : len(sink.calls)-1]
	if len(blockCalls) != parallelThreshold*4 {
		t.Fatalf("expected %d block calls, got %d", parallelThreshold*4, len(blockCalls))
	}
	for i, call := range blockCalls {
		want := fmt.Sprintf("para:paragraph %d", i)
		if call != want {
			t.Fatalf("call %d: expected %q, got %q", i, want, call)
		}
	}
}

func TestAssembleStylesRunsPerScript(t *testing.T) {
	t.Parallel()
	doc := Parse("Fudan大学\n")
	styled := precomputeRuns(doc.Blocks, DefaultProfile())
	if len(styled) != 1 || len(styled[0]) != 2 {
		t.Fatalf("unexpected styled runs: %+v", styled)
	}
	if styled[0][0].Style.Font != "Times New Roman" {
		t.Fatalf("expected Latin body font, got %q", styled[0][0].Style.Font)
	}
	if styled[0][1].Style.Font != "SimSun" {
		t.Fatalf("expected CJK body font, got %q", styled[0][1].Style.Font)
	}
}

func TestAssembleReusableAfterFinalize(t *testing.T) {
	t.Parallel()
	doc := Parse("once\n")
	first := &recordingSink{}
	if err := Assemble(doc, DefaultProfile(), HeaderConfig{}, first); err != nil {
		t.Fatalf("first assemble: %v", err)
	}
	second := &recordingSink{}
	if err := Assemble(doc, DefaultProfile(), HeaderConfig{}, second); err != nil {
		t.Fatalf("second assemble: %v", err)
	}
	if len(first.calls) != len(second.calls) {
		t.Fatalf("expected identical call sequences: %v vs %v", first.calls, second.calls)
	}
}

func TestRenderValidatesInput(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	err := Render(RenderRequest{
		Reader: strings.NewReader(string([]byte{0xff, 0xfe})),
		Sink:   sink,
	})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected no sink calls on invalid input, got %v", sink.calls)
	}
}

func TestRenderNilArguments(t *testing.T) {
	t.Parallel()
	if err := Render(RenderRequest{Sink: &recordingSink{}}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Render(RenderRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil sink")
	}
}

func TestRenderUsesDefaultProfileForZeroValue(t *testing.T) {
	t.Parallel()
	sink := &recordingSink{}
	err := Render(RenderRequest{
		Reader: strings.NewReader("# hello\n"),
		Sink:   sink,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if len(sink.calls) != 3 {
		t.Fatalf("unexpected calls: %v", sink.calls)
	}
}
