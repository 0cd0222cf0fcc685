package plaintext

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/yourq1021/md2doc"
)

func render(t *testing.T, src string, width int, header md2doc.HeaderConfig) string {
	t.Helper()
	var buf bytes.Buffer
	w := NewWriter(&buf, width)
	if err := md2doc.Assemble(md2doc.Parse(src), md2doc.DefaultProfile(), header, w); err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return buf.String()
}

func TestParagraphWraps(t *testing.T) {
	t.Parallel()
	out := render(t, strings.Repeat("word ", 20)+"\n", 20, md2doc.HeaderConfig{})
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 20 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}
}

func TestHeadingCenteredByDisplayWidth(t *testing.T) {
	t.Parallel()
	out := render(t, "# 绪论\n", 40, md2doc.HeaderConfig{})
	var heading string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "绪论") {
			heading = line
			break
		}
	}
	if heading == "" {
		t.Fatalf("heading missing in output: %q", out)
	}
	// 绪论 is 4 columns wide, so (40-4)/2 = 18 leading spaces.
	if !strings.HasPrefix(heading, strings.Repeat(" ", 18)+"绪论") {
		t.Fatalf("unexpected centering: %q", heading)
	}
}

func TestHeaderAppearsFirst(t *testing.T) {
	t.Parallel()
	out := render(t, "body\n", 40, md2doc.ResolveHeader("Running Head", ""))
	head := strings.SplitN(strings.TrimLeft(out, "\n"), "\n", 2)[0]
	if !strings.Contains(head, "Running Head") {
		t.Fatalf("expected header first, got %q", out)
	}
}

func TestListIndentAndMarkers(t *testing.T) {
	t.Parallel()
	out := render(t, "- top\n  - nested\n\n1. one\n", 40, md2doc.HeaderConfig{})
	if !strings.Contains(out, "- top") {
		t.Fatalf("missing bullet: %q", out)
	}
	if !strings.Contains(out, "  - nested") {
		t.Fatalf("missing nested indent: %q", out)
	}
	if !strings.Contains(out, "1. one") {
		t.Fatalf("missing ordered marker: %q", out)
	}
}

func TestBlockquotePrefix(t *testing.T) {
	t.Parallel()
	out := render(t, "> quoted text\n", 40, md2doc.HeaderConfig{})
	if !strings.Contains(out, "> quoted text") {
		t.Fatalf("missing quote prefix: %q", out)
	}
}

func TestCodeBlockIndentedLiterally(t *testing.T) {
	t.Parallel()
	out := render(t, "```\nx := 1\n```\n", 40, md2doc.HeaderConfig{})
	if !strings.Contains(out, "    x := 1") {
		t.Fatalf("missing indented code line: %q", out)
	}
}

func TestRuleSpansWidth(t *testing.T) {
	t.Parallel()
	out := render(t, "---\n", 10, md2doc.HeaderConfig{})
	if !strings.Contains(out, strings.Repeat("-", 10)) {
		t.Fatalf("missing rule: %q", out)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriteFailureSurfacesFromAddCall(t *testing.T) {
	t.Parallel()
	w := NewWriter(failingWriter{}, 40)
	if err := w.BeginDocument(md2doc.A4Geometry()); err != nil {
		t.Fatalf("begin: %v", err)
	}
	err := w.AddParagraph([]md2doc.StyledRun{{Run: md2doc.Run{Text: "x"}}})
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestSpacingBeforeHeading(t *testing.T) {
	t.Parallel()
	out := render(t, "para\n\n# head\n", 40, md2doc.HeaderConfig{})
	if !strings.Contains(out, "para\n\n\n") {
		t.Fatalf("expected blank lines before heading, got %q", out)
	}
}
