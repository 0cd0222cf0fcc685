package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"

	"github.com/yourq1021/md2doc"
	"github.com/yourq1021/md2doc/docx"
	"github.com/yourq1021/md2doc/plaintext"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("github.com/yourq1021/md2doc")
}

func main() {
	var (
		outPath    string
		headerText string
		configPath string
		textMode   bool
		widthFlag  int
		listRoles  bool
	)

	flags := pflag.NewFlagSet("md2doc", pflag.ExitOnError)
	flags.StringVarP(&outPath, "output", "o", "", "Output file (.docx, or .txt with --text)")
	flags.StringVar(&headerText, "header", "", "Page header text (overrides config)")
	flags.StringVar(&configPath, "config", "", "Style configuration file (YAML or JSON)")
	flags.BoolVar(&textMode, "text", false, "Render a plain text preview instead of .docx")
	flags.IntVarP(&widthFlag, "width", "w", 0, "Preview width (0 uses terminal width if available)")
	flags.BoolVar(&listRoles, "list-roles", false, "List configurable style roles")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, version.Module(), version.Current())
		fmt.Fprintf(os.Stderr, "Usage: md2doc [flags] [input.md]\n")
		fmt.Fprintln(os.Stderr, "\nIf no input is provided, Markdown is read from stdin.")
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	if listRoles {
		for _, role := range md2doc.Roles() {
			fmt.Fprintln(os.Stdout, role)
		}
		return
	}

	args := flags.Args()
	if len(args) > 1 {
		fmt.Fprintln(os.Stderr, "expected at most one input file")
		os.Exit(2)
	}

	profile := md2doc.DefaultProfile()
	configuredHeader := ""
	if configPath != "" {
		cfg, err := md2doc.LoadConfig(normalizePath(configPath))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		profile, err = cfg.Profile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		configuredHeader = cfg.Header.Text
	}
	header := md2doc.ResolveHeader(headerText, configuredHeader)

	reader, inPath, closer, err := openInput(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open input: %v\n", err)
		os.Exit(1)
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	if !textMode && strings.HasSuffix(strings.ToLower(outPath), ".doc") {
		fmt.Fprintln(os.Stderr, "legacy .doc output requires an external office suite; write .docx and convert separately")
		os.Exit(2)
	}

	resolved, err := resolveOutputPath(outPath, inPath, textMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	writer, closeOut, err := openOutput(resolved)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open output: %v\n", err)
		os.Exit(1)
	}

	var sink md2doc.DocumentSink
	if textMode {
		sink = plaintext.NewWriter(writer, resolveWidth(widthFlag))
	} else {
		if isTerminal(writer) {
			fmt.Fprintln(os.Stderr, "refusing to write .docx to terminal; use -o/--output")
			os.Exit(2)
		}
		sink = docx.NewWriter(writer)
	}

	renderErr := md2doc.Render(md2doc.RenderRequest{
		Reader:  reader,
		Sink:    sink,
		Profile: profile,
		Header:  header,
	})
	if closeOut != nil {
		if err := closeOut.Close(); err != nil && renderErr == nil {
			renderErr = err
		}
	}
	if renderErr != nil {
		if resolved != "" {
			_ = os.Remove(resolved)
		}
		fmt.Fprintf(os.Stderr, "render: %v\n", renderErr)
		os.Exit(1)
	}
	if resolved != "" {
		fmt.Fprintf(os.Stderr, "wrote %s\n", resolved)
	}
}

func openInput(args []string) (io.Reader, string, io.Closer, error) {
	if len(args) == 0 || args[0] == "-" {
		return os.Stdin, "", nil, nil
	}
	path := normalizePath(args[0])
	f, err := os.Open(path)
	if err != nil {
		return nil, "", nil, err
	}
	return f, path, f, nil
}

// resolveOutputPath picks the output file. With no -o, a file input
// gets a sibling .docx (or .txt in text mode); stdin input previews to
// stdout in text mode and needs an explicit output otherwise. An empty
// result means stdout.
func resolveOutputPath(outPath, inPath string, textMode bool) (string, error) {
	if strings.TrimSpace(outPath) != "" {
		if outPath == "-" {
			return "", nil
		}
		return normalizePath(outPath), nil
	}
	if inPath == "" {
		if textMode {
			return "", nil
		}
		return "", fmt.Errorf("reading from stdin; use -o/--output for .docx")
	}
	ext := ".docx"
	if textMode {
		ext = ".txt"
	}
	base := strings.TrimSuffix(inPath, filepath.Ext(inPath))
	return base + ext, nil
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return os.Stdout, nil, nil
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	return defaultWidth
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
