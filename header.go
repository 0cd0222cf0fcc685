package md2doc

// HeaderConfig is the resolved page header. When Set is false no header
// is emitted and the sink's SetHeader is never called. The value is
// resolved once before assembly and immutable thereafter.
type HeaderConfig struct {
	Text string
	Set  bool
}

// ResolveHeader applies the header precedence: an explicit override
// wins over the configured value; when neither is present the header is
// absent. The header applies uniformly to all pages; odd/even
// differentiation is a documented limitation.
func ResolveHeader(override, configured string) HeaderConfig {
	if override != "" {
		return HeaderConfig{Text: override, Set: true}
	}
	if configured != "" {
		return HeaderConfig{Text: configured, Set: true}
	}
	return HeaderConfig{}
}
