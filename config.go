package md2doc

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the file-level configuration surface: an optional page
// header and per-role style overrides. Zero-valued fields keep the
// built-in defaults. YAML is a superset of JSON, so both file formats
// parse through the same path.
type Config struct {
	Header struct {
		Text string `yaml:"text"`
	} `yaml:"header"`
	Roles map[string]RoleConfig `yaml:"roles"`
}

// RoleConfig overrides parts of one role's style template.
type RoleConfig struct {
	FontCJK            string   `yaml:"fontCJK"`
	FontLatin          string   `yaml:"fontLatin"`
	SizePt             float64  `yaml:"sizePt"`
	Bold               *bool    `yaml:"bold"`
	Alignment          string   `yaml:"alignment"`
	SpacingBeforeLines *float64 `yaml:"spacingBeforeLines"`
	SpacingAfterLines  *float64 `yaml:"spacingAfterLines"`
	LineSpacingPt      *float64 `yaml:"lineSpacingPt"`
}

// LoadConfig reads and parses a YAML or JSON configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses configuration bytes.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Profile merges the config's role overrides over DefaultProfile. An
// unknown role name or alignment is a configuration error.
func (c Config) Profile() (StyleProfile, error) {
	profile := DefaultProfile()
	for name, rc := range c.Roles {
		role, ok := roleByName(name)
		if !ok {
			return StyleProfile{}, fmt.Errorf("config: unknown role %q", name)
		}
		t, _ := profile.Template(role)
		if rc.FontCJK != "" {
			t.FontCJK = rc.FontCJK
		}
		if rc.FontLatin != "" {
			t.FontLatin = rc.FontLatin
		}
		if rc.SizePt > 0 {
			t.SizePt = rc.SizePt
		}
		if rc.Bold != nil {
			t.Bold = *rc.Bold
		}
		if rc.Alignment != "" {
			align, ok := alignmentByName(rc.Alignment)
			if !ok {
				return StyleProfile{}, fmt.Errorf("config: role %q: unknown alignment %q", name, rc.Alignment)
			}
			t.Alignment = align
		}
		if rc.SpacingBeforeLines != nil {
			t.SpacingBeforeLines = *rc.SpacingBeforeLines
		}
		if rc.SpacingAfterLines != nil {
			t.SpacingAfterLines = *rc.SpacingAfterLines
		}
		if rc.LineSpacingPt != nil {
			t.LineSpacingPt = *rc.LineSpacingPt
		}
		profile.SetTemplate(role, t)
	}
	return profile, nil
}

func roleByName(name string) (Role, bool) {
	for _, role := range Roles() {
		if role.String() == name {
			return role, true
		}
	}
	return 0, false
}

func alignmentByName(name string) (Alignment, bool) {
	switch name {
	case "left":
		return AlignLeft, true
	case "center":
		return AlignCenter, true
	default:
		return 0, false
	}
}
