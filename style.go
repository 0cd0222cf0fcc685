package md2doc

import "fmt"

// Role is a structural position used to look up formatting. The role
// set is fixed; every profile must carry a template for each role.
type Role uint8

const (
	// RoleHeading1 through RoleHeading3 map 1:1 from heading levels 1-3.
	RoleHeading1 Role = iota
	RoleHeading2
	RoleHeading3
	// RoleHeadingOverflow is the single fallback tier for heading
	// levels 4-6, which have no distinct visual tiers in the default
	// style sheet.
	RoleHeadingOverflow
	// RoleBody applies to paragraph, list item, and blockquote text.
	RoleBody
	// RoleHeader applies only to the page header text.
	RoleHeader
	// RoleCode applies to fenced code block lines.
	RoleCode

	roleCount
)

var roleNames = [roleCount]string{
	RoleHeading1:        "heading1",
	RoleHeading2:        "heading2",
	RoleHeading3:        "heading3",
	RoleHeadingOverflow: "headingOverflow",
	RoleBody:            "body",
	RoleHeader:          "header",
	RoleCode:            "code",
}

func (r Role) String() string {
	if int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// Roles returns the fixed role set in declaration order.
func Roles() []Role {
	out := make([]Role, roleCount)
	for i := range out {
		out[i] = Role(i)
	}
	return out
}

// RoleForHeading maps a Markdown heading level to its role. Levels 4-6
// share the overflow tier.
func RoleForHeading(level int) Role {
	switch level {
	case 1:
		return RoleHeading1
	case 2:
		return RoleHeading2
	case 3:
		return RoleHeading3
	default:
		return RoleHeadingOverflow
	}
}

// Alignment is the horizontal paragraph alignment of a role.
type Alignment uint8

const (
	// AlignLeft is the default alignment.
	AlignLeft Alignment = iota
	// AlignCenter centers the paragraph.
	AlignCenter
)

func (a Alignment) String() string {
	if a == AlignCenter {
		return "center"
	}
	return "left"
}

// StyleTemplate is a role's base formatting before script-class font
// selection. LineSpacingPt of zero means no fixed line spacing.
type StyleTemplate struct {
	FontCJK            string
	FontLatin          string
	SizePt             float64
	Bold               bool
	Alignment          Alignment
	SpacingBeforeLines float64
	SpacingAfterLines  float64
	LineSpacingPt      float64
}

// StyleSpec is the resolved formatting for one (role, script class)
// pair. Font is the template font selected by the script class.
type StyleSpec struct {
	Font               string
	SizePt             float64
	Bold               bool
	Alignment          Alignment
	SpacingBeforeLines float64
	SpacingAfterLines  float64
	LineSpacingPt      float64
}

// StyleProfile maps every role to its base template. Profiles are
// merged configuration values; how they were loaded is the caller's
// concern.
type StyleProfile struct {
	templates [roleCount]StyleTemplate
	set       [roleCount]bool
}

// Template returns the base template for a role.
func (p StyleProfile) Template(role Role) (StyleTemplate, bool) {
	if int(role) >= len(p.templates) || !p.set[role] {
		return StyleTemplate{}, false
	}
	return p.templates[role], true
}

// SetTemplate replaces a role's base template.
func (p *StyleProfile) SetTemplate(role Role, t StyleTemplate) {
	p.templates[role] = t
	p.set[role] = true
}

func (p StyleProfile) isZero() bool {
	for _, set := range p.set {
		if set {
			return false
		}
	}
	return true
}

// Resolve returns the formatting for a role and script class: the
// role's template with FontCJK or FontLatin substituted. A role without
// a template is a contract violation by whatever supplied the profile,
// so Resolve panics rather than returning an error.
func (p StyleProfile) Resolve(role Role, script ScriptClass) StyleSpec {
	t, ok := p.Template(role)
	if !ok {
		panic(fmt.Sprintf("md2doc: profile has no template for role %s", role))
	}
	font := t.FontLatin
	if script == ScriptCJK {
		font = t.FontCJK
	}
	return StyleSpec{
		Font:               font,
		SizePt:             t.SizePt,
		Bold:               t.Bold,
		Alignment:          t.Alignment,
		SpacingBeforeLines: t.SpacingBeforeLines,
		SpacingAfterLines:  t.SpacingAfterLines,
		LineSpacingPt:      t.LineSpacingPt,
	}
}

// DefaultProfile returns the built-in thesis-style profile: SimSun and
// Times New Roman body at 12pt with fixed 20pt line spacing, SimHei
// headings at 16/14/12pt, a 9pt page header, and Consolas code lines.
func DefaultProfile() StyleProfile {
	var p StyleProfile
	p.SetTemplate(RoleBody, StyleTemplate{
		FontCJK:       "SimSun",
		FontLatin:     "Times New Roman",
		SizePt:        12,
		LineSpacingPt: 20,
	})
	p.SetTemplate(RoleHeading1, StyleTemplate{
		FontCJK:            "SimHei",
		FontLatin:          "SimHei",
		SizePt:             16,
		Alignment:          AlignCenter,
		SpacingBeforeLines: 1,
		SpacingAfterLines:  1,
	})
	p.SetTemplate(RoleHeading2, StyleTemplate{
		FontCJK:            "SimHei",
		FontLatin:          "SimHei",
		SizePt:             14,
		SpacingBeforeLines: 1,
		SpacingAfterLines:  1,
	})
	h3 := StyleTemplate{
		FontCJK:            "SimHei",
		FontLatin:          "SimHei",
		SizePt:             12,
		SpacingBeforeLines: 1,
		SpacingAfterLines:  1,
	}
	p.SetTemplate(RoleHeading3, h3)
	// Levels 4-6 share the heading3 look; no finer default tiers exist.
	p.SetTemplate(RoleHeadingOverflow, h3)
	p.SetTemplate(RoleHeader, StyleTemplate{
		FontCJK:   "SimSun",
		FontLatin: "Times New Roman",
		SizePt:    9,
		Alignment: AlignCenter,
	})
	p.SetTemplate(RoleCode, StyleTemplate{
		FontCJK:       "SimSun",
		FontLatin:     "Consolas",
		SizePt:        10.5,
		LineSpacingPt: 16,
	})
	return p
}
