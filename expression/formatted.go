package expression

import (
	"strings"

	"github.com/ardnew/windstyle/color"
)

// FormattedSection is a run of text (or an inline image) with optional
// overrides for font scale, font stack, and text color.
type FormattedSection struct {
	Image     *ResolvedImage
	Scale     *float64
	FontStack *string
	TextColor *color.Color
	Text      string
}

func (s FormattedSection) jsonable() map[string]any {
	out := map[string]any{
		"text":      s.Text,
		"image":     nil,
		"scale":     nil,
		"fontStack": nil,
		"textColor": nil,
	}

	if s.Image != nil {
		out["image"] = jsonable(s.Image)
	}

	if s.Scale != nil {
		out["scale"] = jsonable(*s.Scale)
	}

	if s.FontStack != nil {
		out["fontStack"] = *s.FontStack
	}

	if s.TextColor != nil {
		out["textColor"] = jsonable(s.TextColor)
	}

	return out
}

// Formatted is rich text made of sections.
type Formatted struct {
	Sections []FormattedSection
}

// FormattedFromString returns a single unstyled section holding s.
func FormattedFromString(s string) *Formatted {
	return &Formatted{Sections: []FormattedSection{{Text: s}}}
}

// IsEmpty reports whether no section carries text or a named image.
func (f *Formatted) IsEmpty() bool {
	for _, s := range f.Sections {
		if s.Text != "" || (s.Image != nil && s.Image.Name != "") {
			return false
		}
	}

	return true
}

// String concatenates the text of all sections.
func (f *Formatted) String() string {
	var sb strings.Builder
	for _, s := range f.Sections {
		sb.WriteString(s.Text)
	}

	return sb.String()
}
