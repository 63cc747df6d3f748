package expression

import (
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DefaultLocale is used when a collator or number format names no locale,
// or names one that is not supported.
var DefaultLocale = language.English

var collateMatcher = sync.OnceValue(func() language.Matcher {
	return language.NewMatcher(collate.Supported())
})

// Collator compares strings using locale-aware rules.
type Collator struct {
	collator    *collate.Collator
	locale      string
	mu          sync.Mutex
	caseSens    bool
	diacritSens bool
}

// NewCollator returns a collator for locale (which may be empty) that
// distinguishes case and diacritics only when asked to.
func NewCollator(caseSensitive, diacriticSensitive bool, locale string) *Collator {
	var opts []collate.Option

	if !caseSensitive {
		opts = append(opts, collate.IgnoreCase)
	}

	if !diacriticSensitive {
		opts = append(opts, collate.IgnoreDiacritics)
	}

	return &Collator{
		collator:    collate.New(parseLocale(locale), opts...),
		locale:      locale,
		caseSens:    caseSensitive,
		diacritSens: diacriticSensitive,
	}
}

// Sensitivity names the differences the collator observes: "variant",
// "case", "accent", or "base".
func (c *Collator) Sensitivity() string {
	switch {
	case c.caseSens && c.diacritSens:
		return "variant"
	case c.caseSens:
		return "case"
	case c.diacritSens:
		return "accent"
	default:
		return "base"
	}
}

// Compare returns a negative number, zero, or a positive number as a sorts
// before, equal to, or after b.
func (c *Collator) Compare(a, b string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.collator.CompareString(a, b)
}

// ResolvedLocale returns the locale the collator actually uses.
func (c *Collator) ResolvedLocale() string {
	return resolveLocale(c.locale)
}

func parseLocale(locale string) language.Tag {
	if locale == "" {
		return DefaultLocale
	}

	tag, err := language.Parse(locale)
	if err != nil {
		return DefaultLocale
	}

	return tag
}

// resolveLocale reduces locale to its language, script, and region, falling
// back to [DefaultLocale] when collation rules for it are unavailable.
func resolveLocale(locale string) string {
	tag := parseLocale(locale)

	if _, _, conf := collateMatcher().Match(tag); conf == language.No {
		tag = DefaultLocale
	}

	base, script, region := tag.Raw()
	out := base.String()

	if script != (language.Script{}) {
		out += "-" + script.String()
	}

	if region != (language.Region{}) {
		out += "-" + region.String()
	}

	return out
}
