package repl

import (
	"maps"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/windstyle/expression"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "spec", "zoom", "set", "unset", "props", "edit", "clear", "quit"}

// isWordBoundary returns true if the rune delimits words in a JSON or YAML
// expression. Operator names such as "to-color" or "<=" contain no
// boundary runes, so hyphens and comparison characters stay in the word.
func isWordBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '"', '\'',
		'[', ']', '{', '}',
		',', ':':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input.
// Returns an empty word when the cursor sits on a boundary (after a space,
// after an opening quote, start of line, etc.).
func wordBounds(input string, cursor int) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// operatorPosition reports whether the word starting at wordStart is the
// quoted first element of an array, where an operator name belongs.
func operatorPosition(input string, wordStart int) bool {
	prefix := strings.TrimRight(input[:wordStart], " \t")

	quoted, ok := strings.CutSuffix(prefix, `"`)
	if !ok {
		quoted, ok = strings.CutSuffix(prefix, `'`)
	}

	if !ok {
		return false
	}

	return strings.HasSuffix(strings.TrimRight(quoted, " \t"), "[")
}

// ctrlCandidates returns the completions for the word at wordStart of a
// control-mode line: command names for the first word, and the arguments
// of spec and unset after it.
func ctrlCandidates(s *session, input string, wordStart int) []string {
	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ctrlCommands
	}

	if len(fields) > 1 {
		return nil
	}

	switch fields[0] {
	case "spec":
		return slices.Sorted(maps.Keys(expression.BuiltinSpecs()))
	case "unset":
		return s.propKeys()
	}

	return nil
}

// computeMatches calculates the fuzzy match results for the word at the cursor.
// It returns the matches (ranked best-first), the candidate list, and the word
// boundaries. An empty word in operator position lists every operator; an
// empty word elsewhere shows nothing so the hint line stays visible.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	word, ws, we := wordBounds(input, cursor)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		candidates = ctrlCandidates(m.session, input, wordStart)
		if word == "" && len(strings.Fields(input[:wordStart])) == 0 {
			return nil, nil, wordStart, wordEnd
		}
	} else {
		if !operatorPosition(input, wordStart) {
			return nil, nil, wordStart, wordEnd
		}

		candidates = expression.Operators()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle, highlightStyle := suggestionStyle, matchStyle
	if selected {
		baseStyle, highlightStyle = selectedStyle, selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	return b.String()
}
