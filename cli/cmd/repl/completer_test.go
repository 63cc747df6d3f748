package repl

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWordBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"bare", "zoom", 4, "zoom", 0, 4},
		{"after_bracket_quote", `["zo`, 4, "zo", 2, 4},
		{"inside_quotes", `["zoom"]`, 4, "zoom", 2, 6},
		{"after_comma", `["get", "spe`, 12, "spe", 9, 12},
		{"object_key", `{"stops`, 7, "stops", 2, 7},
		{"empty_at_boundary", `["+", `, 6, "", 6, 6},
		{"cursor_past_end", "abc", 10, "abc", 0, 3},
		// Operator names with hyphens or comparison characters are one word.
		{"hyphenated", `["to-col`, 8, "to-col", 2, 8},
		{"comparison", `["<=`, 4, "<=", 2, 4},
		{"yaml_flow", "[interpolate, [lin", 18, "lin", 15, 18},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestOperatorPosition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      bool
	}{
		{"first_element", `["zo`, 2, true},
		{"single_quote", `['zo`, 2, true},
		{"spaced", `[ "zo`, 3, true},
		{"nested_first_element", `["+", ["zo`, 8, true},
		{"argument", `["get", "spe`, 9, false},
		{"unquoted", "[zo", 1, false},
		{"object_key", `{"zo`, 2, false},
		{"top_level_string", `"zo`, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := operatorPosition(tt.input, tt.wordStart); got != tt.want {
				t.Errorf("operatorPosition(%q, %d) = %v, want %v",
					tt.input, tt.wordStart, got, tt.want)
			}
		})
	}
}

func TestCtrlCandidates(t *testing.T) {
	t.Parallel()

	s, err := newSession(Config{Props: []string{"speed=zoom*2", "band=1"}})
	if err != nil {
		t.Fatalf("newSession() error = %v", err)
	}

	tests := []struct {
		name      string
		input     string
		wordStart int
		want      []string
	}{
		{"command", "", 0, ctrlCommands},
		{"spec_names", "spec ", 5, []string{
			"particle-color", "particle-size", "particle-speed", "particle-trail",
		}},
		{"prop_keys", "unset ", 6, []string{"band", "speed"}},
		{"no_argument", "zoom ", 5, nil},
		{"second_argument", "spec a ", 7, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ctrlCandidates(s, tt.input, tt.wordStart)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ctrlCandidates(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}
