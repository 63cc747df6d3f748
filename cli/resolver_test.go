package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func TestResolve(t *testing.T) {
	t.Parallel()

	const doc = `
log-level: debug
log:
  format: json
  caller: true
metrics_textfile: /tmp/windstyle.prom
spec-path:
  - /etc/windstyle/specs
  - ./specs
zoom: 4.5
pprof:
  rate: 100
`

	resolver, err := resolve(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}

	tests := []struct {
		flag string
		want any
	}{
		{"log-level", "debug"},
		{"log-format", "json"},
		{"log-caller", true},
		{"metrics-textfile", "/tmp/windstyle.prom"},
		{"spec-path", "/etc/windstyle/specs,./specs"},
		{"zoom", "4.5"},
		{"pprof-rate", "100"},
		{"missing", nil},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			t.Parallel()

			flag := &kong.Flag{Value: &kong.Value{Name: tt.flag}}

			got, err := resolver.Resolve(nil, nil, flag)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.flag, err)
			}

			if got != tt.want {
				t.Errorf("Resolve(%q) = %#v, want %#v", tt.flag, got, tt.want)
			}
		})
	}
}

func TestResolveInvalid(t *testing.T) {
	t.Parallel()

	for name, doc := range map[string]string{
		"empty":    "",
		"invalid":  "log-level: [unclosed",
		"sequence": "- a\n- b\n",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			resolver, err := resolve(strings.NewReader(doc))
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}

			got, err := resolver.Resolve(nil, nil, &kong.Flag{Value: &kong.Value{Name: "log-level"}})
			if err != nil || got != nil {
				t.Errorf("Resolve() = (%v, %v), want (nil, nil)", got, err)
			}
		})
	}
}

func TestSpecPath(t *testing.T) {
	if env := specPathEnv(); !strings.HasSuffix(env, "_SPEC_PATH") || strings.ToUpper(env) != env {
		t.Errorf("specPathEnv() = %q, want an upper-case name ending in _SPEC_PATH", env)
	}

	t.Setenv(specPathEnv(), "")

	got := specPath([]string{"/flag/a", "", "/flag/a/"})

	seen := make(map[string]bool)
	for _, dir := range got {
		if dir == "" || seen[dir] {
			t.Errorf("specPath() = %q, has an empty or repeated entry", got)
		}

		seen[dir] = true
	}

	if !seen["/flag/a"] {
		t.Errorf("specPath() = %q, missing /flag/a", got)
	}
}
