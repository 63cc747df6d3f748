package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"
)

func TestInitRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		setup   func(t *testing.T, path string)
		force   bool
		wantErr error
	}{
		{name: "create_new_config"},
		{
			name:  "overwrite_existing_with_force",
			force: true,
			setup: func(t *testing.T, path string) { writeFile(t, path, "existing: content\n") },
		},
		{
			name:    "fail_without_force",
			setup:   func(t *testing.T, path string) { writeFile(t, path, "existing: content\n") },
			wantErr: ErrFileExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			confPath := filepath.Join(t.TempDir(), "config.yaml")

			if tt.setup != nil {
				tt.setup(t, confPath)
			}

			var cli struct {
				Zoom   float64 `default:"2"`
				Spec   string  `default:"particle-color"`
				Quiet  bool
				Secret string `hidden:""`
			}

			parser, err := kong.New(&cli, kong.Vars{ConfigIdentifier: confPath})
			if err != nil {
				t.Fatal(err)
			}

			ktx, err := parser.Parse([]string{"--secret=s3"})
			if err != nil {
				t.Fatal(err)
			}

			err = (&Init{Force: tt.force}).Run(WithContext(context.Background(), ktx))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Init.Run() error = %v, want %v", err, tt.wantErr)
			}

			if tt.wantErr != nil {
				return
			}

			data, err := os.ReadFile(confPath)
			if err != nil {
				t.Fatal(err)
			}

			var got map[string]any
			if err := yaml.Unmarshal(data, &got); err != nil {
				t.Fatalf("generated config is not valid YAML: %v", err)
			}

			if s := fmt.Sprint(got["zoom"]); s != "2" {
				t.Errorf("zoom = %s, want 2", s)
			}

			if got["spec"] != "particle-color" {
				t.Errorf("spec = %v, want particle-color", got["spec"])
			}

			if got["quiet"] != false {
				t.Errorf("quiet = %v, want false", got["quiet"])
			}

			for _, key := range []string{"secret", "help", "existing"} {
				if _, ok := got[key]; ok {
					t.Errorf("config contains %q", key)
				}
			}
		})
	}
}
