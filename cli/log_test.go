package cli

import (
	"testing"

	"github.com/ardnew/windstyle/log"
)

// TestLogScan is not parallel: scan configures the default logger.
func TestLogScan(t *testing.T) {
	t.Cleanup(func() {
		log.Config(
			log.WithLevel(log.DefaultLevel),
			log.WithFormat(log.DefaultFormat),
			log.WithPretty(true),
			log.WithCaller(false),
		)
	})

	tests := []struct {
		name string
		args []string
		want logConfig
	}{
		{
			name: "separate_value",
			args: []string{"eval", "--log-level", "debug", "-z", "3"},
			want: logConfig{Level: "debug", Pretty: true},
		},
		{
			name: "assigned_value",
			args: []string{"--log-format=json", "--log-caller"},
			want: logConfig{Format: "json", Caller: true, Pretty: true},
		},
		{
			name: "negated",
			args: []string{"--no-log-pretty", "--log-caller=false"},
			want: logConfig{},
		},
		{
			name: "stops_at_terminator",
			args: []string{"--log-level=warn", "--", "--log-format", "json"},
			want: logConfig{Level: "warn", Pretty: true},
		},
		{
			name: "ignores_flag_values",
			args: []string{"--log-level", "--log-caller"},
			want: logConfig{Caller: true, Pretty: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := logConfig{Pretty: true}
			cfg.scan(tt.args)

			if cfg != tt.want {
				t.Errorf("scan(%q) = %+v, want %+v", tt.args, cfg, tt.want)
			}
		})
	}
}

func TestLogVars(t *testing.T) {
	t.Parallel()

	vars := (&logConfig{}).vars()

	if got, want := vars["logLevelEnum"], "trace,debug,info,warn,error"; got != want {
		t.Errorf("logLevelEnum = %q, want %q", got, want)
	}

	if got, want := vars["logFormatEnum"], "text,json"; got != want {
		t.Errorf("logFormatEnum = %q, want %q", got, want)
	}
}
