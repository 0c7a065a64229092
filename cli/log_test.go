package cli

import "testing"

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		level  logLevel
		format logFormat
		pretty bool
		caller bool
	}{
		{
			name:   "separate values",
			args:   []string{"run", "--log-level", "debug", "--log-format", "json"},
			level:  "debug",
			format: "json",
			pretty: true,
		},
		{
			name:   "assigned values",
			args:   []string{"--log-level=warn", "check", "--log-caller"},
			level:  "warn",
			format: "text",
			pretty: true,
			caller: true,
		},
		{
			name:   "negated toggles",
			args:   []string{"--no-log-pretty", "--log-caller=false"},
			level:  "info",
			format: "text",
		},
		{
			name:   "negated assignment",
			args:   []string{"--no-log-pretty=false", "--log-level"},
			level:  "",
			format: "text",
			pretty: true,
		},
		{
			name:   "unrelated flags",
			args:   []string{"--manifest", "--log-level.yaml", "-m", "debug"},
			level:  "info",
			format: "text",
			pretty: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := logConfig{Level: "info", Format: "text", Pretty: true}
			f.scan(tt.args)

			if f.Level != tt.level {
				t.Errorf("expected level %q, got %q", tt.level, f.Level)
			}

			if f.Format != tt.format {
				t.Errorf("expected format %q, got %q", tt.format, f.Format)
			}

			if f.Pretty != tt.pretty {
				t.Errorf("expected pretty %v, got %v", tt.pretty, f.Pretty)
			}

			if f.Caller != tt.caller {
				t.Errorf("expected caller %v, got %v", tt.caller, f.Caller)
			}
		})
	}
}
