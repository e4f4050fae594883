package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/trackgraph/pkg/observability"
)

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Computed report for PRR")

	out := buf.String()
	if !strings.Contains(out, "Computed report for PRR (") || !strings.Contains(out, "s)") {
		t.Errorf("done() = %q, want the message followed by the elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, log.InfoLevel)

	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"attached", withLogger(context.Background(), custom), custom},
		{"missing", context.Background(), log.Default()},
		{"nil", nil, log.Default()},
	}
	for _, tt := range tests {
		if got := loggerFromContext(tt.ctx); got != tt.want {
			t.Errorf("%s: loggerFromContext() returned the wrong logger", tt.name)
		}
	}
}

func TestReportLogging(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		want    []string
		notWant []string
	}{
		{
			name:    "info",
			level:   LogInfo,
			want:    []string{"Computed report for Y"},
			notWant: []string{"loaded board", "route_info"},
		},
		{
			name:  "debug registers log hooks",
			level: LogDebug,
			want:  []string{"Computed report for Y", "loaded board", "hooks", "route_info", "finished"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observability.Reset()
			t.Cleanup(observability.Reset)
			t.Setenv("XDG_CACHE_HOME", t.TempDir())

			var buf bytes.Buffer
			root := New(&buf, tt.level).RootCommand()
			root.SetArgs([]string{"report", "testdata/network.toml", "--corp", "Y", "--cache", "none", "-o", filepath.Join(t.TempDir(), "y.json")})
			if err := root.Execute(); err != nil {
				t.Fatalf("report: %v", err)
			}

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log missing %q:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("log unexpectedly contains %q:\n%s", w, out)
				}
			}
		})
	}
}
