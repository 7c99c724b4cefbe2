package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestVerbosefOnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Verbosef("hidden %d", 1)
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}

	New(&buf, true).With("job-1").Verbosef("shown %d", 2)
	if got := buf.String(); got != "[job-1] Verbose: shown 2\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestMeasureLogsElapsed(t *testing.T) {
	var buf bytes.Buffer
	stop := New(&buf, true).Measure("decode a.png")
	stop()
	if !strings.Contains(buf.String(), "decode a.png took") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestNilWriterDiscards(t *testing.T) {
	Logger{Verbose: true}.Infof("nothing %s", "here")
}
