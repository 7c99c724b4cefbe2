package presentation

import (
	"bytes"
	"strings"
	"testing"

	"picpp/internal/domain"
)

func TestConsumePrintsEventsInOrder(t *testing.T) {
	var buf bytes.Buffer
	printer := Printer{Writer: &buf}

	summary := domain.Summary{Total: 2, Processed: 2, Succeeded: 1, Failed: 1, OriginDir: "/in", ErrorDir: "/in/processing-errors"}
	events := make(chan domain.Event, 8)
	events <- domain.Info("Starting 2 image files")
	events <- domain.Event{Kind: domain.EventProcessing, Index: 1, Message: "Processing 1/2: a.png"}
	events <- domain.Event{Kind: domain.EventSuccess, Index: 1, Message: "Converted: a.png → a.webp"}
	events <- domain.Event{Kind: domain.EventProgress, Index: 1, Progress: 50}
	events <- domain.Event{Kind: domain.EventError, Index: 2, Message: "Failed: b.png (copied to the error directory)"}
	events <- domain.Event{Kind: domain.EventErrorDetail, Index: 2, Message: "error kind: decode_failure\nerror message: bad"}
	events <- domain.Event{Kind: domain.EventSummary, Summary: &summary}
	close(events)

	got := printer.Consume(events)
	if got == nil || got.Failed != 1 {
		t.Fatalf("expected summary to be returned, got %+v", got)
	}

	output := buf.String()
	order := []string{"Starting 2 image files", "→ Processing 1/2", "✓ Converted", "✗ Failed: b.png", "    error kind: decode_failure", "Conversion complete."}
	last := -1
	for _, want := range order {
		idx := strings.Index(output, want)
		if idx < 0 || idx < last {
			t.Fatalf("expected %q after previous lines in:\n%s", want, output)
		}
		last = idx
	}
	if strings.Contains(output, "50%") {
		t.Fatalf("progress should only print in verbose mode")
	}
	if !strings.Contains(output, "Output:    /in") {
		t.Fatalf("expected output dir to fall back to origin:\n%s", output)
	}
}

func TestSummaryRowsCancelled(t *testing.T) {
	rows := SummaryRows(domain.Summary{Total: 5, Processed: 2, Cancelled: true, OutputDir: "/out"})
	found := false
	for _, row := range rows {
		if row.Label == "Remaining" && row.Value == "3" {
			found = true
		}
		if row.Label == "Output" && row.Value != "/out" {
			t.Fatalf("unexpected output row %+v", row)
		}
	}
	if !found {
		t.Fatalf("expected remaining row, got %+v", rows)
	}
}
