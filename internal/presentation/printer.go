package presentation

import (
	"fmt"
	"io"
	"strings"

	"picpp/internal/domain"
)

const separator = "============================================================"

// Printer renders the event stream as plain text lines.
type Printer struct {
	Writer  io.Writer
	Verbose bool
}

// Consume prints events until the channel is closed and returns the last
// summary seen, if any.
func (p Printer) Consume(events <-chan domain.Event) *domain.Summary {
	var summary *domain.Summary
	for ev := range events {
		p.PrintEvent(ev)
		if ev.Kind == domain.EventSummary {
			summary = ev.Summary
		}
	}
	return summary
}

func (p Printer) PrintEvent(ev domain.Event) {
	switch ev.Kind {
	case domain.EventProgress:
		if p.Verbose {
			fmt.Fprintf(p.Writer, "  %d%%\n", ev.Progress)
		}
	case domain.EventSummary:
		if ev.Summary != nil {
			p.PrintSummary(*ev.Summary)
		}
	case domain.EventErrorDetail:
		for _, line := range strings.Split(ev.Message, "\n") {
			fmt.Fprintf(p.Writer, "    %s\n", line)
		}
	default:
		fmt.Fprintf(p.Writer, "%s %s\n", eventIcon(ev.Kind), ev.Message)
	}
}

func (p Printer) PrintSummary(s domain.Summary) {
	fmt.Fprintln(p.Writer, separator)
	if s.Cancelled {
		fmt.Fprintln(p.Writer, "Conversion cancelled.")
	} else {
		fmt.Fprintln(p.Writer, "Conversion complete.")
	}
	for _, row := range SummaryRows(s) {
		fmt.Fprintf(p.Writer, "%-10s %s\n", row.Label+":", row.Value)
	}
	fmt.Fprintln(p.Writer, separator)
}

type Row struct {
	Label string
	Value string
}

// SummaryRows lists the figures shown at the end of a run.
func SummaryRows(s domain.Summary) []Row {
	rows := []Row{
		{Label: "Total", Value: fmt.Sprintf("%d", s.Total)},
		{Label: "Succeeded", Value: fmt.Sprintf("%d", s.Succeeded)},
		{Label: "Failed", Value: fmt.Sprintf("%d", s.Failed)},
		{Label: "Skipped", Value: fmt.Sprintf("%d", s.Skipped)},
	}
	if s.Cancelled {
		rows = append(rows, Row{Label: "Remaining", Value: fmt.Sprintf("%d", s.Total-s.Processed)})
	}
	output := s.OutputDir
	if output == "" {
		output = s.OriginDir
	}
	rows = append(rows,
		Row{Label: "Origin", Value: s.OriginDir},
		Row{Label: "Output", Value: output},
		Row{Label: "Errors", Value: s.ErrorDir},
	)
	return rows
}

func eventIcon(kind domain.EventKind) string {
	switch kind {
	case domain.EventProcessing:
		return "→"
	case domain.EventSuccess:
		return "✓"
	case domain.EventError:
		return "✗"
	default:
		return "·"
	}
}
