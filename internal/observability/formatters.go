// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %s │\n", fitLine(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// fitLine truncates or pads line to exactly width runes.
func fitLine(line string, width int) string {
	n := utf8.RuneCountInString(line)
	if n > width {
		runes := []rune(line)
		return string(runes[:width-3]) + "..."
	}
	return line + strings.Repeat(" ", width-n)
}

// PrintCategories outputs the cleaned entities grouped by category.
func (p *Printer) PrintCategories(categories types.CategoryMap) {
	if len(categories) == 0 {
		return
	}

	var sb strings.Builder
	for i, category := range categories.Categories() {
		values := categories[category]
		sb.WriteString(fmt.Sprintf("%s (%d):\n", category, len(values)))
		count := min(len(values), maxItemsToShow)
		for _, v := range values[:count] {
			sb.WriteString(fmt.Sprintf("  • %s\n", v))
		}
		if len(values) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(values)-maxItemsToShow))
		}
		if i < len(categories)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EXTRACTED ENTITIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMatchedSkills outputs reconciled skills with their source and score.
func (p *Printer) PrintMatchedSkills(matched []types.MatchedSkill) {
	if len(matched) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Total skills matched: %d\n\n", len(matched)))
	for _, m := range matched {
		sb.WriteString(fmt.Sprintf("  • %-28s [%s]", m.Skill, m.Source))
		if m.Score != nil {
			sb.WriteString(fmt.Sprintf(" %.2f", *m.Score))
		}
		sb.WriteString("\n")
	}

	p.printBox("MATCHED SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResult outputs run statistics followed by categories and skills.
func (p *Printer) PrintResult(result *pipeline.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("ID:          %s\n", result.ID))
	sb.WriteString(fmt.Sprintf("Chunks:      %d\n", result.ChunkCount))
	sb.WriteString(fmt.Sprintf("Predictions: %d\n", result.EntityCount))
	sb.WriteString(fmt.Sprintf("Merged:      %d\n", len(result.Entities)))
	sb.WriteString(fmt.Sprintf("Tag mapping: %s\n", result.TagMapping))
	sb.WriteString(fmt.Sprintf("Duration:    %s", result.Duration.Round(1e6)))
	p.printBox("RUN SUMMARY", sb.String())

	p.PrintCategories(result.Categories)
	p.PrintMatchedSkills(result.Skills)
}

// PrintProgress outputs a single pipeline step update.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintProgress(event pipeline.ProgressEvent) {
	fmt.Fprintf(p.out, "[%s] %s\n", event.Step, event.Message)
}
