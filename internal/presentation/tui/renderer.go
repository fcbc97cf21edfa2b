package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/Siridelta/PerSpatia-Ad-Destra-sub000/pkg/domain"
)

// NewRenderer returns a function that renders markdown using glamour.
func NewRenderer() func(string) (string, error) {
	// Automatically detect light/dark background
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// EvalReport formats the committed evaluation state as a markdown document,
// one section per node in stable order.
func EvalReport(snap *domain.EvalSnapshot) string {
	var sb strings.Builder
	sb.WriteString("# Evaluation Report\n\n")

	if snap == nil || len(snap.Data) == 0 {
		sb.WriteString("_The canvas is empty._\n")
		return sb.String()
	}

	ids := make([]string, 0, len(snap.Data))
	for id := range snap.Data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		state := snap.Data[id]
		if state == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", id))

		if len(state.Errors) > 0 {
			for _, e := range state.Errors {
				if e.Line > 0 {
					sb.WriteString(fmt.Sprintf("- ❌ line %d: %s\n", e.Line, e.Message))
				} else {
					sb.WriteString(fmt.Sprintf("- ❌ %s\n", e.Message))
				}
			}
			sb.WriteString("\n")
		}
		for _, w := range state.Warnings {
			sb.WriteString(fmt.Sprintf("- ⚠️ %s\n", w.Message))
		}

		if len(state.Outputs) > 0 {
			names := make([]string, 0, len(state.Outputs))
			for name := range state.Outputs {
				names = append(names, name)
			}
			sort.Strings(names)
			sb.WriteString("| Output | Value |\n|---|---|\n")
			for _, name := range names {
				sb.WriteString(fmt.Sprintf("| %s | `%v` |\n", name, state.Outputs[name]))
			}
			sb.WriteString("\n")
		}

		if len(state.Controls) > 0 {
			sb.WriteString("Controls:\n\n")
			for _, ctl := range state.Controls {
				sb.WriteString(fmt.Sprintf("- **%s** (%s) = `%v`\n", ctl.Name, ctl.Kind, ctl.EffectiveValue()))
			}
			sb.WriteString("\n")
		}

		if len(state.Logs) > 0 {
			sb.WriteString("```\n")
			for _, line := range state.Logs {
				sb.WriteString(line)
				sb.WriteString("\n")
			}
			sb.WriteString("```\n\n")
		}
	}

	return sb.String()
}
