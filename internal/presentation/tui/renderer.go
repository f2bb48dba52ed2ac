// Package tui renders question step descriptors for the interactive
// terminal runner.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/formery/formery/pkg/descriptor"
)

// Renderer formats step descriptors for a terminal.
type Renderer struct {
	markdown *glamour.TermRenderer
	profile  termenv.Profile
}

// NewRenderer creates a terminal renderer. Prompts are treated as
// markdown and styled to match the terminal background.
func NewRenderer() *Renderer {
	md, _ := glamour.NewTermRenderer(glamour.WithAutoStyle())
	return &Renderer{
		markdown: md,
		profile:  termenv.ColorProfile(),
	}
}

// Step renders one question step: context label, prompt, help text and
// the choices of choice-presenting components.
func (r *Renderer) Step(step descriptor.StepDescriptor) string {
	var sb strings.Builder

	if step.ContextLabel != "" {
		label := termenv.String(step.ContextLabel).Foreground(r.profile.Color("6")).Bold()
		sb.WriteString(label.String())
		sb.WriteString("\n")
	}

	prompt := step.Prompt
	if r.markdown != nil {
		if rendered, err := r.markdown.Render(step.Prompt); err == nil {
			prompt = rendered
		}
	}
	sb.WriteString(strings.TrimRight(prompt, "\n"))
	sb.WriteString("\n")

	if step.Help != "" {
		help := termenv.String(step.Help).Foreground(r.profile.Color("8")).Italic()
		sb.WriteString(help.String())
		sb.WriteString("\n")
	}

	for i, choice := range step.Component.Choices {
		sb.WriteString(fmt.Sprintf("  %d) %s [%s]\n", i+1, choice.Label, choice.Value))
	}
	return sb.String()
}
