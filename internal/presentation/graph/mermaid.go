package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/chazz/pkg/markup"
)

// Overlay contains per-run match data to visualize on the pipeline.
type Overlay struct {
	// Matches maps a rule name to the number of tags it rewrote.
	Matches map[string]int
}

// GenerateMermaid produces a Mermaid flowchart of the rule pipeline, in application order.
// It applies semantic styling:
// - Input/Output: ((Circle))
// - Conditional render: [[Subroutine]]
// - Template rewrite: [Rectangle]
// Rules with matches in overlay are highlighted and annotated with their count.
func GenerateMermaid(rules []markup.RuleInfo, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	sb.WriteString("    input((\"input\"))\n")

	prev := "input"
	for _, rule := range rules {
		safeID := sanitizeMermaidID(rule.Name)

		opener, closer := "[", "]"
		if rule.Template == "" {
			opener, closer = "[[", "]]"
		}

		label := rule.Name
		if overlay != nil && overlay.Matches[rule.Name] > 0 {
			label = fmt.Sprintf("%s <br/> × %d", rule.Name, overlay.Matches[rule.Name])
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))
		sb.WriteString(fmt.Sprintf("    %s --> %s\n", prev, safeID))
		prev = safeID
	}

	sb.WriteString("    output((\"output\"))\n")
	sb.WriteString(fmt.Sprintf("    %s --> output\n", prev))

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast regardless of theme (Light/Dark)
		sb.WriteString("    classDef matched fill:#ffeb3b,stroke:#fbc02d,stroke-width:3px,color:#000;\n")
		for _, rule := range rules {
			if overlay.Matches[rule.Name] > 0 {
				sb.WriteString(fmt.Sprintf("    class %s matched;\n", sanitizeMermaidID(rule.Name)))
			}
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
