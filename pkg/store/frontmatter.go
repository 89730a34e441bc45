package store

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/plancanvas/plancanvas/pkg/plan"
)

const frontmatterDelimiter = "---"

// document is the YAML frontmatter layout of a plan.md file. The embedded
// plan is inlined, so the frontmatter reads as one flat document. The plan's
// description is not part of the frontmatter; it is the markdown body.
type document struct {
	plan.LearningPlan `yaml:",inline"`
	Elements          []*plan.CanvasElement `yaml:"elements,omitempty"`
}

// ParsePlanFile splits a plan.md file into YAML frontmatter and body. The
// frontmatter carries the plan document and the canvas element list; the
// body becomes the plan description.
func ParsePlanFile(content string) (*plan.LearningPlan, []*plan.CanvasElement, error) {
	content = strings.TrimSpace(content)

	if !strings.HasPrefix(content, frontmatterDelimiter) {
		// No frontmatter — the whole file is a description
		p := plan.NewLearningPlan()
		p.Description = content
		return p, nil, nil
	}

	rest := content[len(frontmatterDelimiter):]
	idx := strings.Index(rest, "\n"+frontmatterDelimiter)
	if idx == -1 {
		return nil, nil, fmt.Errorf("unclosed frontmatter delimiter")
	}

	yamlContent := rest[:idx]
	body := rest[idx+len("\n"+frontmatterDelimiter):]
	body = strings.TrimLeft(body, "\n")

	doc := document{LearningPlan: *plan.NewLearningPlan()}
	if err := yaml.Unmarshal([]byte(yamlContent), &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing frontmatter YAML: %w", err)
	}

	doc.LearningPlan.Description = strings.TrimRight(body, "\n")
	return &doc.LearningPlan, doc.Elements, nil
}

// SerializePlanFile renders a plan and its canvas elements back to markdown
// with YAML frontmatter.
func SerializePlanFile(p *plan.LearningPlan, elements []*plan.CanvasElement) (string, error) {
	yamlBytes, err := yaml.Marshal(document{LearningPlan: *p, Elements: elements})
	if err != nil {
		return "", fmt.Errorf("serializing frontmatter YAML: %w", err)
	}

	var b strings.Builder
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	b.WriteString(strings.TrimRight(string(yamlBytes), "\n"))
	b.WriteString("\n")
	b.WriteString(frontmatterDelimiter)
	b.WriteString("\n")
	if p.Description != "" {
		b.WriteString("\n")
		b.WriteString(p.Description)
		if !strings.HasSuffix(p.Description, "\n") {
			b.WriteString("\n")
		}
	}

	return b.String(), nil
}
