package spec

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// payload is the machine-readable portion of a spec document.
type payload struct {
	Task           string             `yaml:"task"`
	PointsPerCycle int                `yaml:"points_per_cycle"`
	Checkpoints    map[int]Checkpoint `yaml:"checkpoints"`
}

// ParseMarkdown parses a Markdown range spec document.
//
// The document must contain a fenced ```yaml block with the range payload.
// Prose paragraphs outside the block are preserved in TaskSpec.Notes.
func ParseMarkdown(source []byte) (*TaskSpec, error) {
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(source))

	var yamlBlock []byte
	var notes []string

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.FencedCodeBlock:
			lang := string(node.Language(source))
			if lang == "yaml" && yamlBlock == nil {
				var buf bytes.Buffer
				lines := node.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					buf.Write(seg.Value(source))
				}
				yamlBlock = buf.Bytes()
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph:
			var buf bytes.Buffer
			lines := node.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				buf.Write(seg.Value(source))
			}
			if s := strings.TrimSpace(buf.String()); s != "" {
				notes = append(notes, s)
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking spec document: %w", err)
	}

	if yamlBlock == nil {
		return nil, fmt.Errorf("spec document has no yaml payload block")
	}

	var p payload
	if err := yaml.Unmarshal(yamlBlock, &p); err != nil {
		return nil, fmt.Errorf("decoding spec payload: %w", err)
	}

	ts := &TaskSpec{
		Task:           p.Task,
		PointsPerCycle: p.PointsPerCycle,
		Checkpoints:    p.Checkpoints,
		Notes:          strings.Join(notes, "\n\n"),
	}

	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

// RenderMarkdown renders a task spec back to its Markdown document form.
// The result round-trips through ParseMarkdown.
func RenderMarkdown(s *TaskSpec) ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	p := payload{
		Task:           s.Task,
		PointsPerCycle: s.PointsPerCycle,
		Checkpoints:    s.Checkpoints,
	}

	body, err := yaml.Marshal(&p)
	if err != nil {
		return nil, fmt.Errorf("encoding spec payload: %w", err)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Validation Ranges: %s\n\n", s.Task)
	if s.Notes != "" {
		buf.WriteString(s.Notes)
		buf.WriteString("\n\n")
	}
	buf.WriteString("```yaml\n")
	buf.Write(body)
	buf.WriteString("```\n")

	return buf.Bytes(), nil
}
