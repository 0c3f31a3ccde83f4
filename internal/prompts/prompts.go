// Package prompts holds the LLM prompt templates embedded in the binary.
package prompts

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"
	"text/template"
)

//go:embed skills.json
var skillsJSON []byte

// Prompt is a system and user message pair. Both are text/template sources
// until rendered.
type Prompt struct {
	System string `json:"system"`
	User   string `json:"user"`
}

var loadSkillPrompts = sync.OnceValues(func() (map[string]Prompt, error) {
	var prompts map[string]Prompt
	if err := json.Unmarshal(skillsJSON, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse skills.json: %w", err)
	}
	return prompts, nil
})

// Skill returns the skill prompt registered under name.
func Skill(name string) (Prompt, error) {
	prompts, err := loadSkillPrompts()
	if err != nil {
		return Prompt{}, err
	}
	p, ok := prompts[name]
	if !ok {
		return Prompt{}, fmt.Errorf("prompt %q not found in skills.json", name)
	}
	return p, nil
}

// Render executes both templates against data. Missing fields are errors.
func (p Prompt) Render(data any) (Prompt, error) {
	system, err := render("system", p.System, data)
	if err != nil {
		return Prompt{}, err
	}
	user, err := render("user", p.User, data)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{System: system, User: user}, nil
}

func render(name, source string, data any) (string, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s prompt: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
