package skills

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store is the bulk source of skill display names.
type Store interface {
	LoadSkillNames(ctx context.Context) ([]string, error)
}

// StoreError wraps a failure to read the skill vocabulary.
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("skill store: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("skill store: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// StaticStore serves a fixed list of names.
type StaticStore []string

// LoadSkillNames returns a copy of the list.
func (s StaticStore) LoadSkillNames(context.Context) ([]string, error) {
	return append([]string(nil), s...), nil
}

// FileStore reads skill names from a YAML file, either a top-level list or a
// document with a "skills" list.
type FileStore struct {
	Path string
}

type skillFile struct {
	Skills []string `yaml:"skills"`
}

// LoadSkillNames reads and parses the file.
func (f FileStore) LoadSkillNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read skills file %s: %w", f.Path, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("failed to parse skills file %s: %w", f.Path, err)
	}
	if len(node.Content) == 0 {
		return []string{}, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		var names []string
		if err := root.Decode(&names); err != nil {
			return nil, fmt.Errorf("failed to decode skills list: %w", err)
		}
		return names, nil
	}

	var doc skillFile
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode skills document: %w", err)
	}
	if doc.Skills == nil {
		return []string{}, nil
	}
	return doc.Skills, nil
}
