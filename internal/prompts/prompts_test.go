package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkill(t *testing.T) {
	p, err := Skill("specificity")
	require.NoError(t, err)
	assert.Contains(t, p.System, "specificity")
	assert.Contains(t, p.User, "{{range .Skills}}")

	_, err = Skill("summary")
	assert.ErrorContains(t, err, `prompt "summary" not found`)
}

func TestRender_Specificity(t *testing.T) {
	p, err := Skill("specificity")
	require.NoError(t, err)

	rendered, err := p.Render(map[string]any{"Skills": []string{"Go", "Teamwork"}})
	require.NoError(t, err)
	assert.Equal(t, p.System, rendered.System)
	assert.Contains(t, rendered.User, "these 2 resume skills:\n- Go\n- Teamwork\n")
	assert.Contains(t, rendered.User, `"skill_name"`)
}

func TestRender_Errors(t *testing.T) {
	_, err := Prompt{User: "{{.Missing}}"}.Render(map[string]any{})
	assert.ErrorContains(t, err, "failed to render user prompt")

	_, err = Prompt{System: "{{"}.Render(nil)
	assert.ErrorContains(t, err, "failed to parse system prompt")
}
