package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/KhymNad/resume-matcher-api/internal/pipeline"
	"github.com/KhymNad/resume-matcher-api/internal/types"
)

func TestPrintCategories(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCategories(types.CategoryMap{
		types.CategorySkills:    {"Go", "Kubernetes"},
		types.CategoryEducation: {"Bachelor"},
	})
	output := buf.String()

	assert.Contains(t, output, "EXTRACTED ENTITIES")
	assert.Contains(t, output, "Skills (2):")
	assert.Contains(t, output, "• Kubernetes")
	assert.Contains(t, output, "Education (1):")
	assert.Less(t, strings.Index(output, "Skills"), strings.Index(output, "Education"))
}

func TestPrintCategories_Truncates(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	values := make([]string, maxItemsToShow+3)
	for i := range values {
		values[i] = "Skill"
	}
	p.PrintCategories(types.CategoryMap{types.CategorySkills: values})

	assert.Contains(t, buf.String(), "... and 3 more")
}

func TestPrintCategories_Empty(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintCategories(nil)
	p.PrintCategories(types.CategoryMap{})

	assert.Empty(t, buf.String())
}

func TestPrintMatchedSkills(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	score := 0.87
	p.PrintMatchedSkills([]types.MatchedSkill{
		{Skill: "Go", Source: types.SkillSourceNER, Score: &score},
		{Skill: "Machine Learning", Source: types.SkillSourceNGram},
	})
	output := buf.String()

	assert.Contains(t, output, "MATCHED SKILLS")
	assert.Contains(t, output, "Total skills matched: 2")
	assert.Contains(t, output, "[NER] 0.87")
	assert.Contains(t, output, "[ngram]")
}

func TestPrintMatchedSkills_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintMatchedSkills(nil)
	assert.Empty(t, buf.String())
}

func TestPrintResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	id := uuid.New()
	p.PrintResult(&pipeline.Result{
		ID:          id,
		Categories:  types.CategoryMap{types.CategoryPersons: {"Jane Doe"}},
		Skills:      []types.MatchedSkill{{Skill: "Go", Source: types.SkillSourceSubstring}},
		ChunkCount:  2,
		EntityCount: 14,
		TagMapping:  "v2",
		Duration:    1500 * time.Millisecond,
	})
	output := buf.String()

	assert.Contains(t, output, "RUN SUMMARY")
	assert.Contains(t, output, id.String())
	assert.Contains(t, output, "Chunks:      2")
	assert.Contains(t, output, "Duration:    1.5s")
	assert.Contains(t, output, "Jane Doe")
	assert.Contains(t, output, "[substring]")

	buf.Reset()
	p.PrintResult(nil)
	assert.Empty(t, buf.String())
}

func TestPrintProgress(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintProgress(pipeline.ProgressEvent{Step: "merge", Message: "Merged into 3 entities"})
	assert.Equal(t, "[merge] Merged into 3 entities\n", buf.String())
}

func TestPrintBox_LongLineTruncated(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.printBox("TITLE", strings.Repeat("é", boxWidth*2))

	for _, line := range strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), line)
	}
	assert.Contains(t, buf.String(), "...")
}
