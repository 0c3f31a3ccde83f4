package extraction

import (
	"fmt"
	"strings"

	"github.com/KhymNad/resume-matcher-api/internal/types"
)

// TagMapping is a versioned lookup table from upper-cased model tags to
// categories. Tags missing from the table map to types.CategoryOther.
type TagMapping struct {
	Version string
	table   map[string]types.Category
}

var (
	// TagMappingV1 keeps organizations as their own category.
	TagMappingV1 = newTagMapping("v1", map[types.Category][]string{
		types.CategoryPersons:        {"PER", "PERSON"},
		types.CategoryLocations:      {"LOC", "LOCATION"},
		types.CategoryOrganizations:  {"ORG", "ORGANIZATION"},
		types.CategorySkills:         {"MISC", "SKILL", "SKILLS", "TECH", "TECHNOLOGY"},
		types.CategoryWorkExperience: {"JOB", "ROLE", "TITLE", "POSITION", "OCCUPATION", "WORK_EXP", "WORK_EXPERIENCE"},
		types.CategoryEducation:      {"EDU", "EDUCATION", "SCHOOL", "DEGREE"},
	})

	// TagMappingV2 folds organizations into skills.
	TagMappingV2 = newTagMapping("v2", map[types.Category][]string{
		types.CategoryPersons:        {"PER", "PERSON"},
		types.CategoryLocations:      {"LOC", "LOCATION"},
		types.CategorySkills:         {"MISC", "SKILL", "SKILLS", "TECH", "TECHNOLOGY", "ORG", "ORGANIZATION"},
		types.CategoryWorkExperience: {"JOB", "ROLE", "TITLE", "POSITION", "OCCUPATION", "WORK_EXP", "WORK_EXPERIENCE"},
		types.CategoryEducation:      {"EDU", "EDUCATION", "SCHOOL", "DEGREE"},
	})

	// DefaultTagMapping is the mapping used when none is configured.
	DefaultTagMapping = TagMappingV2
)

func newTagMapping(version string, byCategory map[types.Category][]string) TagMapping {
	table := make(map[string]types.Category)
	for category, tags := range byCategory {
		for _, tag := range tags {
			table[tag] = category
		}
	}
	return TagMapping{Version: version, table: table}
}

// TagMappingByVersion returns the mapping registered under version.
// An empty version selects DefaultTagMapping.
func TagMappingByVersion(version string) (TagMapping, error) {
	switch strings.ToLower(version) {
	case "":
		return DefaultTagMapping, nil
	case TagMappingV1.Version:
		return TagMappingV1, nil
	case TagMappingV2.Version:
		return TagMappingV2, nil
	default:
		return TagMapping{}, fmt.Errorf("unknown tag mapping version: %q", version)
	}
}

// Categorize maps a simplified tag to its category. It is total: any input,
// including the empty string, yields a category.
func (m TagMapping) Categorize(tag string) types.Category {
	if category, ok := m.table[strings.ToUpper(tag)]; ok {
		return category
	}
	return types.CategoryOther
}
