package types

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Category is the application-level bucket an entity is grouped into.
type Category int

const (
	CategoryOther Category = iota
	CategoryPersons
	CategoryOrganizations
	CategoryLocations
	CategorySkills
	CategoryWorkExperience
	CategoryEducation
)

var categoryNames = map[Category]string{
	CategoryOther:          "Other",
	CategoryPersons:        "Persons",
	CategoryOrganizations:  "Organizations",
	CategoryLocations:      "Locations",
	CategorySkills:         "Skills",
	CategoryWorkExperience: "WorkExperience",
	CategoryEducation:      "Education",
}

// AllCategories lists every category in declaration order.
var AllCategories = []Category{
	CategoryPersons,
	CategoryOrganizations,
	CategoryLocations,
	CategorySkills,
	CategoryWorkExperience,
	CategoryEducation,
	CategoryOther,
}

func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return categoryNames[CategoryOther]
}

// MarshalText lets Category be used as a JSON object key.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory returns the category with the given display name.
func ParseCategory(name string) (Category, error) {
	for c, n := range categoryNames {
		if n == name {
			return c, nil
		}
	}
	return CategoryOther, fmt.Errorf("unknown category: %q", name)
}

// CategoryMap maps each category to its cleaned, deduplicated values.
// Categories with no surviving values are absent.
type CategoryMap map[Category][]string

// Get returns the values for c, or nil if the category is absent.
func (m CategoryMap) Get(c Category) []string {
	return m[c]
}

// Categories returns the present categories in declaration order.
func (m CategoryMap) Categories() []Category {
	out := make([]Category, 0, len(m))
	for c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarshalJSON encodes the map with category names as keys.
func (m CategoryMap) MarshalJSON() ([]byte, error) {
	out := make(map[string][]string, len(m))
	for c, values := range m {
		out[c.String()] = values
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a map keyed by category name.
func (m *CategoryMap) UnmarshalJSON(data []byte) error {
	var raw map[string][]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(CategoryMap, len(raw))
	for name, values := range raw {
		c, err := ParseCategory(name)
		if err != nil {
			return err
		}
		out[c] = values
	}
	*m = out
	return nil
}
