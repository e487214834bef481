package formatters

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ListSections are always present in a parsed CV, empty when the model
// returned nothing for them.
var ListSections = []string{
	"experience", "education", "skills", "languages",
	"certificates", "projects", "references", "hobbies",
}

var proficiencies = map[string]bool{
	"Beginner": true, "Intermediate": true, "Advanced": true, "Fluent": true, "Native": true,
}

// ExtractJSON decodes the model output as a JSON object. When the output
// carries prose or code fences around the object, the outermost {...} is
// tried instead.
func ExtractJSON(s string) (map[string]interface{}, error) {
	var m map[string]interface{}
	err := json.Unmarshal([]byte(s), &m)
	if err == nil && m != nil {
		return m, nil
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start >= 0 && end > start {
		if err2 := json.Unmarshal([]byte(s[start:end+1]), &m); err2 == nil && m != nil {
			return m, nil
		}
	}
	if err == nil {
		err = errors.New("not an object")
	}
	return nil, fmt.Errorf("model returned non-json content: %w", err)
}

// NormalizeParsed fills missing list sections, drops null or mistyped
// values and coerces skill levels and proficiencies into their ranges.
// It mutates m in place.
func NormalizeParsed(m map[string]interface{}) {
	for _, k := range ListSections {
		if _, ok := m[k].([]interface{}); !ok {
			m[k] = []interface{}{}
		}
	}
	for _, k := range []string{"title", "summary"} {
		if _, ok := m[k].(string); !ok {
			delete(m, k)
		}
	}
	if _, ok := m["personalInfo"].(map[string]interface{}); !ok {
		delete(m, "personalInfo")
	}
	for _, k := range ListSections {
		m[k] = objectsOnly(m[k].([]interface{}))
	}

	for _, raw := range m["skills"].([]interface{}) {
		skill := raw.(map[string]interface{})
		switch lvl := skill["level"].(type) {
		case float64:
			skill["level"] = int(math.Max(1, math.Min(5, math.Round(lvl))))
		default:
			delete(skill, "level")
		}
	}
	for _, raw := range m["languages"].([]interface{}) {
		lang := raw.(map[string]interface{})
		if p, _ := lang["proficiency"].(string); !proficiencies[p] {
			lang["proficiency"] = "Intermediate"
		}
	}
}

func objectsOnly(items []interface{}) []interface{} {
	out := make([]interface{}, 0, len(items))
	for _, it := range items {
		obj, ok := it.(map[string]interface{})
		if !ok {
			continue
		}
		for k, v := range obj {
			if v == nil {
				delete(obj, k)
			}
		}
		out = append(out, obj)
	}
	return out
}
