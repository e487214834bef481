package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cv-builder/internal/i18n"
)

func TestExtractJSON(t *testing.T) {
	m, err := ExtractJSON(`{"summary":"x"}`)
	require.NoError(t, err)
	assert.Equal(t, "x", m["summary"])

	m, err = ExtractJSON("Sure! ```json\n{\"summary\":\"y\"}\n``` hope it helps")
	require.NoError(t, err)
	assert.Equal(t, "y", m["summary"])

	_, err = ExtractJSON("no json here")
	assert.Error(t, err)

	_, err = ExtractJSON("null")
	assert.Error(t, err)
}

func TestNormalizeParsed(t *testing.T) {
	m := map[string]interface{}{
		"summary":    nil,
		"experience": nil,
		"skills": []interface{}{
			map[string]interface{}{"name": "Go", "level": 7.0},
			map[string]interface{}{"name": "SQL", "level": 2.4},
			map[string]interface{}{"name": "Rust", "level": "high"},
			"junk",
		},
		"languages": []interface{}{
			map[string]interface{}{"name": "German", "proficiency": "Okay", "id": nil},
		},
	}
	NormalizeParsed(m)

	for _, k := range ListSections {
		assert.IsType(t, []interface{}{}, m[k], k)
	}
	assert.NotContains(t, m, "summary")

	skills := m["skills"].([]interface{})
	require.Len(t, skills, 3)
	assert.Equal(t, 5, skills[0].(map[string]interface{})["level"])
	assert.Equal(t, 2, skills[1].(map[string]interface{})["level"])
	assert.NotContains(t, skills[2].(map[string]interface{}), "level")

	lang := m["languages"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Intermediate", lang["proficiency"])
	assert.NotContains(t, lang, "id")
}

func TestEnhancePrompt_Language(t *testing.T) {
	assert.Contains(t, EnhancePrompt(i18n.EN, "led team"), "Rewrite the following text")
	assert.Contains(t, EnhancePrompt(i18n.TR, "ekip yönettim"), "yeniden yaz")
	assert.Contains(t, EnhancePrompt(i18n.EN, "led team"), `"led team"`)
}
