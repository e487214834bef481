package model

import (
	"testing"

	"cv-builder/internal/i18n"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultShape(t *testing.T) {
	doc := NewDefault(i18n.EN, "jane@x.io", fixedNow)

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "jane@x.io", doc.UserEmail)
	assert.Equal(t, "Full Name CV", doc.Title)
	require.Len(t, doc.Experience, 1)
	assert.True(t, doc.Experience[0].IsCurrent())
	assert.Len(t, doc.Education, 1)
	require.Len(t, doc.Skills, 3)
	assert.Equal(t, []int{4, 4, 3}, []int{doc.Skills[0].Level, doc.Skills[1].Level, doc.Skills[2].Level})
	require.Len(t, doc.Languages, 1)
	assert.Equal(t, Advanced, doc.Languages[0].Proficiency)
	for _, s := range OptionalSections {
		assert.False(t, doc.HasSection(s), s)
	}
	assert.Equal(t, fixedNow, doc.CreatedAt)
	require.NoError(t, doc.Validate())
}

func TestNewDefaultLocalized(t *testing.T) {
	doc := NewDefault(i18n.TR, "a@b.co", fixedNow)
	assert.Equal(t, "Ad Soyad", doc.PersonalInfo.FullName)
	assert.Equal(t, "Ad Soyad CV", doc.Title)
}

func TestNewDocumentOverlaysImport(t *testing.T) {
	imported := &Document{
		PersonalInfo: PersonalInfo{FullName: "Jane Doe", Email: "jane@doe.io"},
		Summary:      "Backend engineer.",
		Experience:   []Experience{},
		Skills:       []Skill{{ID: "keep-me-not", Name: "Go"}},
		Projects:     Some(Project{Name: "cvgen", Description: "generator"}),
		Hobbies:      Some[Hobby](),
	}
	doc := NewDocument(i18n.EN, "jane@doe.io", imported, fixedNow)

	assert.Equal(t, "Jane Doe", doc.PersonalInfo.FullName)
	assert.Equal(t, "+90 555 123 4567", doc.PersonalInfo.PhoneNumber)
	assert.Equal(t, "Backend engineer.", doc.Summary)
	assert.Empty(t, doc.Experience)
	assert.Len(t, doc.Education, 1, "nil list keeps the seed")
	require.Len(t, doc.Skills, 1)
	assert.NotEqual(t, "keep-me-not", doc.Skills[0].ID)
	assert.Equal(t, DefaultSkillLevel, doc.Skills[0].Level)
	require.Equal(t, 1, doc.Projects.Len())
	assert.NotEmpty(t, doc.Projects.Items[0].ID)
	assert.True(t, doc.Hobbies.Present)
	assert.False(t, doc.Certificates.Present)

	assert.Equal(t, "keep-me-not", imported.Skills[0].ID, "import is not mutated")
}

func TestNewDocumentIDsAreUnique(t *testing.T) {
	doc := NewDocument(i18n.EN, "a@b.co", nil, fixedNow)
	seen := map[string]bool{doc.ID: true}
	for _, s := range doc.Skills {
		assert.False(t, seen[s.ID])
		seen[s.ID] = true
	}
}
