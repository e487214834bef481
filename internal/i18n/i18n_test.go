package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, TR, Normalize("tr-TR", EN))
	assert.Equal(t, EN, Normalize("en_US", TR))
	assert.Equal(t, TR, Normalize(" TR ", EN))
	assert.Equal(t, TR, Normalize("de", TR))
	assert.Equal(t, EN, Normalize("", EN))
}

func TestBundlesFallBackToEnglish(t *testing.T) {
	assert.Equal(t, "Summary", LabelsFor("xx").Summary)
	assert.Equal(t, "Özet", LabelsFor(TR).Summary)
	assert.Equal(t, "Ad Soyad", SeedFor(TR).FullName)
	assert.Equal(t, "Metin yapay zeka ile geliştirilirken bir hata oluştu.", MessagesFor(TR).EnhanceFailed)
}

func TestName(t *testing.T) {
	assert.Equal(t, "Kurumsal", Name(TR, "template.corporate"))
	assert.Equal(t, "Dark Mode", Name(EN, "template.dark-mode"))
	assert.Equal(t, "template.unknown", Name(EN, "template.unknown"))
}

func TestEveryLanguageNamesEveryTemplate(t *testing.T) {
	for lang, b := range bundles {
		assert.Len(t, b.names, len(bundles[EN].names), "lang %s", lang)
		assert.Len(t, b.labels.Proficiency, 5, "lang %s", lang)
	}
}
