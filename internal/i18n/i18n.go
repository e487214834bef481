// Package i18n holds the few user-facing strings the service produces on
// its own: section headings, seed document content and AI error messages.
package i18n

import "strings"

type Lang string

const (
	EN Lang = "en"
	TR Lang = "tr"
)

// Normalize maps an Accept-Language style tag onto a supported language.
// Anything unknown falls back to def.
func Normalize(tag string, def Lang) Lang {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_,;"); i >= 0 {
		tag = tag[:i]
	}
	switch Lang(tag) {
	case EN, TR:
		return Lang(tag)
	}
	return def
}

// Labels are the localized strings bound into rendered templates.
type Labels struct {
	Summary      string
	Experience   string
	Education    string
	Skills       string
	Languages    string
	Certificates string
	Projects     string
	References   string
	Hobbies      string
	Contact      string
	Present      string
	LinkedIn     string
	GitHub       string
	Website      string
	Proficiency  map[string]string
}

// Seed is the sample content a new document starts with.
type Seed struct {
	FullName string
	Summary  string
}

// Messages are user-visible error strings.
type Messages struct {
	EnhanceFailed string
	ParseFailed   string
}

type bundle struct {
	labels   Labels
	seed     Seed
	messages Messages
	names    map[string]string
}

var bundles = map[Lang]bundle{
	EN: {
		labels: Labels{
			Summary:      "Summary",
			Experience:   "Experience",
			Education:    "Education",
			Skills:       "Skills",
			Languages:    "Languages",
			Certificates: "Certificates",
			Projects:     "Projects",
			References:   "References",
			Hobbies:      "Hobbies",
			Contact:      "Contact",
			Present:      "Present",
			LinkedIn:     "LinkedIn",
			GitHub:       "GitHub",
			Website:      "Website",
			Proficiency: map[string]string{
				"Beginner":     "Beginner",
				"Intermediate": "Intermediate",
				"Advanced":     "Advanced",
				"Fluent":       "Fluent",
				"Native":       "Native",
			},
		},
		seed: Seed{
			FullName: "Full Name",
			Summary:  "Create a professional CV in minutes with ready-made templates and AI support.",
		},
		messages: Messages{
			EnhanceFailed: "An error occurred while enhancing text with AI.",
			ParseFailed:   "An error occurred while parsing the CV with AI. Please make sure the text is valid CV content.",
		},
		names: map[string]string{
			"template.minimalist":      "Minimalist",
			"template.corporate":       "Corporate",
			"template.creative-column": "Creative Column",
			"template.infographic":     "Infographic",
			"template.photo-focus":     "Photo Focus",
			"template.dark-mode":       "Dark Mode",
			"template.color-block":     "Color Block",
			"template.typographic":     "Typographic",
			"template.modern-grid":     "Modern Grid",
			"template.sidebar-nav":     "Sidebar Navigation",
		},
	},
	TR: {
		labels: Labels{
			Summary:      "Özet",
			Experience:   "Deneyim",
			Education:    "Eğitim",
			Skills:       "Yetenekler",
			Languages:    "Diller",
			Certificates: "Sertifikalar",
			Projects:     "Projeler",
			References:   "Referanslar",
			Hobbies:      "Hobiler",
			Contact:      "İletişim",
			Present:      "Halen",
			LinkedIn:     "LinkedIn",
			GitHub:       "GitHub",
			Website:      "Web Sitesi",
			Proficiency: map[string]string{
				"Beginner":     "Başlangıç",
				"Intermediate": "Orta",
				"Advanced":     "İleri",
				"Fluent":       "Akıcı",
				"Native":       "Ana Dil",
			},
		},
		seed: Seed{
			FullName: "Ad Soyad",
			Summary:  "Hazır şablonlar ve yapay zeka desteğiyle dakikalar içinde profesyonel bir CV oluşturun.",
		},
		messages: Messages{
			EnhanceFailed: "Metin yapay zeka ile geliştirilirken bir hata oluştu.",
			ParseFailed:   "Yapay zeka CV'yi ayrıştırırken bir hata oluştu. Lütfen metnin geçerli bir CV içeriği olduğundan emin olun.",
		},
		names: map[string]string{
			"template.minimalist":      "Minimalist",
			"template.corporate":       "Kurumsal",
			"template.creative-column": "Yaratıcı Sütun",
			"template.infographic":     "İnfografik",
			"template.photo-focus":     "Fotoğraf Odaklı",
			"template.dark-mode":       "Karanlık Mod",
			"template.color-block":     "Renk Bloğu",
			"template.typographic":     "Tipografik",
			"template.modern-grid":     "Modern Izgara",
			"template.sidebar-nav":     "Kenar Çubuğu",
		},
	},
}

func get(lang Lang) bundle {
	if b, ok := bundles[lang]; ok {
		return b
	}
	return bundles[EN]
}

func LabelsFor(lang Lang) Labels { return get(lang).labels }
func SeedFor(lang Lang) Seed { return get(lang).seed }
func MessagesFor(lang Lang) Messages { return get(lang).messages }

// Name resolves a display-name key such as "template.minimalist". Unknown
// keys are returned as-is.
func Name(lang Lang, key string) string {
	if n, ok := get(lang).names[key]; ok {
		return n
	}
	return key
}
