package model

import (
	"time"

	"cv-builder/internal/i18n"
)

const (
	DefaultSkillLevel    = 3
	DefaultProfilePicURL = "https://picsum.photos/200"
)

// NewDefault builds the sample document a fresh CV starts from. It has
// every required section seeded and no optional section.
func NewDefault(lang i18n.Lang, userEmail string, now time.Time) *Document {
	seed := i18n.SeedFor(lang)
	now = now.UTC()
	return &Document{
		ID:        NewID(),
		UserEmail: userEmail,
		Title:     seed.FullName + " CV",
		PersonalInfo: PersonalInfo{
			FullName:       seed.FullName,
			Email:          "email@example.com",
			PhoneNumber:    "+90 555 123 4567",
			Address:        "City, Country",
			ProfilePicture: DefaultProfilePicURL,
		},
		Summary: seed.Summary,
		Experience: []Experience{{
			ID:          NewID(),
			Title:       "Software Developer",
			Company:     "Tech Inc.",
			Location:    "Istanbul",
			StartDate:   "2022-01",
			EndDate:     PresentSentinel,
			Description: "Developed modern web applications using React and TypeScript. Worked within the team to improve code quality.",
		}},
		Education: []Education{{
			ID:           NewID(),
			Institution:  "University Name",
			Degree:       "Bachelor",
			FieldOfStudy: "Computer Engineering",
			StartDate:    "2018-09",
			EndDate:      "2022-06",
		}},
		Skills: []Skill{
			{ID: NewID(), Name: "React", Level: 4},
			{ID: NewID(), Name: "TypeScript", Level: 4},
			{ID: NewID(), Name: "Node.js", Level: 3},
		},
		Languages: []Language{
			{ID: NewID(), Name: "English", Proficiency: Advanced},
		},
		CreatedAt:   now,
		LastUpdated: now,
	}
}

// NewDocument creates a document for userEmail from the language default,
// overlaid with imported data when given. Imported lists replace the
// seeded ones (a nil list keeps the seed). Every item gets a fresh id.
func NewDocument(lang i18n.Lang, userEmail string, imported *Document, now time.Time) *Document {
	doc := NewDefault(lang, userEmail, now)
	if imported != nil {
		if imported.Title != "" {
			doc.Title = imported.Title
		}
		if imported.Summary != "" {
			doc.Summary = imported.Summary
		}
		mergePersonalInfo(&doc.PersonalInfo, imported.PersonalInfo)
		if imported.Experience != nil {
			doc.Experience = cloneSlice(imported.Experience)
		}
		if imported.Education != nil {
			doc.Education = cloneSlice(imported.Education)
		}
		if imported.Skills != nil {
			doc.Skills = cloneSlice(imported.Skills)
		}
		if imported.Languages != nil {
			doc.Languages = cloneSlice(imported.Languages)
		}
		doc.Certificates = imported.Certificates.clone()
		doc.Projects = imported.Projects.clone()
		doc.References = imported.References.clone()
		doc.Hobbies = imported.Hobbies.clone()
	}
	rekey(doc)
	return doc
}

func mergePersonalInfo(dst *PersonalInfo, src PersonalInfo) {
	set := func(d *string, s string) {
		if s != "" {
			*d = s
		}
	}
	set(&dst.FullName, src.FullName)
	set(&dst.Email, src.Email)
	set(&dst.PhoneNumber, src.PhoneNumber)
	set(&dst.Address, src.Address)
	set(&dst.LinkedIn, src.LinkedIn)
	set(&dst.GitHub, src.GitHub)
	set(&dst.Website, src.Website)
	set(&dst.ProfilePicture, src.ProfilePicture)
}

func rekey(d *Document) {
	for i := range d.Experience {
		d.Experience[i].ID = NewID()
	}
	for i := range d.Education {
		d.Education[i].ID = NewID()
	}
	for i := range d.Skills {
		d.Skills[i].ID = NewID()
		if d.Skills[i].Level == 0 {
			d.Skills[i].Level = DefaultSkillLevel
		}
	}
	for i := range d.Languages {
		d.Languages[i].ID = NewID()
		if d.Languages[i].Proficiency == "" {
			d.Languages[i].Proficiency = Intermediate
		}
	}
	for i := range d.Certificates.Items {
		d.Certificates.Items[i].ID = NewID()
	}
	for i := range d.Projects.Items {
		d.Projects.Items[i].ID = NewID()
	}
	for i := range d.References.Items {
		d.References.Items[i].ID = NewID()
	}
	for i := range d.Hobbies.Items {
		d.Hobbies.Items[i].ID = NewID()
	}
}
