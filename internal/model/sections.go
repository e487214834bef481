package model

// SectionName identifies a part of a Document that the editor shows as a
// panel.
type SectionName string

const (
	SectionTitle        SectionName = "title"
	SectionPersonalInfo SectionName = "personalInfo"
	SectionSummary      SectionName = "summary"
	SectionExperience   SectionName = "experience"
	SectionEducation    SectionName = "education"
	SectionSkills       SectionName = "skills"
	SectionLanguages    SectionName = "languages"
	SectionCertificates SectionName = "certificates"
	SectionProjects     SectionName = "projects"
	SectionReferences   SectionName = "references"
	SectionHobbies      SectionName = "hobbies"
)

// RequiredSections are always present on a Document, in panel order.
var RequiredSections = []SectionName{
	SectionPersonalInfo,
	SectionSummary,
	SectionEducation,
	SectionExperience,
	SectionSkills,
	SectionLanguages,
}

// OptionalSections may be absent from a Document.
var OptionalSections = []SectionName{
	SectionCertificates,
	SectionProjects,
	SectionReferences,
	SectionHobbies,
}

func (s SectionName) IsOptional() bool {
	for _, o := range OptionalSections {
		if o == s {
			return true
		}
	}
	return false
}

// IsList reports whether the section holds an ordered list of items.
func (s SectionName) IsList() bool {
	switch s {
	case SectionExperience, SectionEducation, SectionSkills, SectionLanguages:
		return true
	}
	return s.IsOptional()
}

func (s SectionName) Known() bool {
	if s == SectionTitle {
		return true
	}
	for _, r := range RequiredSections {
		if r == s {
			return true
		}
	}
	return s.IsOptional()
}

// LabelKey is the translation key of the section heading.
func (s SectionName) LabelKey() string { return "section." + string(s) }

// HasSection reports whether the section is present. Required sections
// always are.
func (d *Document) HasSection(s SectionName) bool {
	switch s {
	case SectionCertificates:
		return d.Certificates.Present
	case SectionProjects:
		return d.Projects.Present
	case SectionReferences:
		return d.References.Present
	case SectionHobbies:
		return d.Hobbies.Present
	}
	return s.Known()
}

// MissingSections lists the optional sections not yet added, which the
// editor offers as "add this section".
func (d *Document) MissingSections() []SectionName {
	var out []SectionName
	for _, s := range OptionalSections {
		if !d.HasSection(s) {
			out = append(out, s)
		}
	}
	return out
}

// ItemCount is the length of a list section, 0 when absent.
func (d *Document) ItemCount(s SectionName) int {
	switch s {
	case SectionExperience:
		return len(d.Experience)
	case SectionEducation:
		return len(d.Education)
	case SectionSkills:
		return len(d.Skills)
	case SectionLanguages:
		return len(d.Languages)
	case SectionCertificates:
		return d.Certificates.Len()
	case SectionProjects:
		return d.Projects.Len()
	case SectionReferences:
		return d.References.Len()
	case SectionHobbies:
		return d.Hobbies.Len()
	}
	return 0
}
