package model

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"cv-builder/internal/domain"

	"github.com/google/uuid"
)

// Every With* method leaves the receiver untouched and returns a new
// Document, so callers can detect change by pointer identity.

// WithField sets one field. With an index the section must be a list and
// the item at index is shallow-merged with {key: value}. Without one,
// personalInfo is shallow-merged and title/summary are set directly.
func (d *Document) WithField(section SectionName, key string, value any, index *int) (*Document, error) {
	next := d.Clone()
	var err error
	if index != nil {
		i := *index
		switch section {
		case SectionExperience:
			next.Experience, err = patchAt(next.Experience, i, key, value)
		case SectionEducation:
			next.Education, err = patchAt(next.Education, i, key, value)
		case SectionSkills:
			next.Skills, err = patchAt(next.Skills, i, key, value)
		case SectionLanguages:
			next.Languages, err = patchAt(next.Languages, i, key, value)
		case SectionCertificates:
			err = patchOptional(&next.Certificates, section, i, key, value)
		case SectionProjects:
			err = patchOptional(&next.Projects, section, i, key, value)
		case SectionReferences:
			err = patchOptional(&next.References, section, i, key, value)
		case SectionHobbies:
			err = patchOptional(&next.Hobbies, section, i, key, value)
		default:
			err = domain.NewValidationError(string(section), "section is not a list")
		}
	} else {
		switch section {
		case SectionPersonalInfo:
			next.PersonalInfo, err = patch(next.PersonalInfo, key, value)
		case SectionTitle, SectionSummary:
			s, ok := value.(string)
			if !ok {
				return nil, domain.NewValidationError(string(section), "must be a string")
			}
			if section == SectionTitle {
				next.Title = s
			} else {
				next.Summary = s
			}
		default:
			if section.IsList() {
				err = domain.NewValidationError(string(section), "an item index is required")
			} else {
				err = domain.NewValidationError(string(section), "unknown section")
			}
		}
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

// WithCurrentlyEmployed toggles the "currently employed" flag of an
// experience entry. On sets the sentinel, off leaves an empty end date.
func (d *Document) WithCurrentlyEmployed(index int, on bool) (*Document, error) {
	end := ""
	if on {
		end = PresentSentinel
	}
	return d.WithField(SectionExperience, "endDate", end, &index)
}

// WithItemAdded appends a blank item with a fresh id. Optional sections
// must have been added first.
func (d *Document) WithItemAdded(section SectionName) (*Document, error) {
	next := d.Clone()
	var err error
	switch section {
	case SectionExperience:
		next.Experience = append(next.Experience, Experience{ID: NewID()})
	case SectionEducation:
		next.Education = append(next.Education, Education{ID: NewID()})
	case SectionSkills:
		next.Skills = append(next.Skills, Skill{ID: NewID(), Level: DefaultSkillLevel})
	case SectionLanguages:
		next.Languages = append(next.Languages, Language{ID: NewID(), Proficiency: Intermediate})
	case SectionCertificates:
		err = appendOptional(&next.Certificates, section, Certificate{ID: NewID()})
	case SectionProjects:
		err = appendOptional(&next.Projects, section, Project{ID: NewID()})
	case SectionReferences:
		err = appendOptional(&next.References, section, Reference{ID: NewID()})
	case SectionHobbies:
		err = appendOptional(&next.Hobbies, section, Hobby{ID: NewID()})
	default:
		err = domain.NewValidationError(string(section), "section is not a list")
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

// WithItemRemoved drops the item at index.
func (d *Document) WithItemRemoved(section SectionName, index int) (*Document, error) {
	next := d.Clone()
	var err error
	switch section {
	case SectionExperience:
		next.Experience, err = removeAt(next.Experience, section, index)
	case SectionEducation:
		next.Education, err = removeAt(next.Education, section, index)
	case SectionSkills:
		next.Skills, err = removeAt(next.Skills, section, index)
	case SectionLanguages:
		next.Languages, err = removeAt(next.Languages, section, index)
	case SectionCertificates:
		next.Certificates.Items, err = removeAt(next.Certificates.Items, section, index)
	case SectionProjects:
		next.Projects.Items, err = removeAt(next.Projects.Items, section, index)
	case SectionReferences:
		next.References.Items, err = removeAt(next.References.Items, section, index)
	case SectionHobbies:
		next.Hobbies.Items, err = removeAt(next.Hobbies.Items, section, index)
	default:
		err = domain.NewValidationError(string(section), "section is not a list")
	}
	if err != nil {
		return nil, err
	}
	return next, nil
}

// WithOptionalSection adds an absent optional section as an empty list.
// When the section is already present d itself is returned and added is
// false.
func (d *Document) WithOptionalSection(section SectionName) (next *Document, added bool, err error) {
	if !section.IsOptional() {
		return nil, false, domain.NewValidationError(string(section), "not an optional section")
	}
	if d.HasSection(section) {
		return d, false, nil
	}
	next = d.Clone()
	switch section {
	case SectionCertificates:
		next.Certificates = Some[Certificate]()
	case SectionProjects:
		next.Projects = Some[Project]()
	case SectionReferences:
		next.References = Some[Reference]()
	case SectionHobbies:
		next.Hobbies = Some[Hobby]()
	}
	return next, true, nil
}

func NewID() string { return uuid.NewString() }

func patchOptional[T any](o *Optional[T], section SectionName, index int, key string, value any) error {
	if !o.Present {
		return domain.NewValidationError(string(section), "section has not been added")
	}
	items, err := patchAt(o.Items, index, key, value)
	if err != nil {
		return err
	}
	o.Items = items
	return nil
}

func appendOptional[T any](o *Optional[T], section SectionName, item T) error {
	if !o.Present {
		return domain.NewValidationError(string(section), "section has not been added")
	}
	o.Items = append(o.Items, item)
	return nil
}

func patchAt[T any](items []T, index int, key string, value any) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, domain.NewValidationError("index", "%d is out of range", index)
	}
	item, err := patch(items[index], key, value)
	if err != nil {
		return nil, err
	}
	items[index] = item
	return items, nil
}

func removeAt[T any](items []T, section SectionName, index int) ([]T, error) {
	if index < 0 || index >= len(items) {
		return nil, domain.NewValidationError(string(section), "index %d is out of range", index)
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...), nil
}

// patch shallow-merges {key: value} into v through its JSON form so the
// value is converted the same way a client payload would be.
func patch[T any](v T, key string, value any) (T, error) {
	var zero T
	if key == "id" || !hasJSONKey(reflect.TypeOf(v), key) {
		return zero, domain.NewValidationError(key, "unknown or read-only field")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return zero, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return zero, err
	}
	m[key] = value
	if raw, err = json.Marshal(m); err != nil {
		return zero, domain.NewValidationError(key, "invalid value")
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return zero, domain.NewValidationError(key, "invalid value")
	}
	return out, nil
}

func hasJSONKey(t reflect.Type, key string) bool {
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == key {
			return true
		}
	}
	return false
}
