package model

import (
	"strings"
	"time"
)

// PresentSentinel in an end date means the entry is ongoing.
const PresentSentinel = "Present"

type Proficiency string

const (
	Beginner     Proficiency = "Beginner"
	Intermediate Proficiency = "Intermediate"
	Advanced     Proficiency = "Advanced"
	Fluent       Proficiency = "Fluent"
	Native       Proficiency = "Native"
)

var Proficiencies = []Proficiency{Beginner, Intermediate, Advanced, Fluent, Native}

type PersonalInfo struct {
	FullName       string `json:"fullName"`
	Email          string `json:"email" validate:"omitempty,email"`
	PhoneNumber    string `json:"phoneNumber"`
	Address        string `json:"address"`
	LinkedIn       string `json:"linkedin" validate:"omitempty,url"`
	GitHub         string `json:"github" validate:"omitempty,url"`
	Website        string `json:"website" validate:"omitempty,url"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,picture"`
}

// HasInlinePicture reports whether the picture is embedded as a data URI.
func (p PersonalInfo) HasInlinePicture() bool {
	return strings.HasPrefix(p.ProfilePicture, "data:")
}

// PictureURL is the value shown in a plain URL input. Inline images are
// never exposed there.
func (p PersonalInfo) PictureURL() string {
	if p.HasInlinePicture() {
		return ""
	}
	return p.ProfilePicture
}

type Experience struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	StartDate   string `json:"startDate" validate:"omitempty,month"`
	EndDate     string `json:"endDate" validate:"omitempty,present_or_month"`
	Description string `json:"description"`
}

// IsCurrent is the "currently employed" flag. It is derived from EndDate so
// the two can never disagree.
func (e Experience) IsCurrent() bool { return e.EndDate == PresentSentinel }

// EditableEndDate is the end date as shown in a date input.
func (e Experience) EditableEndDate() string {
	if e.IsCurrent() {
		return ""
	}
	return e.EndDate
}

type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate" validate:"omitempty,month"`
	EndDate      string `json:"endDate" validate:"omitempty,present_or_month"`
}

type Skill struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Level int    `json:"level" validate:"min=1,max=5"`
}

type Language struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency" validate:"oneof=Beginner Intermediate Advanced Fluent Native"`
}

type Certificate struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Issuer string `json:"issuer"`
	Date   string `json:"date" validate:"omitempty,month"`
}

type Project struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Link        string `json:"link,omitempty" validate:"omitempty,url"`
}

type Reference struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Relation string `json:"relation"`
	Contact  string `json:"contact"`
}

type Hobby struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Document is one CV. The four trailing list sections are optional: absent
// and present-but-empty are different states.
type Document struct {
	ID           string       `json:"id" validate:"required"`
	UserEmail    string       `json:"userEmail" validate:"required,email"`
	Title        string       `json:"title"`
	PersonalInfo PersonalInfo `json:"personalInfo"`
	Summary      string       `json:"summary"`

	Experience []Experience `json:"experience" validate:"dive"`
	Education  []Education  `json:"education" validate:"dive"`
	Skills     []Skill      `json:"skills" validate:"dive"`
	Languages  []Language   `json:"languages" validate:"dive"`

	Certificates Optional[Certificate] `json:"certificates,omitzero"`
	Projects     Optional[Project]     `json:"projects,omitzero"`
	References   Optional[Reference]   `json:"references,omitzero"`
	Hobbies      Optional[Hobby]       `json:"hobbies,omitzero"`

	CreatedAt   time.Time `json:"createdAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Clone returns a deep copy. Mutating the copy never affects d.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	c.Experience = cloneSlice(d.Experience)
	c.Education = cloneSlice(d.Education)
	c.Skills = cloneSlice(d.Skills)
	c.Languages = cloneSlice(d.Languages)
	c.Certificates = d.Certificates.clone()
	c.Projects = d.Projects.clone()
	c.References = d.References.clone()
	c.Hobbies = d.Hobbies.clone()
	return &c
}

// Touch stamps LastUpdated, and CreatedAt when it was never set.
func (d *Document) Touch(now time.Time) {
	now = now.UTC()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	d.LastUpdated = now
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
