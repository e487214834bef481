package domain

type Placement string

const (
	PlacementDashboard Placement = "dashboard"
	PlacementTemplates Placement = "templates"
)

func (p Placement) Valid() bool {
	return p == PlacementDashboard || p == PlacementTemplates
}

type AdBanner struct {
	ID        string    `json:"id"`
	ImageURL  string    `json:"imageUrl" validate:"required,url"`
	LinkURL   string    `json:"linkUrl" validate:"required,url"`
	Placement Placement `json:"placement" validate:"required,oneof=dashboard templates"`
	IsActive  bool      `json:"isActive"`
}
