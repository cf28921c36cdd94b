package developer

import (
	"time"

	"github.com/re-admin/core/internal/models"
)

// CreateInput carries a resolved create payload; the logo upload happens in
// the handler.
type CreateInput struct {
	Name    string
	Slug    string
	Email   *string
	Phone   *string
	Website *string
	About   *string
	Country *string
	Active  bool
	Cities  []string

	LogoURL *string
}

// UpdateInput is a sparse patch; nil pointers are no-ops. Cities, when
// present, replaces the full set of link rows.
type UpdateInput struct {
	Name    *string
	Slug    *string
	Email   *string
	Phone   *string
	Website *string
	About   *string
	Country *string
	Active  *bool
	Cities  *[]string

	ReplaceLogoURL *string
	RemoveLogo     bool
}

// Result pairs a developer row with the non-fatal warnings collected while
// writing its city links. The primary row is already persisted when warnings
// are returned.
type Result struct {
	Developer *models.DeveloperModel
	Warnings  []string
}

type developerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Email     *string   `json:"email"`
	Phone     *string   `json:"phone"`
	Website   *string   `json:"website"`
	About     *string   `json:"about"`
	Country   *string   `json:"country"`
	LogoURL   *string   `json:"logo_url"`
	Active    bool      `json:"active"`
	Cities    []string  `json:"cities"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toResponse(d *models.DeveloperModel) developerResponse {
	cities := make([]string, 0, len(d.Cities))
	for _, link := range d.Cities {
		cities = append(cities, link.City)
	}
	return developerResponse{
		ID: d.ID, Name: d.Name, Slug: d.Slug,
		Email: d.Email, Phone: d.Phone, Website: d.Website,
		About: d.About, Country: d.Country, LogoURL: d.LogoURL,
		Active: d.Active, Cities: cities,
		CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}
