package project

import (
	"time"

	"github.com/re-admin/core/internal/models"
)

// CreateInput carries a fully resolved create payload. File uploads happen in
// the handler; the service only sees blob URLs.
type CreateInput struct {
	Title       string
	Slug        string
	Description string
	CategoryID  *string
	Location    string
	StartDate   *string
	EndDate     *string
	Status      bool
	Amenities   []map[string]interface{}
	Meta        map[string]interface{}

	HeroImageURL *string
	ImageURLs    []string
	DocumentURLs []string
}

// UpdateInput is a sparse patch. Nil pointers are no-ops, matching the
// undefined-field convention of the admin frontend.
type UpdateInput struct {
	Title       *string
	Slug        *string
	Description *string
	CategoryID  *string
	Location    *string
	StartDate   *string
	EndDate     *string
	Status      *bool
	Amenities   *[]map[string]interface{}
	Meta        *map[string]interface{}

	// ReplaceHeroURL is a freshly uploaded hero blob; RemoveHero clears the
	// field and wins over a simultaneous replacement.
	ReplaceHeroURL *string
	RemoveHero     bool

	// Append URLs union into the stored arrays. Replace slices, when present,
	// become the new desired set and the difference is deleted from storage.
	AppendImageURLs     []string
	AppendDocumentURLs  []string
	ReplaceImageURLs    *[]string
	ReplaceDocumentURLs *[]string
}

type projectResponse struct {
	ID          string                 `json:"id"`
	Title       string                 `json:"title"`
	Slug        string                 `json:"slug"`
	Description string                 `json:"description"`
	CategoryID  *string                `json:"category_id"`
	Location    string                 `json:"location"`
	StartDate   *string                `json:"start_date"`
	EndDate     *string                `json:"end_date"`
	Status      bool                   `json:"status"`
	Amenities   []models.Amenity       `json:"amenities"`
	Meta        map[string]interface{} `json:"meta"`
	HeroImage   *string                `json:"hero_image"`
	Images      []string               `json:"images"`
	Documents   []string               `json:"documents"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toResponse(p *models.ProjectModel) projectResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []models.Amenity{}
	}
	meta := p.Meta
	if meta == nil {
		meta = map[string]interface{}{}
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	documents := []string(p.Documents)
	if documents == nil {
		documents = []string{}
	}
	return projectResponse{
		ID: p.ID, Title: p.Title, Slug: p.Slug, Description: p.Description,
		CategoryID: p.CategoryID, Location: p.Location,
		StartDate: p.StartDate, EndDate: p.EndDate, Status: p.Status,
		Amenities: amenities, Meta: meta,
		HeroImage: p.HeroImage, Images: images, Documents: documents,
		CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt,
	}
}

// coerceAmenities forces loosely-typed amenity records into the stored shape.
// Unknown keys are dropped and missing values become empty strings.
func coerceAmenities(raw []map[string]interface{}) []models.Amenity {
	out := make([]models.Amenity, 0, len(raw))
	for _, item := range raw {
		out = append(out, models.Amenity{
			Title:       stringValue(item["title"]),
			Description: stringValue(item["description"]),
			ImageURL:    stringValue(item["imageUrl"]),
		})
	}
	return out
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}
