package models

// Amenity is an embedded amenity record on a project. Writes always coerce
// incoming data to exactly this shape; missing fields become empty strings.
type Amenity struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// ProjectModel stores real-estate listings.
type ProjectModel struct {
	Base
	Title       string                 `json:"title"       gorm:"not null"`
	Slug        string                 `json:"slug"        gorm:"uniqueIndex;not null"`
	Description string                 `json:"description"`
	CategoryID  *string                `json:"category_id"`
	Location    string                 `json:"location"`
	StartDate   *string                `json:"start_date"`
	EndDate     *string                `json:"end_date"`
	Status      bool                   `json:"status"`
	Amenities   []Amenity              `json:"amenities"   gorm:"type:text;serializer:json"`
	Meta        map[string]interface{} `json:"meta"        gorm:"type:text;serializer:json"`
	HeroImage   *string                `json:"hero_image"`
	Images      StringArray            `json:"images"      gorm:"type:text"`
	Documents   StringArray            `json:"documents"   gorm:"type:text"`
}

func (ProjectModel) TableName() string { return "projects" }
