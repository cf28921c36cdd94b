package models

// DeveloperModel stores real-estate developers (builders).
type DeveloperModel struct {
	Base
	Name    string  `json:"name"     gorm:"not null"`
	Slug    string  `json:"slug"     gorm:"uniqueIndex;not null"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Website *string `json:"website"`
	About   *string `json:"about"`
	Country *string `json:"country"`
	LogoURL *string `json:"logo_url"`
	Active  bool    `json:"active"`

	Cities []DeveloperCityModel `json:"-" gorm:"foreignKey:DeveloperID"`
}

func (DeveloperModel) TableName() string { return "developers" }

// DeveloperCityModel links a developer to a city label (join table).
type DeveloperCityModel struct {
	ID          uint   `json:"-"    gorm:"primaryKey"`
	DeveloperID string `json:"-"    gorm:"type:char(36);index;not null"`
	City        string `json:"city" gorm:"index;not null"`
}

func (DeveloperCityModel) TableName() string { return "developer_cities" }
