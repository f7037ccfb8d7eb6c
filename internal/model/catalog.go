package model

import "time"

// CatalogEntry is a saved report query exposed as a readable data source.
// Field specifications are stored as JSON text.
type CatalogEntry struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Name              string    `gorm:"size:128;uniqueIndex;not null" json:"name"`
	Description       string    `gorm:"size:512" json:"description"`
	ViewID            string    `gorm:"size:64;not null" json:"viewId"`
	StartDate         string    `gorm:"size:32;not null" json:"startDate"`
	EndDate           string    `gorm:"size:32;not null" json:"endDate"`
	Metrics           string    `gorm:"type:text;not null" json:"metrics"`
	Dimensions        string    `gorm:"type:text" json:"dimensions"`
	DimensionFilters  string    `gorm:"type:text" json:"dimensionFilters"`
	FiltersExpression string    `gorm:"size:1024" json:"filtersExpression"`
	PageSize          int       `gorm:"not null;default:0" json:"pageSize"`
	ParseDates        *bool     `json:"parseDates,omitempty"` // nil keeps the transformer default
	ExportEnabled     bool      `gorm:"not null;default:false" json:"exportEnabled"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (CatalogEntry) TableName() string {
	return "catalog_entries"
}
