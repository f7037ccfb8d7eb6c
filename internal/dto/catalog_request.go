package dto

type CatalogRegisterRequest struct {
	Name          string             `json:"name" binding:"required"`
	Description   string             `json:"description"`
	ExportEnabled bool               `json:"exportEnabled"`
	Query         ReportQueryRequest `json:"query" binding:"required"`
}
