package dto

import "github.com/falconsoft3d/falconerp/internal/core/domain"

// NumberingSeriesResponse describes the state of a document numbering series.
type NumberingSeriesResponse struct {
	CompanyID    string `json:"companyID"`
	DocumentType string `json:"documentType"`
	Prefix       string `json:"prefix"`
	Padding      int    `json:"padding"`
	EmbedYear    bool   `json:"embedYear"`
	NextNumber   int64  `json:"nextNumber"`
}

// ToNumberingSeriesResponse converts a domain.NumberingSeries to its response DTO.
func ToNumberingSeriesResponse(s *domain.NumberingSeries) NumberingSeriesResponse {
	return NumberingSeriesResponse{
		CompanyID:    s.CompanyID,
		DocumentType: string(s.DocumentType),
		Prefix:       s.Prefix,
		Padding:      s.Padding,
		EmbedYear:    s.EmbedYear,
		NextNumber:   s.NextNumber,
	}
}
