package domain

import "time"

type Review struct {
	ID         int       `json:"id"`
	ProviderID int       `json:"providerId"`
	UserID     int       `json:"userId"`
	UserName   string    `json:"userName,omitempty"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt,omitzero"`
	UpdatedAt  time.Time `json:"updatedAt,omitzero"`
}

type ReviewInput struct {
	ProviderID int    `json:"providerId" binding:"required"`
	Rating     int    `json:"rating" binding:"required"`
	Comment    string `json:"comment"`
}

type RatingSummary struct {
	ProviderID    int         `json:"providerId"`
	AverageRating float64     `json:"averageRating"`
	TotalReviews  int         `json:"totalReviews"`
	Distribution  map[int]int `json:"distribution"` // stars (1..5) -> count
}

type ReviewCheck struct {
	HasReviewed bool    `json:"hasReviewed"`
	Review      *Review `json:"review"`
}
