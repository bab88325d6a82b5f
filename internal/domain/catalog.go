package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Service is a priced, duration-bearing catalog item.
type Service struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	CategoryID    *string         `json:"category"`
	Price         decimal.Decimal `json:"price"`
	Duration      Duration        `json:"duration"`
	ImageURL      string          `json:"image,omitempty"`
	Active        bool            `json:"active"`
	AverageRating *float64        `json:"average_rating"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
