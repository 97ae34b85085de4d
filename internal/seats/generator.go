package seats

import (
	"fmt"

	"github.com/google/uuid"
)

const rowLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxRows is bounded by the single-letter row codes
const MaxRows = len(rowLetters)

// DefaultCategory is used for rows with no category configured and for
// unknown category names.
const DefaultCategory = "standard"

// GenerateConfig describes the seat layout for a new event.
type GenerateConfig struct {
	Rows        int      `json:"rows" binding:"required,min=1,max=26"`
	SeatsPerRow int      `json:"seats_per_row" binding:"required,min=1,max=200"`
	Categories  []string `json:"categories"` // indexed by row; missing entries default to standard
	BasePrice   float64  `json:"base_price" binding:"required,gt=0"`
}

// CategoryMultiplier returns the price multiplier for a seat category.
// Unknown categories fall back to the base multiplier.
func CategoryMultiplier(category string) float64 {
	switch category {
	case "premium":
		return 1.5
	case "balcony":
		return 0.8
	default:
		return 1.0
	}
}

// Generate produces the initial seat set for an event: Rows x SeatsPerRow
// seats with sequential codes ("A1", "A2", ... "B1", ...), category-adjusted
// prices captured at generation time, and status available. Pure function:
// no store access, deterministic for a given config.
func Generate(eventID uuid.UUID, cfg GenerateConfig) ([]Seat, error) {
	if cfg.Rows < 1 || cfg.Rows > MaxRows {
		return nil, fmt.Errorf("rows must be between 1 and %d, got %d", MaxRows, cfg.Rows)
	}
	if cfg.SeatsPerRow < 1 {
		return nil, fmt.Errorf("seats_per_row must be positive, got %d", cfg.SeatsPerRow)
	}
	if cfg.BasePrice <= 0 {
		return nil, fmt.Errorf("base_price must be positive, got %v", cfg.BasePrice)
	}

	seats := make([]Seat, 0, cfg.Rows*cfg.SeatsPerRow)
	for row := 0; row < cfg.Rows; row++ {
		rowLetter := rowLetters[row]

		category := DefaultCategory
		if row < len(cfg.Categories) && cfg.Categories[row] != "" {
			category = cfg.Categories[row]
		}
		price := cfg.BasePrice * CategoryMultiplier(category)

		for seatNum := 1; seatNum <= cfg.SeatsPerRow; seatNum++ {
			seats = append(seats, Seat{
				EventID:  eventID,
				SeatCode: fmt.Sprintf("%c%d", rowLetter, seatNum),
				Category: category,
				Price:    price,
				Status:   StatusAvailable,
			})
		}
	}

	return seats, nil
}
