package products

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalog product record. FeaturedImage holds the
// blob store key of the uploaded image, nil when none was ever uploaded;
// FeaturedImageOriginalName retains the upload's client filename and is
// only ever written together with FeaturedImage.
type Product struct {
	ID                        uuid.UUID `json:"id"`
	Name                      string    `json:"name"`
	Description               string    `json:"description"`
	Price                     float64   `json:"price"`
	FeaturedImage             *string   `json:"featured_image"`
	FeaturedImageOriginalName string    `json:"featured_image_original_name"`
	CreatedAt                 time.Time `json:"created_at"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

// createdAtLayout is the day-month-year display format for listing and forms.
const createdAtLayout = "02 Jan 2006"

// CreatedAtDisplay returns the creation date formatted for display.
func (p Product) CreatedAtDisplay() string {
	return p.CreatedAt.Format(createdAtLayout)
}
