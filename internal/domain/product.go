package domain

import "time"

// Gender constants for the target audience of a fragrance.
const (
	GenderFemale = "female"
	GenderMale   = "male"
	GenderUnisex = "unisex"
)

// Concentration constants for fragrance strength.
const (
	ConcentrationParfum        = "parfum"
	ConcentrationEauDeParfum   = "eau_de_parfum"
	ConcentrationEauDeToilette = "eau_de_toilette"
	ConcentrationEauDeCologne  = "eau_de_cologne"
)

// genderLabels maps gender constants to their storefront display labels.
var genderLabels = map[string]string{
	GenderFemale: "Женский",
	GenderMale:   "Мужской",
	GenderUnisex: "Унисекс",
}

// concentrationLabels maps concentration constants to display labels.
var concentrationLabels = map[string]string{
	ConcentrationParfum:        "Духи",
	ConcentrationEauDeParfum:   "Парфюмерная вода",
	ConcentrationEauDeToilette: "Туалетная вода",
	ConcentrationEauDeCologne:  "Одеколон",
}

// ValidGenders returns all valid gender values.
func ValidGenders() []string {
	return []string{GenderFemale, GenderMale, GenderUnisex}
}

// ValidConcentrations returns all valid concentration values.
func ValidConcentrations() []string {
	return []string{
		ConcentrationParfum,
		ConcentrationEauDeParfum,
		ConcentrationEauDeToilette,
		ConcentrationEauDeCologne,
	}
}

// IsValidGender checks if a gender string is valid.
func IsValidGender(gender string) bool {
	_, ok := genderLabels[gender]
	return ok
}

// IsValidConcentration checks if a concentration string is valid.
func IsValidConcentration(c string) bool {
	_, ok := concentrationLabels[c]
	return ok
}

// GenderLabel returns the display label for a gender value, or the raw
// value when it is unknown.
func GenderLabel(gender string) string {
	if label, ok := genderLabels[gender]; ok {
		return label
	}
	return gender
}

// ConcentrationLabel returns the display label for a concentration value,
// or the raw value when it is unknown.
func ConcentrationLabel(c string) string {
	if label, ok := concentrationLabels[c]; ok {
		return label
	}
	return c
}

// Product represents a perfume in the catalog. Price is stored in minor
// currency units (kopecks).
type Product struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description,omitempty"`
	BrandID         string    `json:"brand_id"`
	BrandName       string    `json:"brand_name,omitempty"`
	CategoryID      string    `json:"category_id,omitempty"`
	Gender          string    `json:"gender"`
	Concentration   string    `json:"concentration"`
	VolumeML        int       `json:"volume_ml"`
	Price           int64     `json:"price"`
	DiscountPercent int       `json:"discount_percent"`
	InStock         bool      `json:"in_stock"`
	ImageURL        string    `json:"image_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// DiscountedPrice returns the effective price after applying the discount
// percentage, truncated to whole minor units.
func (p *Product) DiscountedPrice() int64 {
	if p.DiscountPercent <= 0 {
		return p.Price
	}
	if p.DiscountPercent >= 100 {
		return 0
	}
	return p.Price * int64(100-p.DiscountPercent) / 100
}
