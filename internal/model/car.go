package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FuelType of a car.
type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelDiesel   FuelType = "Diesel"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
	FuelLPG      FuelType = "LPG"
)

// Transmission of a car.
type Transmission string

const (
	TransmissionManual    Transmission = "Manual"
	TransmissionAutomatic Transmission = "Automatic"
)

const (
	DefaultCarColor = "Black"
	// PriceScale is the number of fraction digits stored for a price.
	PriceScale = 2
	// PriceMaxIntegerDigits follows NUMERIC(10,2).
	PriceMaxIntegerDigits = 8
)

// Price is a decimal amount serialized with exactly two fraction digits.
type Price struct {
	decimal.Decimal
}

// NewPrice parses a decimal string such as "25000.00".
func NewPrice(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, err
	}
	return Price{Decimal: d}, nil
}

// MustPrice is NewPrice for literals known to be valid.
func MustPrice(s string) Price {
	p, err := NewPrice(s)
	if err != nil {
		panic(err)
	}
	return p
}

// MarshalJSON renders the price as a quoted fixed-point string.
func (p Price) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.StringFixed(PriceScale) + `"`), nil
}

// Car is a vehicle listed in the catalog.
type Car struct {
	ID           int64        `json:"id"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	Price        Price        `json:"price"`
	Images       []string     `json:"images"`
	Description  string       `json:"description"`
	Mileage      int          `json:"mileage"`
	FuelType     FuelType     `json:"fuel_type"`
	Transmission Transmission `json:"transmission"`
	Color        string       `json:"color"`
	Available    bool         `json:"available"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// CarSummary is the reduced representation used by list endpoints and favorites.
type CarSummary struct {
	ID           int64        `json:"id"`
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	Price        Price        `json:"price"`
	Images       []string     `json:"images"`
	FuelType     FuelType     `json:"fuel_type"`
	Transmission Transmission `json:"transmission"`
	Available    bool         `json:"available"`
}

// Summary returns the list representation of c.
func (c *Car) Summary() CarSummary {
	return CarSummary{
		ID:           c.ID,
		Brand:        c.Brand,
		Model:        c.Model,
		Year:         c.Year,
		Price:        c.Price,
		Images:       c.Images,
		FuelType:     c.FuelType,
		Transmission: c.Transmission,
		Available:    c.Available,
	}
}

// CreateCarRequest is used for creating a new car
type CreateCarRequest struct {
	Brand        string       `json:"brand" binding:"required,max=100"`
	Model        string       `json:"model" binding:"required,max=100"`
	Year         *int         `json:"year" binding:"required"`
	Price        *Price       `json:"price" binding:"required"`
	Images       []string     `json:"images" binding:"omitempty,dive,required"`
	Description  string       `json:"description" binding:"required"`
	Mileage      *int         `json:"mileage" binding:"omitempty,gte=0"`
	FuelType     FuelType     `json:"fuel_type" binding:"omitempty,oneof=Gasoline Diesel Electric Hybrid LPG"`
	Transmission Transmission `json:"transmission" binding:"omitempty,oneof=Manual Automatic"`
	Color        string       `json:"color" binding:"max=50"`
	Available    *bool        `json:"available"`
}

// UpdateCarRequest is a partial update; nil fields are left untouched.
type UpdateCarRequest struct {
	Brand        *string       `json:"brand,omitempty" binding:"omitempty,min=1,max=100"`
	Model        *string       `json:"model,omitempty" binding:"omitempty,min=1,max=100"`
	Year         *int          `json:"year,omitempty"`
	Price        *Price        `json:"price,omitempty"`
	Images       *[]string     `json:"images,omitempty"`
	Description  *string       `json:"description,omitempty" binding:"omitempty,min=1"`
	Mileage      *int          `json:"mileage,omitempty" binding:"omitempty,gte=0"`
	FuelType     *FuelType     `json:"fuel_type,omitempty" binding:"omitempty,oneof=Gasoline Diesel Electric Hybrid LPG"`
	Transmission *Transmission `json:"transmission,omitempty" binding:"omitempty,oneof=Manual Automatic"`
	Color        *string       `json:"color,omitempty" binding:"omitempty,max=50"`
	Available    *bool         `json:"available,omitempty"`
}

// CarSort selects the ordering of a car listing.
type CarSort string

const (
	SortNewest    CarSort = ""
	SortPriceAsc  CarSort = "price-asc"
	SortPriceDesc CarSort = "price-desc"
	SortYearDesc  CarSort = "year-desc"
	SortYearAsc   CarSort = "year-asc"
)

// ParseCarSort maps a query value to a CarSort; unknown values mean newest first.
func ParseCarSort(s string) CarSort {
	switch CarSort(s) {
	case SortPriceAsc, SortPriceDesc, SortYearDesc, SortYearAsc:
		return CarSort(s)
	default:
		return SortNewest
	}
}

// CarFilters contains the optional catalog filters; all set filters must match.
type CarFilters struct {
	Brand    *string
	Year     *int
	MinPrice *Price
	MaxPrice *Price
	Search   *string // brand OR model
	Sort     CarSort
}
