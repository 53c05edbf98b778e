package entity

import "github.com/shopspring/decimal"

// DoctorFilter is a domain-level filter for querying the doctor directory.
// Used by repository layer to avoid coupling with delivery DTOs.
type DoctorFilter struct {
	Specialization string
	MinFees        *decimal.Decimal
	MaxFees        *decimal.Decimal
	MinExperience  *int
	SortBy         string // "rating" sorts by rating desc, anything else by fees asc
}

const DoctorSortByRating = "rating"
