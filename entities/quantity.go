package entities

import (
	"math"
)

// Quantity counts stock as whole units plus a partial fill kept in integer
// hundredths. Keeping the fraction as an integer means repeated additions
// stay exact at percent granularity.
type Quantity struct {
	FullUnits         int `gorm:"not null;default:0" json:"full_units"`
	PartialHundredths int `gorm:"not null;default:0" json:"partial_hundredths"`
}

func NewQuantity(fullUnits, partialHundredths int) Quantity {
	return Quantity{
		FullUnits:         fullUnits,
		PartialHundredths: partialHundredths,
	}
}

// QuantityFromFraction builds a Quantity from a 0..1 partial fill, rounding
// to the nearest hundredth.
func QuantityFromFraction(fullUnits int, fraction float64) Quantity {
	return Quantity{
		FullUnits:         fullUnits,
		PartialHundredths: int(math.Round(fraction * 100)),
	}
}

// QuantityFromPercent builds a Quantity from a 0..100 percent view.
func QuantityFromPercent(fullUnits int, percent float64) Quantity {
	return Quantity{
		FullUnits:         fullUnits,
		PartialHundredths: int(math.Round(percent)),
	}
}

func (q Quantity) Total() float64 {
	return float64(q.FullUnits) + float64(q.PartialHundredths)/100
}

func (q Quantity) Fraction() float64 {
	return float64(q.PartialHundredths) / 100
}

func (q Quantity) Percent() int {
	return q.PartialHundredths
}

// Add sums full units and hundredths independently, then carries any whole
// unit out of the hundredths, like a mixed-radix counter.
func (q Quantity) Add(other Quantity) Quantity {
	hundredths := q.PartialHundredths + other.PartialHundredths
	return Quantity{
		FullUnits:         q.FullUnits + other.FullUnits + hundredths/100,
		PartialHundredths: hundredths % 100,
	}
}

func (q Quantity) Equal(other Quantity) bool {
	return q.FullUnits == other.FullUnits && q.PartialHundredths == other.PartialHundredths
}

// Valid reports whether both fields are inside their allowed ranges. The
// fraction may be a whole unit (100) when it came straight from user input.
func (q Quantity) Valid() bool {
	return q.FullUnits >= 0 && q.PartialHundredths >= 0 && q.PartialHundredths <= 100
}
