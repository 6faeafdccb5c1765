package costing

import "strings"

// UnitCategory groups compatible measurement units. Conversions are
// only defined within a category.
type UnitCategory string

const (
	CategoryMass    UnitCategory = "mass"
	CategoryVolume  UnitCategory = "volume"
	CategoryCount   UnitCategory = "count"
	CategoryUnknown UnitCategory = ""
)

// Conversion factors to each category's canonical unit:
// mass in grams, volume in milliliters, count in pieces.
var massConversions = map[string]float64{
	"g":  1.0,
	"kg": 1000.0,
	"mg": 0.001,
	"oz": 28.3495,
	"lb": 453.592,
}

var volumeConversions = map[string]float64{
	"ml":    1.0,
	"l":     1000.0,
	"cl":    10.0,
	"dl":    100.0,
	"tsp":   4.92892,
	"tbsp":  14.7868,
	"cup":   236.588,
	"fl_oz": 29.5735,
}

var countConversions = map[string]float64{
	"pcs":   1.0,
	"dozen": 12.0,
}

// CategoryOf returns the measurement category of a unit, or
// CategoryUnknown when the unit is not recognized.
func CategoryOf(unit string) UnitCategory {
	u := strings.ToLower(unit)
	if _, ok := massConversions[u]; ok {
		return CategoryMass
	}
	if _, ok := volumeConversions[u]; ok {
		return CategoryVolume
	}
	if _, ok := countConversions[u]; ok {
		return CategoryCount
	}
	return CategoryUnknown
}

// ConvertToBaseUnit converts a quantity into the target base unit.
// Returns (quantity, true) unchanged when either unit is unknown, and
// (0, false) when the units belong to incompatible categories.
func ConvertToBaseUnit(quantity float64, fromUnit, toBaseUnit string) (float64, bool) {
	from := strings.ToLower(fromUnit)
	to := strings.ToLower(toBaseUnit)
	if from == to {
		return quantity, true
	}

	fromCat := CategoryOf(from)
	toCat := CategoryOf(to)
	if fromCat == CategoryUnknown || toCat == CategoryUnknown {
		return quantity, true
	}
	if fromCat != toCat {
		return 0, false
	}

	var conversions map[string]float64
	switch fromCat {
	case CategoryMass:
		conversions = massConversions
	case CategoryVolume:
		conversions = volumeConversions
	default:
		conversions = countConversions
	}

	return quantity * conversions[from] / conversions[to], true
}
