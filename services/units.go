package services

import "strings"

// UnitClass is the closed classification of measurement units. It drives
// which dimension fields are enterable for a line and is shared by the
// interactive entry handlers and the import pipeline so the policy never
// diverges between the two paths.
type UnitClass int

const (
	UnitCountLike UnitClass = iota
	UnitCubic
	UnitSquare
	UnitLinear
)

func (c UnitClass) String() string {
	switch c {
	case UnitCubic:
		return "cubic"
	case UnitSquare:
		return "square"
	case UnitLinear:
		return "linear"
	}
	return "count"
}

// DimensionField names one of the five enterable inputs of a line.
type DimensionField string

const (
	FieldNoOfUnits DimensionField = "no_of_units"
	FieldLength    DimensionField = "length"
	FieldWidth     DimensionField = "width"
	FieldThickness DimensionField = "thickness"
	FieldQuantity  DimensionField = "quantity"
)

// InputMode selects between dimension entry and direct quantity entry for
// units that support both.
type InputMode string

const (
	ModeDefault  InputMode = "default"
	ModeQuantity InputMode = "quantity"
)

// ClassifyUnit normalizes a unit label (lowercase, alphanumerics only) and
// classifies it by substring. Order matters: "Cu Meter" and "Sq Meter" both
// contain "meter" and must not fall through to linear.
func ClassifyUnit(unit string) UnitClass {
	norm := normalizeKey(unit)
	switch {
	case strings.Contains(norm, "cum") || strings.Contains(norm, "m3") || strings.Contains(norm, "cubic"):
		return UnitCubic
	case strings.Contains(norm, "sqm") || strings.Contains(norm, "m2") || strings.Contains(norm, "square"):
		return UnitSquare
	case strings.Contains(norm, "linm") || strings.Contains(norm, "rm") || strings.Contains(norm, "meter"):
		return UnitLinear
	}
	return UnitCountLike
}

// AllowedInputs returns the dimension fields a user (or the importer) may
// supply for the given unit and mode.
func AllowedInputs(unit string, mode InputMode) []DimensionField {
	switch ClassifyUnit(unit) {
	case UnitCubic:
		if mode == ModeQuantity {
			return []DimensionField{FieldNoOfUnits, FieldQuantity}
		}
		return []DimensionField{FieldNoOfUnits, FieldLength, FieldWidth, FieldThickness}
	case UnitSquare:
		if mode == ModeQuantity {
			return []DimensionField{FieldNoOfUnits, FieldQuantity}
		}
		return []DimensionField{FieldNoOfUnits, FieldLength, FieldWidth}
	case UnitLinear:
		return []DimensionField{FieldNoOfUnits, FieldLength}
	}
	return []DimensionField{FieldNoOfUnits, FieldQuantity}
}

// SupportsQuantityMode reports whether the mode toggle is meaningful for
// the unit. Only cubic and square units have two distinct input sets.
func SupportsQuantityMode(unit string) bool {
	class := ClassifyUnit(unit)
	return class == UnitCubic || class == UnitSquare
}
