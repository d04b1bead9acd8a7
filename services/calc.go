package services

// DimensionValues holds the resolved numeric values of the five dimension
// fields. A nil entry means the field is unset.
type DimensionValues struct {
	NoOfUnits *float64
	Length    *float64
	Width     *float64
	Thickness *float64
	Quantity  *float64
}

// CalcQuantity derives the line quantity from the dimension values. A direct
// quantity wins outright. Otherwise the permitted multiplicative dimensions
// are multiplied together, with permitted-but-blank dimensions defaulting
// to 1 and disallowed dimensions excluded entirely.
func CalcQuantity(unit string, mode InputMode, dims DimensionValues) float64 {
	if dims.Quantity != nil {
		return *dims.Quantity
	}

	byField := map[DimensionField]*float64{
		FieldNoOfUnits: dims.NoOfUnits,
		FieldLength:    dims.Length,
		FieldWidth:     dims.Width,
		FieldThickness: dims.Thickness,
	}

	qty := 1.0
	for _, field := range AllowedInputs(unit, mode) {
		v, ok := byField[field]
		if !ok {
			continue
		}
		if v != nil {
			qty *= *v
		}
		// permitted but blank contributes 1
	}
	return qty
}

// CalcAmount computes the monetary amount for a line. A missing rate is
// treated as 0. No rounding is applied; two-decimal rounding is a display
// concern.
func CalcAmount(qty, rate float64) float64 {
	return qty * rate
}
