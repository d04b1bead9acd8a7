package services

import "testing"

func ptr(v float64) *float64 { return &v }

func TestCalcQuantity(t *testing.T) {
	tests := []struct {
		name string
		unit string
		mode InputMode
		dims DimensionValues
		want float64
	}{
		{
			"cubic with thickness blank defaults to 1",
			"Cu Meter", ModeDefault,
			DimensionValues{NoOfUnits: ptr(2), Length: ptr(3), Width: ptr(4)},
			24,
		},
		{
			"cubic all dimensions",
			"Cu Meter", ModeDefault,
			DimensionValues{NoOfUnits: ptr(2), Length: ptr(3), Width: ptr(4), Thickness: ptr(0.5)},
			12,
		},
		{
			"direct quantity wins",
			"Cu Meter", ModeQuantity,
			DimensionValues{NoOfUnits: ptr(2), Quantity: ptr(17.5)},
			17.5,
		},
		{
			"square ignores thickness",
			"Sq.M", ModeDefault,
			DimensionValues{NoOfUnits: ptr(2), Length: ptr(3), Width: ptr(4), Thickness: ptr(10)},
			24,
		},
		{
			"linear ignores width and thickness",
			"RM", ModeDefault,
			DimensionValues{NoOfUnits: ptr(3), Length: ptr(5), Width: ptr(100), Thickness: ptr(100)},
			15,
		},
		{
			"count-like without quantity defaults to units",
			"Nos", ModeDefault,
			DimensionValues{NoOfUnits: ptr(6)},
			6,
		},
		{
			"all blank yields 1",
			"Cu Meter", ModeDefault,
			DimensionValues{},
			1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcQuantity(tt.unit, tt.mode, tt.dims); got != tt.want {
				t.Errorf("CalcQuantity(%q, %q, %+v) = %v, want %v", tt.unit, tt.mode, tt.dims, got, tt.want)
			}
		})
	}
}

func TestCalcAmount(t *testing.T) {
	tests := []struct {
		name string
		qty  float64
		rate float64
		want float64
	}{
		{"whole numbers", 24, 100, 2400},
		{"no rate", 24, 0, 0},
		{"fractional", 2.5, 185.5, 463.75},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalcAmount(tt.qty, tt.rate); got != tt.want {
				t.Errorf("CalcAmount(%v, %v) = %v, want %v", tt.qty, tt.rate, got, tt.want)
			}
		})
	}
}
