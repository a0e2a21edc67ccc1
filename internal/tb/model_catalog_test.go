package tb_test

import (
	"errors"
	"math"
	"testing"

	"tb-go/internal/tb"
)

func TestLookupModel(t *testing.T) {
	for _, m := range tb.Models() {
		got, err := tb.LookupModel(m.ID)
		if err != nil || got.Name != m.Name {
			t.Errorf("LookupModel(%q) = %+v, %v", m.ID, got, err)
		}
	}
	if _, err := tb.LookupModel(tb.DefaultModel); err != nil {
		t.Errorf("default model %q not in catalog", tb.DefaultModel)
	}
	if _, err := tb.LookupModel("llama"); !errors.Is(err, tb.ErrInvalidInput) {
		t.Errorf("LookupModel(unknown) error = %v, want ErrInvalidInput", err)
	}
}

func TestModels_ReturnsCopy(t *testing.T) {
	m := tb.Models()
	m[0].Name = "changed"
	if tb.Models()[0].Name == "changed" {
		t.Error("Models() exposes the catalog")
	}
}

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		chapters int
		want     float64
	}{
		{0, 0},
		{1, 0.16},
		{3, 0.48},
		{12, 1.92},
	}
	for _, tt := range tests {
		if got := tb.EstimateCost(tt.chapters); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("EstimateCost(%d) = %v, want %v", tt.chapters, got, tt.want)
		}
	}
}
