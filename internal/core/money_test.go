package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestMargin(t *testing.T) {
	cases := []struct {
		net, income float64
		want        float64
	}{
		{250, 1000, 25},
		{1200, 1500, 80},
		{-50, 200, -25},
		{0, 0, 0},
		{-300, 0, 0},
		{-40, 0, 0},
		{300, 0, 0},
	}
	for _, tc := range cases {
		got := Margin(decimal.NewFromFloat(tc.net), decimal.NewFromFloat(tc.income))
		if !got.Equal(decimal.NewFromFloat(tc.want)) {
			t.Fatalf("Margin(%v, %v) = %v, want %v", tc.net, tc.income, got, tc.want)
		}
	}
}

func TestConvert(t *testing.T) {
	got := Convert(decimal.NewFromInt(100), decimal.NewFromFloat(DefaultExchangeRate))
	if !got.Equal(decimal.NewFromInt(1700)) {
		t.Fatalf("expected 1700, got %v", got)
	}
}

func TestMonthName(t *testing.T) {
	if MonthName(1) != "Enero" || MonthName(12) != "Diciembre" {
		t.Fatalf("unexpected month names")
	}
	if MonthName(0) != "" || MonthName(13) != "" {
		t.Fatalf("out of range months must be empty")
	}
}
