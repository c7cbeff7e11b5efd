package core

import (
	"testing"
	"time"
)

func TestRecurringExpenseValidate(t *testing.T) {
	due := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	good := RecurringExpense{
		Name:        "Internet",
		Amount:      45,
		CategoryID:  "2",
		Frequency:   Monthly,
		NextDueDate: due,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []RecurringExpense{
		{Name: "", Amount: 45, Frequency: Monthly, NextDueDate: due},
		{Name: "  ", Amount: 45, Frequency: Monthly, NextDueDate: due},
		{Name: "x", Amount: -1, Frequency: Monthly, NextDueDate: due},
		{Name: "x", Amount: 45, Frequency: "daily", NextDueDate: due},
		{Name: "x", Amount: 45, Frequency: Monthly},
	}
	for i, re := range bads {
		if err := re.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestFrequencyAdvance(t *testing.T) {
	from := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		f    Frequency
		want time.Time
	}{
		{Weekly, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{Monthly, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
		{Yearly, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		if got := tc.f.Advance(from); !got.Equal(tc.want) {
			t.Errorf("%s: got %v, want %v", tc.f, got, tc.want)
		}
	}
}

func TestCategoryItemTotal(t *testing.T) {
	c := Category{
		Items: []Item{
			{Amount: 100},
			{Amount: 80},
			{Amount: 0.5},
		},
	}
	if got := c.ItemTotal(); got != 180.5 {
		t.Errorf("got %v, want 180.5", got)
	}
	if got := (Category{}).ItemTotal(); got != 0 {
		t.Errorf("empty category total: got %v, want 0", got)
	}
}
