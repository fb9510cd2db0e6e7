package core

import "testing"

func TestParseCategoryName(t *testing.T) {
	cases := []struct {
		in   string
		want CategoryName
	}{
		{"Transportation", Transportation},
		{"Food", Food},
		{" Housing ", Housing},
		{"Personal Spending", PersonalSpending},
		{"personal spending", CategoryUnknown},
		{"Beer", CategoryUnknown},
		{"", CategoryUnknown},
	}
	for _, tc := range cases {
		if got := ParseCategoryName(tc.in); got != tc.want {
			t.Fatalf("ParseCategoryName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestCategoryNamesAreValid(t *testing.T) {
	names := CategoryNames()
	if len(names) != 4 {
		t.Fatalf("expected 4 categories, got %d", len(names))
	}
	for _, n := range names {
		if !n.IsValid() {
			t.Fatalf("%q should be valid", n)
		}
	}
	if CategoryUnknown.IsValid() {
		t.Fatalf("unknown category must not be valid")
	}
	if CategoryUnknown.String() != "Unknown" {
		t.Fatalf("unexpected label %q", CategoryUnknown.String())
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{ID: "1", Amount: Money{Cents: 0}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Expense{Amount: Money{Cents: 1}}).Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if err := (Expense{ID: "1", Amount: Money{Cents: -1}}).Validate(); err != ErrInvalidAmount {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
