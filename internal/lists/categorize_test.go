package lists_test

import (
	"testing"

	"github.com/benedictbreuninger1-pixel/AppDashboard/internal/lists"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		item string
		want string
	}{
		{name: "produce", item: "Bananas", want: "produce"},
		{name: "dairy", item: "whole milk", want: "dairy"},
		{name: "german keyword", item: "Vollkornbrot", want: "bakery"},
		{name: "trims and lowercases", item: "  CHEESE  ", want: "dairy"},
		{name: "earlier category wins", item: "strawberry milk", want: "produce"},
		{name: "meat before beverages", item: "Schweinefilet", want: "meat & fish"},
		{name: "household before personal care", item: "dish soap", want: "household"},
		{name: "no match", item: "light bulbs", want: lists.Uncategorized},
		{name: "empty", item: "   ", want: lists.Uncategorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := lists.Categorize(test.item); got != test.want {
				t.Errorf("Categorize(%q) = %q, want %q", test.item, got, test.want)
			}
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	first := lists.Categorize("Strawberry Milk")
	for range 100 {
		if got := lists.Categorize("Strawberry Milk"); got != first {
			t.Fatalf("Categorize returned %q after %q", got, first)
		}
	}
}

func TestCategories(t *testing.T) {
	names := lists.Categories()
	if names[0] != "produce" || names[1] != "dairy" {
		t.Errorf("first categories = %v, want produce then dairy", names[:2])
	}
	if names[len(names)-1] != lists.Uncategorized {
		t.Errorf("last category = %q, want %q", names[len(names)-1], lists.Uncategorized)
	}
}
