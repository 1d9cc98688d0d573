package domain

import "testing"

func TestComputePrice(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	tests := []struct {
		name       string
		selections map[string]string
		want       int64
	}{
		{
			name: "black standard",
			selections: map[string]string{
				SlotExteriorColor: "Black",
				SlotWheelStyle:    "Standard",
			},
			want: 20800,
		},
		{
			name: "red sport",
			selections: map[string]string{
				SlotExteriorColor: "Red",
				SlotWheelStyle:    "Sport",
			},
			want: 23500,
		},
		{
			name: "blue sport",
			selections: map[string]string{
				SlotExteriorColor: "Blue",
				SlotWheelStyle:    "Sport",
			},
			want: 23000,
		},
		{
			name:       "no selections prices at base",
			selections: map[string]string{},
			want:       20000,
		},
		{
			name:       "nil selections prices at base",
			selections: nil,
			want:       20000,
		},
		{
			name: "unknown option contributes zero",
			selections: map[string]string{
				SlotExteriorColor: "Chartreuse",
				SlotWheelStyle:    "Sport",
			},
			want: 22000,
		},
		{
			name: "unknown slot is ignored",
			selections: map[string]string{
				"spoiler":      "Carbon",
				SlotWheelStyle: "Gold",
			},
			want: 25000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputePrice(catalog, tt.selections)
			if got != tt.want {
				t.Errorf("ComputePrice() = %d, want %d", got, tt.want)
			}
		})
	}
}

// Changing a single slot's selection must change the price by exactly the
// delta difference between the two options.
func TestComputePriceSingleSlotDelta(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	selections := map[string]string{
		SlotExteriorColor: "Black",
		SlotWheelStyle:    "Standard",
	}
	before := ComputePrice(catalog, selections)

	selections[SlotExteriorColor] = "Red"
	after := ComputePrice(catalog, selections)

	// Red (+1500) replaces Black (+800)
	if diff := after - before; diff != 700 {
		t.Errorf("price moved by %d after changing exterior color, want 700", diff)
	}
}

func TestComputePriceIsPure(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()
	selections := map[string]string{
		SlotExteriorColor: "Blue",
		SlotWheelStyle:    "Gold",
	}

	first := ComputePrice(catalog, selections)
	for i := 0; i < 10; i++ {
		if got := ComputePrice(catalog, selections); got != first {
			t.Fatalf("ComputePrice() = %d on repeat call, want %d", got, first)
		}
	}

	if len(selections) != 2 {
		t.Error("ComputePrice must not mutate the selections map")
	}
}
