package domain

// FeatureOption is one selectable value within a feature slot. The price
// delta is expressed in whole currency units and is added to the catalog
// base price when the option is selected.
type FeatureOption struct {
	Name       string `json:"name"`
	PriceDelta int64  `json:"price_delta"`
}

// FeatureSlot is a customizable attribute category (e.g. exterior color)
// with a fixed, ordered set of options. Option names are unique within
// a slot.
type FeatureSlot struct {
	Name    string          `json:"name"`
	Label   string          `json:"label"`
	Options []FeatureOption `json:"options"`
}

// Catalog is the static registry of the base price and the available
// feature slots. It is constructed once at process start and is read-only
// afterwards, so it may be shared across requests without synchronization.
type Catalog struct {
	BasePrice int64         `json:"base_price"`
	Slots     []FeatureSlot `json:"slots"`
}

// Slot returns the slot with the given name, or nil if the catalog has
// no such slot.
func (c *Catalog) Slot(name string) *FeatureSlot {
	for i := range c.Slots {
		if c.Slots[i].Name == name {
			return &c.Slots[i]
		}
	}
	return nil
}

// Option returns the named option within the slot, or nil if the slot
// has no option with that name.
func (s *FeatureSlot) Option(name string) *FeatureOption {
	for i := range s.Options {
		if s.Options[i].Name == name {
			return &s.Options[i]
		}
	}
	return nil
}

// Slot names used by the default catalog.
const (
	SlotExteriorColor = "exterior_color"
	SlotWheelStyle    = "wheel_style"
)

// DefaultCatalog returns the catalog the customizer ships with: a base
// price of 20000 and two feature slots for exterior color and wheel style.
func DefaultCatalog() *Catalog {
	return &Catalog{
		BasePrice: 20000,
		Slots: []FeatureSlot{
			{
				Name:  SlotExteriorColor,
				Label: "Exterior Color",
				Options: []FeatureOption{
					{Name: "Red", PriceDelta: 1500},
					{Name: "Blue", PriceDelta: 1000},
					{Name: "Black", PriceDelta: 800},
				},
			},
			{
				Name:  SlotWheelStyle,
				Label: "Wheel Style",
				Options: []FeatureOption{
					{Name: "Standard", PriceDelta: 0},
					{Name: "Sport", PriceDelta: 2000},
					{Name: "Gold", PriceDelta: 5000},
				},
			},
		},
	}
}
