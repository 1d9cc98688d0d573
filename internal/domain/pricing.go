package domain

// ComputePrice derives the total price of a configuration from the catalog:
// the base price plus the price delta of every selected option.
//
// Selections need not cover every slot, and values that name no option in
// their slot contribute zero. This leniency is deliberate: pricing is a
// pure derivation with no error path, and completeness of a configuration
// is enforced separately by draft validation before anything is persisted.
func ComputePrice(catalog *Catalog, selections map[string]string) int64 {
	total := catalog.BasePrice
	for i := range catalog.Slots {
		slot := &catalog.Slots[i]
		name, ok := selections[slot.Name]
		if !ok {
			continue
		}
		if opt := slot.Option(name); opt != nil {
			total += opt.PriceDelta
		}
	}
	return total
}
