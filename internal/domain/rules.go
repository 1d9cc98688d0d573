package domain

// ForbiddenCombination names a tuple of item type plus per-slot selections
// that must never be persisted. Slots omitted from Selections are
// wildcards: the rule matches any value for them.
type ForbiddenCombination struct {
	ItemType   string            `json:"item_type"`
	Selections map[string]string `json:"selections"`
	Message    string            `json:"message"`
}

// Matches reports whether the rule applies to the given item type and
// selections. Every slot listed by the rule must match exactly.
func (f *ForbiddenCombination) Matches(itemType string, selections map[string]string) bool {
	if itemType != f.ItemType {
		return false
	}
	for slot, want := range f.Selections {
		if selections[slot] != want {
			return false
		}
	}
	return true
}

// RuleViolation reports that a configuration matched a forbidden
// combination. It carries the matched rule's user-facing message.
type RuleViolation struct {
	Message string
}

// Error implements the error interface for RuleViolation.
func (v *RuleViolation) Error() string {
	return v.Message
}

// Ruleset is an ordered registry of forbidden combinations. Declaration
// order is significant: when several rules could match a configuration,
// the earliest rule governs.
type Ruleset []ForbiddenCombination

// Check scans the registry in order and returns a RuleViolation for the
// first rule matching the given item type and selections, or nil when no
// rule matches. Given the same registry and configuration the result is
// always the same.
func (r Ruleset) Check(itemType string, selections map[string]string) *RuleViolation {
	for i := range r {
		if r[i].Matches(itemType, selections) {
			return &RuleViolation{Message: r[i].Message}
		}
	}
	return nil
}

// DefaultRuleset returns the forbidden combinations the customizer ships
// with. The Red/Gold Car combination is also re-enforced by a database
// CHECK constraint as a last-resort guard beneath the store's own check.
func DefaultRuleset() Ruleset {
	return Ruleset{
		{
			ItemType: "Car",
			Selections: map[string]string{
				SlotExteriorColor: "Red",
				SlotWheelStyle:    "Gold",
			},
			Message: "Cannot build a Red Car with Gold wheels for safety reasons.",
		},
	}
}
