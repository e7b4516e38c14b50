package tui

import "sysdoctor-agent/src/contracts"

// Item represents an item that can be displayed in the recommendation list.
// It wraps the domain Recommendation and implements bubbles/list.Item.
type Item struct {
	Rec  contracts.Recommendation
	Rank int
}

// FilterValue is the value used for fuzzy filtering.
func (i Item) FilterValue() string { return i.Rec.Text }

// Title returns the primary text for the item (required by list.Item).
func (i Item) Title() string { return i.Rec.Text }

// Description returns the secondary text for the item (required by list.Item).
func (i Item) Description() string { return i.Rec.Category }
