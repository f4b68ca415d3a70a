// Package splitting assigns receipt items to participants and works out
// what each participant owes.
package splitting

import (
	"slices"
	"strings"
)

// Ledger holds the participants of a split and the receipt items assigned to
// them. A Ledger is a value: every operation returns a new Ledger and never
// touches the slices of the receiver.
//
// Every assignee of every item is a participant of the ledger.
type Ledger struct {
	Participants []string   `json:"participants"`
	Items        []LineItem `json:"items"`
}

// NewLedger returns a ledger with no participants and no items
func NewLedger() Ledger {
	return Ledger{
		Participants: []string{},
		Items:        []LineItem{},
	}
}

func (l Ledger) clone() Ledger {
	out := Ledger{
		Participants: append(make([]string, 0, len(l.Participants)), l.Participants...),
		Items:        make([]LineItem, 0, len(l.Items)),
	}
	for _, item := range l.Items {
		out.Items = append(out.Items, item.clone())
	}
	return out
}

// HasParticipant reports whether name is in the ledger
func (l Ledger) HasParticipant(name string) bool {
	return slices.Contains(l.Participants, name)
}

// Item looks up an item by id
func (l Ledger) Item(id string) (LineItem, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item.clone(), true
		}
	}
	return LineItem{}, false
}

// AddParticipant appends the trimmed name. Blank and duplicate names leave
// the ledger unchanged.
func (l Ledger) AddParticipant(name string) Ledger {
	out := l.clone()
	name = strings.TrimSpace(name)
	if name == "" || out.HasParticipant(name) {
		return out
	}
	out.Participants = append(out.Participants, name)
	return out
}

// RemoveParticipant drops the participant and unassigns them from every item.
func (l Ledger) RemoveParticipant(name string) Ledger {
	out := l.clone()
	out.Participants = slices.DeleteFunc(out.Participants, func(p string) bool { return p == name })
	for i := range out.Items {
		out.Items[i].Assignees = slices.DeleteFunc(out.Items[i].Assignees, func(a string) bool { return a == name })
	}
	return out
}

// ToggleAssignment unassigns name from the item if assigned and assigns it
// otherwise. Unknown items and names that are not participants are ignored.
func (l Ledger) ToggleAssignment(itemID, name string) Ledger {
	out := l.clone()
	for i := range out.Items {
		item := &out.Items[i]
		if item.ID != itemID {
			continue
		}
		if item.IsAssignedTo(name) {
			item.Assignees = slices.DeleteFunc(item.Assignees, func(a string) bool { return a == name })
		} else if out.HasParticipant(name) {
			item.Assignees = append(item.Assignees, name)
		}
		break
	}
	return out
}

// WithItems replaces the receipt items. Assignments of the new items are
// cleared.
func (l Ledger) WithItems(items []LineItem) Ledger {
	out := l.clone()
	out.Items = make([]LineItem, 0, len(items))
	for _, item := range items {
		item = item.clone()
		item.Assignees = []string{}
		out.Items = append(out.Items, item)
	}
	return out
}

// PerPersonTotals returns what each participant owes
func (l Ledger) PerPersonTotals() []PersonTotal {
	return PerPersonTotals(l.Items)
}

// Summary totals the ledger items
func (l Ledger) Summary() Summary {
	return Summarize(l.Items)
}
