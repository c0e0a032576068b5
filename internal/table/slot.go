package table

import "fmt"

// SlotKind identifies what occupies a position of the table.
type SlotKind int

const (
	SlotHeader SlotKind = iota
	SlotFooter
	SlotBody
	SlotRule
)

// Slot is a position in the table. Index is only meaningful for body rows
// and rule markers, which share the row cursor.
type Slot struct {
	Kind  SlotKind
	Index int
}

// HeaderSlot returns the slot of the header row.
func HeaderSlot() Slot { return Slot{Kind: SlotHeader} }

// FooterSlot returns the slot of the footer row.
func FooterSlot() Slot { return Slot{Kind: SlotFooter} }

// BodySlot returns the slot of the body row at index.
func BodySlot(index int) Slot { return Slot{Kind: SlotBody, Index: index} }

// RuleSlot returns the slot of a rule marker at index.
func RuleSlot(index int) Slot { return Slot{Kind: SlotRule, Index: index} }

func (s Slot) String() string {
	switch s.Kind {
	case SlotHeader:
		return "header"
	case SlotFooter:
		return "footer"
	case SlotBody:
		return fmt.Sprintf("row %d", s.Index)
	case SlotRule:
		return fmt.Sprintf("rule %d", s.Index)
	default:
		return fmt.Sprintf("slot(%d)", int(s.Kind))
	}
}
