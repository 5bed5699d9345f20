package planning

// Selection is the transient state of one planning interaction: the item
// being planned and the visitor's choices so far.  Callers own it and pass
// it in on every step; nothing here keeps it between calls.
type Selection struct {
	Kind        ItemKind `json:"kind" validate:"required,oneof=attraction show service"`
	ItemID      uint64   `json:"item_id" validate:"required"`
	TicketID    *uint64  `json:"ticket_id,omitempty"`
	Mode        Mode     `json:"mode" validate:"required,oneof=new existing"`
	PlannerID   *uint64  `json:"planner_id,omitempty"`
	Title       string   `json:"title" validate:"max=120"`
	Description string   `json:"description" validate:"max=1000"`
}

// Reset clears the choices made for the last write while keeping the item,
// so the same item can be planned again.
func (s Selection) Reset() Selection {
	return Selection{Kind: s.Kind, ItemID: s.ItemID, Mode: ModeNew}
}
