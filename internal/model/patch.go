package model

// CardPatch is a partial update for one card. Nil fields are left untouched.
type CardPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      *string   `json:"status,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	DueDate     *string   `json:"due_date,omitempty"`
	OrderIdx    *int      `json:"order_idx,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p CardPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.Tags == nil && p.DueDate == nil && p.OrderIdx == nil
}

// Apply writes the non-nil fields onto c.
func (p CardPatch) Apply(c *Card) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Priority != nil {
		c.Priority = *p.Priority
	}
	if p.Tags != nil {
		c.Tags = *p.Tags
	}
	if p.DueDate != nil {
		c.DueDate = *p.DueDate
	}
	if p.OrderIdx != nil {
		c.OrderIdx = *p.OrderIdx
	}
}
