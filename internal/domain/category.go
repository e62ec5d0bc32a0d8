package domain

import "time"

// Category labels transactions with a spending type and a display color.
// The type string is the natural key; renames cascade onto transactions.
type Category struct {
	ID        string
	Type      string
	Color     string
	CreatedAt time.Time
}
