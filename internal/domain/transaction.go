package domain

import "time"

// Transaction records a single expense made by a user under a category type.
type Transaction struct {
	ID       string
	Username string
	Type     string
	Amount   float64
	Date     time.Time
	// Color is joined in from the category on read paths.
	Color string
}

// TransactionFilter narrows transaction listings. Nil fields are ignored.
type TransactionFilter struct {
	From   *time.Time
	UpTo   *time.Time
	MinAmt *float64
	MaxAmt *float64
}
