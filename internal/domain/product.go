package domain

import "time"

// Product is a menu item.
type Product struct {
	ID          int64
	Name        string
	Description string
	Category    string
	Price       float64
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Customer is a known caller with saved contact details.
type Customer struct {
	ID        int64
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
