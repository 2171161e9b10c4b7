package entity

import "time"

// Client representa un cliente facturable del CRM.
type Client struct {
	ID        string
	Name      string
	Email     string
	Company   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
