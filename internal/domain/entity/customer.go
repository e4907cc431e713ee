package entity

import "time"

// Customer cliente del taller.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	CreatedAt time.Time
}
