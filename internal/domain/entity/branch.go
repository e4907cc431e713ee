package entity

import "time"

// Branch sucursal. Code es el identificador corto que viaja en los folios
// (ej. "SUC01" en "VTA-SUC01-202412-0001").
type Branch struct {
	ID        string
	Code      string
	Name      string
	Address   string
	Active    bool
	CreatedAt time.Time
}
