package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant variante de producto del catálogo (refacción o accesorio concreto:
// marca + modelo + presentación). Es el grano al que se lleva el inventario.
// Nunca se borra físicamente: los movimientos históricos la referencian.
type Variant struct {
	ID          string
	SKU         string
	Name        string
	Description string
	Brand       string
	Model       string
	Category    string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
