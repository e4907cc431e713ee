package entity

import "time"

// Prefijos de folio por tipo de documento.
const (
	FolioPrefixVenta      = "VTA"
	FolioPrefixTicket     = "LAB"
	FolioPrefixMovimiento = "MOV"
)

// FolioSequence consecutivo por (prefijo, sucursal, periodo). El periodo es
// año-mes ("202412"); una fila por combinación, creada en el primer uso.
// Seq solo crece: el incremento es un upsert atómico en la base de datos.
type FolioSequence struct {
	Prefix    string
	BranchID  string
	Period    string // YYYYMM
	Seq       int64
	UpdatedAt time.Time
}
