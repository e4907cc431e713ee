package repository

// FolioRepository puerto del consecutivo de folios.
type FolioRepository interface {
	// NextSeq incrementa y devuelve el consecutivo de (prefix, branch, period)
	// en una sola operación atómica (upsert con RETURNING). Dos llamadas
	// concurrentes jamás observan el mismo valor.
	NextSeq(prefix, branchID, period string) (int64, error)
}
