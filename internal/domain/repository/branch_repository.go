package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// BranchRepository puerto de lectura de sucursales.
type BranchRepository interface {
	GetByID(id string) (*entity.Branch, error)
	List() ([]*entity.Branch, error)
}
