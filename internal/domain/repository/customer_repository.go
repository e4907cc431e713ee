package repository

import "github.com/tu-usuario/taller-pro/internal/domain/entity"

// CustomerRepository puerto de lectura de clientes.
type CustomerRepository interface {
	GetByID(id string) (*entity.Customer, error)
}
