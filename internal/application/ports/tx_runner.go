package ports

import (
	"context"

	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// TxRunner ejecuta fn con repositorios atados a una única escritura del documento.
// Si fn devuelve error no se persiste nada; si la escritura falla el estado en memoria no cambia.
// Las llamadas se serializan: fn ve el resultado completo de la anterior.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos repository.Repositories) error) error
}
