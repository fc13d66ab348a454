package jsonstore

import (
	"context"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

var _ ports.TxRunner = (*TxRunner)(nil)

// TxRunner agrupa varias operaciones de repositorio en una sola escritura del documento.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run ejecuta fn con repos atados a una copia del documento bajo el lock de escritura.
// Si fn devuelve error la copia se descarta; si no, se persiste y se confirma.
func (r *TxRunner) Run(ctx context.Context, fn func(repos repository.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.update(func(d *document) error {
		return fn(newRepositories(&txExecutor{doc: d, clock: r.store.now}))
	})
}

// txExecutor ejecuta operaciones directamente sobre la copia de una transacción en curso.
type txExecutor struct {
	doc   *document
	clock func() time.Time
}

func (t *txExecutor) view(fn func(d *document) error) error   { return fn(t.doc) }
func (t *txExecutor) update(fn func(d *document) error) error { return fn(t.doc) }
func (t *txExecutor) now() time.Time                          { return t.clock() }
