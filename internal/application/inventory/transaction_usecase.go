package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/inventory"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// TransactionUseCase registra entradas y salidas de inventario. Crear y eliminar una
// transacción ajusta la cantidad del ítem en la misma escritura que el registro.
type TransactionUseCase struct {
	txs   repository.TransactionRepository
	items repository.InventoryItemRepository
	users repository.UserRepository
	tx    ports.TxRunner
	now   func() time.Time
}

// NewTransactionUseCase construye el caso de uso.
func NewTransactionUseCase(
	txs repository.TransactionRepository,
	items repository.InventoryItemRepository,
	users repository.UserRepository,
	tx ports.TxRunner,
) *TransactionUseCase {
	return &TransactionUseCase{txs: txs, items: items, users: users, tx: tx, now: time.Now}
}

// SetClock reemplaza el reloj (tests). Su zona horaria define los límites de día.
func (uc *TransactionUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// List transacciones filtradas, más recientes primero, con datos del ítem y del usuario.
// end_date en formato fecha incluye el día completo.
func (uc *TransactionUseCase) List(ctx context.Context, f dto.TransactionFilter) (*dto.Page[dto.TransactionResponse], error) {
	f.Normalize()
	if f.Type != "" && !entity.ValidTransactionType(f.Type) {
		return nil, fmt.Errorf("%w: type debe ser in u out", domain.ErrInvalidInput)
	}
	loc := uc.now().Location()
	var from, until time.Time
	if f.StartDate != "" {
		t, _, err := parseDate(f.StartDate, loc)
		if err != nil {
			return nil, err
		}
		from = t
	}
	if f.EndDate != "" {
		t, dateOnly, err := parseDate(f.EndDate, loc)
		if err != nil {
			return nil, err
		}
		until = t
		if dateOnly {
			until = t.AddDate(0, 0, 1)
		} else {
			until = t.Add(time.Nanosecond)
		}
	}

	all, err := uc.txs.List()
	if err != nil {
		return nil, err
	}
	j, err := uc.loadJoins()
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]*entity.Transaction, 0, len(all))
	for _, t := range all {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.InventoryID > 0 && t.ItemID != f.InventoryID {
			continue
		}
		if !from.IsZero() && t.CreatedAt.Before(from) {
			continue
		}
		if !until.IsZero() && !t.CreatedAt.Before(until) {
			continue
		}
		if search != "" {
			it := j.items[t.ItemID]
			if it == nil || (!strings.Contains(strings.ToLower(it.Name), search) &&
				!strings.Contains(strings.ToLower(it.SKU), search)) {
				continue
			}
		}
		filtered = append(filtered, t)
	}
	sortNewestFirst(filtered)
	return j.page(filtered, f.PageRequest), nil
}

// History transacciones de un ítem, más recientes primero.
func (uc *TransactionUseCase) History(ctx context.Context, itemID int64, p dto.PageRequest) (*dto.Page[dto.TransactionResponse], error) {
	p.Normalize()
	it, err := uc.items.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: ítem %d", domain.ErrNotFound, itemID)
	}
	list, err := uc.txs.ListByItem(itemID)
	if err != nil {
		return nil, err
	}
	j, err := uc.loadJoins()
	if err != nil {
		return nil, err
	}
	sortNewestFirst(list)
	return j.page(list, p), nil
}

// GetByID obtiene una transacción con sus datos unidos.
func (uc *TransactionUseCase) GetByID(ctx context.Context, id int64) (*dto.TransactionResponse, error) {
	t, err := uc.txs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
	}
	j, err := uc.loadJoins()
	if err != nil {
		return nil, err
	}
	out := j.response(t)
	return &out, nil
}

// Create aplica el movimiento sobre el ítem y registra la transacción con el precio vigente.
// Una salida mayor al stock devuelve ErrInsufficientStock y no persiste nada.
func (uc *TransactionUseCase) Create(ctx context.Context, actor dto.Actor, in dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.InventoryID <= 0 || in.Quantity <= 0 || !entity.ValidTransactionType(in.Type) {
		return nil, fmt.Errorf("%w: inventory_id, type (in|out) y quantity > 0 son requeridos", domain.ErrInvalidInput)
	}
	var (
		created *entity.Transaction
		item    *entity.InventoryItem
	)
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		it, err := repos.Items.GetByID(in.InventoryID)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: ítem %d", domain.ErrNotFound, in.InventoryID)
		}
		next, err := inventory.ApplyMovement(it.Quantity, in.Type, in.Quantity)
		if err != nil {
			if errors.Is(err, domain.ErrInsufficientStock) {
				return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, it.Quantity, in.Quantity)
			}
			return err
		}
		it.Quantity = next
		if err := repos.Items.Update(it); err != nil {
			return err
		}
		t := &entity.Transaction{
			ItemID:     it.ID,
			UserID:     actor.UserID,
			Type:       in.Type,
			Quantity:   in.Quantity,
			UnitPrice:  it.UnitPrice,
			TotalPrice: inventory.TotalPrice(in.Quantity, it.UnitPrice),
			Notes:      strings.TrimSpace(in.Notes),
		}
		if err := repos.Transactions.Create(t); err != nil {
			return err
		}
		created, item = t, it
		return nil
	})
	if err != nil {
		return nil, err
	}
	userName := actor.Username
	if u, err := uc.users.GetByID(actor.UserID); err == nil && u != nil {
		userName = u.Username
	}
	out := toTransactionResponse(created, item, userName)
	return &out, nil
}

// UpdateNotes único campo editable de una transacción.
func (uc *TransactionUseCase) UpdateNotes(ctx context.Context, id int64, in dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	if in.Notes == nil {
		return nil, fmt.Errorf("%w: solo notes es editable", domain.ErrInvalidInput)
	}
	var updated *entity.Transaction
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		existing, err := repos.Transactions.GetByID(id)
		if err != nil {
			return err
		}
		if existing == nil {
			return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
		}
		updated, err = repos.Transactions.UpdateNotes(id, strings.TrimSpace(*in.Notes))
		return err
	})
	if err != nil {
		return nil, err
	}
	j, err := uc.loadJoins()
	if err != nil {
		return nil, err
	}
	out := j.response(updated)
	return &out, nil
}

// Delete revierte el efecto de la transacción sobre el ítem y la elimina en una sola escritura.
// Si la reversión dejaría la cantidad negativa se rechaza con ErrInsufficientStock.
func (uc *TransactionUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		t, err := repos.Transactions.GetByID(id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: transacción %d", domain.ErrNotFound, id)
		}
		it, err := repos.Items.GetByID(t.ItemID)
		if err != nil {
			return err
		}
		if it != nil {
			next, err := inventory.ReverseMovement(it.Quantity, t)
			if err != nil {
				return fmt.Errorf("%w: revertir dejaría el ítem %s con %d", err, it.SKU, it.Quantity-t.Effect())
			}
			it.Quantity = next
			if err := repos.Items.Update(it); err != nil {
				return err
			}
		}
		return repos.Transactions.Delete(id)
	})
}

// joins tablas de búsqueda para proyectar transacciones.
type joins struct {
	items map[int64]*entity.InventoryItem
	users map[int64]string
}

func (uc *TransactionUseCase) loadJoins() (*joins, error) {
	items, err := uc.items.List()
	if err != nil {
		return nil, err
	}
	users, err := uc.users.List()
	if err != nil {
		return nil, err
	}
	j := &joins{
		items: make(map[int64]*entity.InventoryItem, len(items)),
		users: make(map[int64]string, len(users)),
	}
	for _, it := range items {
		j.items[it.ID] = it
	}
	for _, u := range users {
		j.users[u.ID] = u.Username
	}
	return j, nil
}

func (j *joins) response(t *entity.Transaction) dto.TransactionResponse {
	return toTransactionResponse(t, j.items[t.ItemID], j.users[t.UserID])
}

func (j *joins) page(list []*entity.Transaction, p dto.PageRequest) *dto.Page[dto.TransactionResponse] {
	page := dto.Paginate(list, p)
	out := make([]dto.TransactionResponse, 0, len(page))
	for _, t := range page {
		out = append(out, j.response(t))
	}
	return &dto.Page[dto.TransactionResponse]{Items: out, Pagination: dto.NewPagination(p, len(list))}
}

func sortNewestFirst(list []*entity.Transaction) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}

// parseDate acepta YYYY-MM-DD (medianoche en loc) o RFC 3339.
func parseDate(s string, loc *time.Location) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, true, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("%w: fecha inválida %q (use YYYY-MM-DD)", domain.ErrInvalidInput, s)
}

func toTransactionResponse(t *entity.Transaction, it *entity.InventoryItem, userName string) dto.TransactionResponse {
	out := dto.TransactionResponse{
		ID:          t.ID,
		InventoryID: t.ItemID,
		UserID:      t.UserID,
		UserName:    userName,
		Type:        t.Type,
		Quantity:    t.Quantity,
		UnitPrice:   t.UnitPrice,
		TotalPrice:  t.TotalPrice,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
	if it != nil {
		out.InventoryName = it.Name
		out.InventorySKU = it.SKU
	}
	return out
}
