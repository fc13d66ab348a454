package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// ItemUseCase CRUD de ítems de inventario. La cantidad solo se fija al crear;
// después cambia únicamente vía transacciones.
type ItemUseCase struct {
	items      repository.InventoryItemRepository
	categories repository.CategoryRepository
	tx         ports.TxRunner
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(items repository.InventoryItemRepository, categories repository.CategoryRepository, tx ports.TxRunner) *ItemUseCase {
	return &ItemUseCase{items: items, categories: categories, tx: tx}
}

// List ítems filtrados (búsqueda en nombre, descripción y SKU; categoría; stock bajo), más recientes primero.
func (uc *ItemUseCase) List(ctx context.Context, f dto.InventoryFilter) (*dto.Page[dto.InventoryItemResponse], error) {
	f.Normalize()
	items, err := uc.items.List()
	if err != nil {
		return nil, err
	}
	names, err := categoryNames(uc.categories)
	if err != nil {
		return nil, err
	}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := make([]*entity.InventoryItem, 0, len(items))
	for _, it := range items {
		if search != "" &&
			!strings.Contains(strings.ToLower(it.Name), search) &&
			!strings.Contains(strings.ToLower(it.Description), search) &&
			!strings.Contains(strings.ToLower(it.SKU), search) {
			continue
		}
		if f.CategoryID > 0 && it.CategoryID != f.CategoryID {
			continue
		}
		if f.OnlyLowStock() && !it.IsLowStock() {
			continue
		}
		filtered = append(filtered, it)
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].ID > filtered[j].ID
		}
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	page := dto.Paginate(filtered, f.PageRequest)
	out := make([]dto.InventoryItemResponse, 0, len(page))
	for _, it := range page {
		out = append(out, toItemResponse(it, names[it.CategoryID]))
	}
	return &dto.Page[dto.InventoryItemResponse]{Items: out, Pagination: dto.NewPagination(f.PageRequest, len(filtered))}, nil
}

// GetByID obtiene un ítem con el nombre de su categoría.
func (uc *ItemUseCase) GetByID(ctx context.Context, id int64) (*dto.InventoryItemResponse, error) {
	it, err := uc.items.GetByID(id)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, fmt.Errorf("%w: ítem %d", domain.ErrNotFound, id)
	}
	out := toItemResponse(it, categoryName(uc.categories, it.CategoryID))
	return &out, nil
}

// Create registra un ítem. El SKU es único y la categoría debe existir.
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	sku := strings.TrimSpace(in.SKU)
	if name == "" || sku == "" || in.CategoryID <= 0 || in.Quantity == nil || in.MinimumQuantity == nil || in.UnitPrice == nil {
		return nil, fmt.Errorf("%w: name, sku, category_id, quantity, minimum_quantity y unit_price son requeridos", domain.ErrInvalidInput)
	}
	if *in.Quantity < 0 || *in.MinimumQuantity < 0 || in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades y precio no pueden ser negativos", domain.ErrInvalidInput)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = entity.DefaultUnit
	}
	item := &entity.InventoryItem{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		SKU:             sku,
		CategoryID:      in.CategoryID,
		Quantity:        *in.Quantity,
		MinimumQuantity: *in.MinimumQuantity,
		UnitPrice:       *in.UnitPrice,
		Unit:            unit,
		Supplier:        strings.TrimSpace(in.Supplier),
		Location:        strings.TrimSpace(in.Location),
	}
	var catName string
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		cat, err := requireCategory(repos.Categories, item.CategoryID)
		if err != nil {
			return err
		}
		if err := ensureUniqueSKU(repos.Items, sku, 0); err != nil {
			return err
		}
		catName = cat.Name
		return repos.Items.Create(item)
	})
	if err != nil {
		return nil, err
	}
	out := toItemResponse(item, catName)
	return &out, nil
}

// Update modifica los campos presentes en in (al menos uno).
func (uc *ItemUseCase) Update(ctx context.Context, id int64, in dto.UpdateInventoryItemRequest) (*dto.InventoryItemResponse, error) {
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: no hay información para actualizar", domain.ErrInvalidInput)
	}
	if in.MinimumQuantity != nil && *in.MinimumQuantity < 0 {
		return nil, fmt.Errorf("%w: minimum_quantity no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.UnitPrice != nil && in.UnitPrice.IsNegative() {
		return nil, fmt.Errorf("%w: unit_price no puede ser negativo", domain.ErrInvalidInput)
	}
	var (
		updated *entity.InventoryItem
		catName string
	)
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		it, err := repos.Items.GetByID(id)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: ítem %d", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name no puede estar vacío", domain.ErrInvalidInput)
			}
			it.Name = name
		}
		if in.SKU != nil {
			sku := strings.TrimSpace(*in.SKU)
			if sku == "" {
				return fmt.Errorf("%w: sku no puede estar vacío", domain.ErrInvalidInput)
			}
			if err := ensureUniqueSKU(repos.Items, sku, id); err != nil {
				return err
			}
			it.SKU = sku
		}
		if in.CategoryID != nil {
			it.CategoryID = *in.CategoryID
		}
		cat, err := requireCategory(repos.Categories, it.CategoryID)
		if err != nil {
			return err
		}
		catName = cat.Name
		if in.Description != nil {
			it.Description = strings.TrimSpace(*in.Description)
		}
		if in.MinimumQuantity != nil {
			it.MinimumQuantity = *in.MinimumQuantity
		}
		if in.UnitPrice != nil {
			it.UnitPrice = *in.UnitPrice
		}
		if in.Unit != nil {
			it.Unit = strings.TrimSpace(*in.Unit)
			if it.Unit == "" {
				it.Unit = entity.DefaultUnit
			}
		}
		if in.Supplier != nil {
			it.Supplier = strings.TrimSpace(*in.Supplier)
		}
		if in.Location != nil {
			it.Location = strings.TrimSpace(*in.Location)
		}
		if err := repos.Items.Update(it); err != nil {
			return err
		}
		updated = it
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toItemResponse(updated, catName)
	return &out, nil
}

// Delete elimina el ítem si ninguna transacción lo referencia.
func (uc *ItemUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		it, err := repos.Items.GetByID(id)
		if err != nil {
			return err
		}
		if it == nil {
			return fmt.Errorf("%w: ítem %d", domain.ErrNotFound, id)
		}
		n, err := repos.Transactions.CountByItem(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: el ítem tiene %d transacciones registradas", domain.ErrIntegrity, n)
		}
		return repos.Items.Delete(id)
	})
}

func requireCategory(repo repository.CategoryRepository, id int64) (*entity.Category, error) {
	cat, err := repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, fmt.Errorf("%w: la categoría %d no existe", domain.ErrNotFound, id)
	}
	return cat, nil
}

func ensureUniqueSKU(repo repository.InventoryItemRepository, sku string, excludeID int64) error {
	existing, err := repo.GetBySKU(sku)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return fmt.Errorf("%w: el SKU %q ya existe", domain.ErrDuplicate, sku)
	}
	return nil
}

func categoryNames(repo repository.CategoryRepository) (map[int64]string, error) {
	cats, err := repo.List()
	if err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(cats))
	for _, c := range cats {
		out[c.ID] = c.Name
	}
	return out, nil
}

func categoryName(repo repository.CategoryRepository, id int64) string {
	cat, err := repo.GetByID(id)
	if err != nil || cat == nil {
		return ""
	}
	return cat.Name
}

func toItemResponse(it *entity.InventoryItem, catName string) dto.InventoryItemResponse {
	return dto.InventoryItemResponse{
		ID:              it.ID,
		Name:            it.Name,
		Description:     it.Description,
		SKU:             it.SKU,
		CategoryID:      it.CategoryID,
		CategoryName:    catName,
		Quantity:        it.Quantity,
		MinimumQuantity: it.MinimumQuantity,
		UnitPrice:       it.UnitPrice,
		Unit:            it.Unit,
		Supplier:        it.Supplier,
		Location:        it.Location,
		LowStock:        it.IsLowStock(),
		CreatedAt:       it.CreatedAt,
		UpdatedAt:       it.UpdatedAt,
	}
}
