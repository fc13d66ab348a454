package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/stock-tracker/internal/application/dto"
	"github.com/jhoicas/stock-tracker/internal/application/ports"
	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/entity"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

// CategoryUseCase aplica reglas de negocio para categorías.
type CategoryUseCase struct {
	repo  repository.CategoryRepository
	items repository.InventoryItemRepository
	tx    ports.TxRunner
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository, items repository.InventoryItemRepository, tx ports.TxRunner) *CategoryUseCase {
	return &CategoryUseCase{repo: repo, items: items, tx: tx}
}

// SameCategoryName compara nombres sin distinguir mayúsculas (case folding Unicode).
// Un Caser no se comparte entre goroutines.
func SameCategoryName(a, b string) bool {
	folder := cases.Fold()
	return folder.String(strings.TrimSpace(a)) == folder.String(strings.TrimSpace(b))
}

// List categorías ordenadas por nombre según la collation del español, con su número de ítems.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	cats, err := uc.repo.List()
	if err != nil {
		return nil, err
	}
	items, err := uc.items.List()
	if err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(cats))
	for _, it := range items {
		counts[it.CategoryID]++
	}
	col := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(cats, func(i, j int) bool {
		return col.CompareString(cats[i].Name, cats[j].Name) < 0
	})
	out := make([]dto.CategoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c, counts[c.ID]))
	}
	return out, nil
}

// Create registra una categoría; el nombre es obligatorio y único sin distinguir mayúsculas.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: el nombre de la categoría es requerido", domain.ErrInvalidInput)
	}
	cat := &entity.Category{Name: name, Description: strings.TrimSpace(in.Description)}
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		if err := ensureUniqueCategoryName(repos.Categories, name, 0); err != nil {
			return err
		}
		return repos.Categories.Create(cat)
	})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(cat, 0)
	return &out, nil
}

// Update modifica nombre y/o descripción.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if in.Name == nil && in.Description == nil {
		return nil, fmt.Errorf("%w: no hay información para actualizar", domain.ErrInvalidInput)
	}
	var (
		updated *entity.Category
		count   int
	)
	err := uc.tx.Run(ctx, func(repos repository.Repositories) error {
		cat, err := repos.Categories.GetByID(id)
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: el nombre de la categoría es requerido", domain.ErrInvalidInput)
			}
			if err := ensureUniqueCategoryName(repos.Categories, name, id); err != nil {
				return err
			}
			cat.Name = name
		}
		if in.Description != nil {
			cat.Description = strings.TrimSpace(*in.Description)
		}
		if err := repos.Categories.Update(cat); err != nil {
			return err
		}
		count, err = repos.Items.CountByCategory(id)
		if err != nil {
			return err
		}
		updated = cat
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := toCategoryResponse(updated, count)
	return &out, nil
}

// Delete elimina la categoría si ningún ítem la referencia.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	return uc.tx.Run(ctx, func(repos repository.Repositories) error {
		cat, err := repos.Categories.GetByID(id)
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("%w: categoría %d", domain.ErrNotFound, id)
		}
		n, err := repos.Items.CountByCategory(id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: la categoría tiene %d ítems asociados", domain.ErrIntegrity, n)
		}
		return repos.Categories.Delete(id)
	})
}

func ensureUniqueCategoryName(repo repository.CategoryRepository, name string, excludeID int64) error {
	cats, err := repo.List()
	if err != nil {
		return err
	}
	for _, c := range cats {
		if c.ID != excludeID && SameCategoryName(c.Name, name) {
			return fmt.Errorf("%w: la categoría %q ya existe", domain.ErrDuplicate, name)
		}
	}
	return nil
}

func toCategoryResponse(c *entity.Category, itemCount int) dto.CategoryResponse {
	return dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ItemCount:   itemCount,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
