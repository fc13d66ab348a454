package jsonstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-tracker/internal/domain/entity"
)

// Credenciales del administrador sembrado.
const (
	SeedAdminUsername = "admin"
	SeedAdminEmail    = "admin@company.com"
)

// seedDocument documento inicial: un admin, dos categorías y dos ítems.
func seedDocument(now time.Time, adminHash string) *document {
	active := true
	return &document{
		Users: []userRecord{
			{
				ID:           1,
				Username:     SeedAdminUsername,
				Email:        SeedAdminEmail,
				FullName:     "Administrador",
				PasswordHash: adminHash,
				Role:         entity.RoleAdmin,
				IsActive:     &active,
				CreatedAt:    now,
				UpdatedAt:    now,
			},
		},
		Categories: []categoryRecord{
			{ID: 1, Name: "Electrónica", Description: "Equipos electrónicos", CreatedAt: now, UpdatedAt: now},
			{ID: 2, Name: "Papelería", Description: "Útiles de oficina", CreatedAt: now, UpdatedAt: now},
		},
		Inventory: []itemRecord{
			{
				ID:              1,
				Name:            "Portátil",
				Description:     "Portátil de trabajo",
				SKU:             "NB-001",
				CategoryID:      1,
				Quantity:        10,
				MinimumQuantity: 2,
				UnitPrice:       decimal.NewFromInt(1500000),
				Unit:            entity.DefaultUnit,
				Supplier:        "Tech Corp",
				Location:        "Bodega A-1",
				CreatedAt:       now,
				UpdatedAt:       now,
			},
			{
				ID:              2,
				Name:            "Bolígrafo",
				Description:     "Bolígrafo negro",
				SKU:             "PEN-001",
				CategoryID:      2,
				Quantity:        100,
				MinimumQuantity: 20,
				UnitPrice:       decimal.NewFromInt(1000),
				Unit:            entity.DefaultUnit,
				Supplier:        "Office Supply",
				Location:        "Bodega B-1",
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
		Transactions: []transactionRecord{},
		LastIDs:      lastIDs{Users: 1, Categories: 2, Inventory: 2, Transactions: 0},
	}
}
