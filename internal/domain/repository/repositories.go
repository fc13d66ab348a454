package repository

// Repositories agrupa los repositorios atados a una misma fuente (store o transacción).
type Repositories struct {
	Users        UserRepository
	Categories   CategoryRepository
	Items        InventoryItemRepository
	Transactions TransactionRepository
}
