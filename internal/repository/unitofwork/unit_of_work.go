package unitofwork

import (
	"context"

	"ai-ordertaking-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	StoreRepository() contract.StoreRepository
	ProductRepository() contract.ProductRepository
	OrderRepository() contract.OrderRepository
}
