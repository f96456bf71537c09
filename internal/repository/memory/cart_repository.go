package memory

import (
	"context"
	"fmt"
	"time"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CartRepository keeps pending order drafts in process memory. Good for a
// single instance; use the Redis variant when running more than one.
type CartRepository struct {
	cache *cache.Cache
}

func NewCartRepository(ttl time.Duration) contract.CartRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	// purge expired drafts every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &CartRepository{
		cache: c,
	}
}

func (r *CartRepository) SaveDraft(_ context.Context, draft *dto.OrderDraft) error {
	r.cache.Set(draftKey(draft.CompanyId, draft.StoreId), draft, cache.DefaultExpiration)
	return nil
}

func (r *CartRepository) GetDraft(_ context.Context, companyId, storeId uuid.UUID) (*dto.OrderDraft, error) {
	if x, found := r.cache.Get(draftKey(companyId, storeId)); found {
		return x.(*dto.OrderDraft), nil
	}
	return nil, nil
}

func (r *CartRepository) DeleteDraft(_ context.Context, companyId, storeId uuid.UUID) error {
	r.cache.Delete(draftKey(companyId, storeId))
	return nil
}

func draftKey(companyId, storeId uuid.UUID) string {
	return fmt.Sprintf("%s:%s", companyId, storeId)
}
