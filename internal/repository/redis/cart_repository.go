package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/repository/contract"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

// CartRepository keeps pending order drafts in Redis so that every instance
// behind the webhook sees the same draft. Values are JSON with a TTL.
type CartRepository struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewCartRepository(client *goredis.Client, ttl time.Duration) contract.CartRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &CartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *CartRepository) SaveDraft(ctx context.Context, draft *dto.OrderDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return r.client.Set(ctx, draftKey(draft.CompanyId, draft.StoreId), payload, r.ttl).Err()
}

func (r *CartRepository) GetDraft(ctx context.Context, companyId, storeId uuid.UUID) (*dto.OrderDraft, error) {
	payload, err := r.client.Get(ctx, draftKey(companyId, storeId)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var draft dto.OrderDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (r *CartRepository) DeleteDraft(ctx context.Context, companyId, storeId uuid.UUID) error {
	return r.client.Del(ctx, draftKey(companyId, storeId)).Err()
}

func draftKey(companyId, storeId uuid.UUID) string {
	return fmt.Sprintf("cart:%s:%s", companyId, storeId)
}
