package contract

import (
	"context"

	"ai-ordertaking-be/internal/dto"

	"github.com/google/uuid"
)

// CartRepository is the keyed draft store between a clarification question
// and the sender's confirm/cancel reply. Keyed by company+store; entries
// expire on their own. Backed by process memory for a single instance or by
// Redis when several instances must see the same draft.
type CartRepository interface {
	SaveDraft(ctx context.Context, draft *dto.OrderDraft) error
	GetDraft(ctx context.Context, companyId, storeId uuid.UUID) (*dto.OrderDraft, error)
	DeleteDraft(ctx context.Context, companyId, storeId uuid.UUID) error
}
