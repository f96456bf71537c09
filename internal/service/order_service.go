// FILE: internal/service/order_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"ai-ordertaking-be/internal/constant"
	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/repository/contract"
	"ai-ordertaking-be/internal/repository/specification"
	"ai-ordertaking-be/internal/repository/unitofwork"
	"ai-ordertaking-be/pkg/events"
	"ai-ordertaking-be/pkg/matching"
	pktNats "ai-ordertaking-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoMatchedItems means every mention in the message stayed below the
// match floor. No order row is written for these.
var ErrNoMatchedItems = errors.New("no items matched the catalog")

type IOrderService interface {
	BuildMatches(ctx context.Context, companyId uuid.UUID, items []dto.ItemMention) ([]dto.MatchedItem, error)
	Gate(matches []dto.MatchedItem) dto.GateDecision
	PlaceOrder(ctx context.Context, companyId, storeId uuid.UUID, matches []dto.MatchedItem, sourceMessageId string) (*entity.Order, error)
	SaveDraft(ctx context.Context, draft *dto.OrderDraft) error
	ConfirmDraft(ctx context.Context, companyId, storeId uuid.UUID) (*entity.Order, error)
	CancelDraft(ctx context.Context, companyId, storeId uuid.UUID) (bool, error)
	LastOrder(ctx context.Context, storeId uuid.UUID) (*entity.Order, error)
	RepeatLast(ctx context.Context, storeId uuid.UUID, sourceMessageId string) (*entity.Order, error)
}

type orderService struct {
	uowFactory       unitofwork.RepositoryFactory
	cartRepo         contract.CartRepository
	eventPublisher   *pktNats.Publisher
	matchCfg         matching.Config
	clarifyThreshold float64
}

func NewOrderService(
	uowFactory unitofwork.RepositoryFactory,
	cartRepo contract.CartRepository,
	eventPublisher *pktNats.Publisher,
	matchCfg matching.Config,
	clarifyThreshold float64,
) IOrderService {
	return &orderService{
		uowFactory:       uowFactory,
		cartRepo:         cartRepo,
		eventPublisher:   eventPublisher,
		matchCfg:         matchCfg,
		clarifyThreshold: clarifyThreshold,
	}
}

func (s *orderService) BuildMatches(ctx context.Context, companyId uuid.UUID, items []dto.ItemMention) ([]dto.MatchedItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	products, err := uow.ProductRepository().FindAll(ctx,
		specification.ByCompanyId{CompanyId: companyId},
		specification.ActiveOnly{},
	)
	if err != nil {
		return nil, err
	}

	return matching.MatchAll(ctx, items, products, s.matchCfg)
}

// Gate splits a matched set by the clarification threshold. One low item is
// enough to hold the whole order back.
func (s *orderService) Gate(matches []dto.MatchedItem) dto.GateDecision {
	var low []dto.MatchedItem
	for _, m := range matches {
		if m.Confidence < s.clarifyThreshold {
			low = append(low, m)
		}
	}

	return dto.GateDecision{
		AllConfident: len(low) == 0,
		LowItems:     low,
	}
}

func (s *orderService) PlaceOrder(ctx context.Context, companyId, storeId uuid.UUID, matches []dto.MatchedItem, sourceMessageId string) (*entity.Order, error) {
	lines := make([]entity.OrderLine, 0, len(matches))
	total := 0.0

	// Unresolved mentions were already surfaced to the sender; only resolved
	// ones become order lines.
	for _, m := range matches {
		if m.Product == nil {
			continue
		}

		quantity := m.Mention.Quantity
		if quantity <= 0 {
			quantity = 1
		}

		lineTotal := round2(quantity * m.UnitPrice)
		lines = append(lines, entity.OrderLine{
			ProductId:  m.Product.Id,
			Sku:        m.Product.Sku,
			Name:       m.Product.Name,
			Mention:    m.Mention.Name,
			Quantity:   quantity,
			Unit:       m.Mention.Unit,
			UnitPrice:  m.UnitPrice,
			LineTotal:  lineTotal,
			Confidence: m.Confidence,
		})
		total += lineTotal
	}

	if len(lines) == 0 {
		return nil, ErrNoMatchedItems
	}

	order := &entity.Order{
		Id:              uuid.New(),
		CompanyId:       companyId,
		StoreId:         storeId,
		Channel:         constant.ChannelWhatsApp,
		Status:          entity.OrderStatusPending,
		Items:           lines,
		TotalAmount:     round2(total),
		SourceMessageId: sourceMessageId,
		CreatedAt:       time.Now(),
	}

	return s.persistOrder(ctx, order)
}

// persistOrder writes the order exactly once per source message. The
// pre-check catches ordinary webhook redeliveries; the unique index on
// source_message_id catches the concurrent ones.
func (s *orderService) persistOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Fast path: this message was already turned into an order.
	existing, err := uow.OrderRepository().FindOne(ctx,
		specification.BySourceMessageId{MessageId: order.SourceMessageId},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// 2. Write inside a transaction.
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if err := uow.OrderRepository().Create(ctx, order); err != nil {
		if isUniqueViolation(err) {
			// Lost the race against a concurrent redelivery. The winner's
			// row is the order for this message.
			fresh := s.uowFactory.NewUnitOfWork(ctx)
			return fresh.OrderRepository().FindOne(ctx,
				specification.BySourceMessageId{MessageId: order.SourceMessageId},
			)
		}
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	// 3. Publish Event for Fulfillment System
	if s.eventPublisher != nil {
		evt := events.NewOrderCreated(
			order.Id,
			order.CompanyId,
			order.StoreId,
			order.TotalAmount,
			len(order.Items),
			order.SourceMessageId,
		)
		// We log error but don't fail the request as fulfillment catches up
		// from the orders table anyway
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish ORDER_CREATED event: %v\n", err)
		}
	}

	return order, nil
}

func (s *orderService) SaveDraft(ctx context.Context, draft *dto.OrderDraft) error {
	return s.cartRepo.SaveDraft(ctx, draft)
}

// ConfirmDraft turns the pending draft into an order using the best-guess
// matches as they were asked. Returns nil, nil when the draft has expired.
func (s *orderService) ConfirmDraft(ctx context.Context, companyId, storeId uuid.UUID) (*entity.Order, error) {
	draft, err := s.cartRepo.GetDraft(ctx, companyId, storeId)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, nil
	}

	order, err := s.PlaceOrder(ctx, companyId, storeId, draft.Matches, draft.SourceMessageId)
	if err != nil {
		if errors.Is(err, ErrNoMatchedItems) {
			// Nothing in the draft can become a line; keeping it around
			// would just replay the same failure.
			_ = s.cartRepo.DeleteDraft(ctx, companyId, storeId)
		}
		return nil, err
	}

	if err := s.cartRepo.DeleteDraft(ctx, companyId, storeId); err != nil {
		fmt.Printf("[WARN] Failed to delete confirmed draft for store %s: %v\n", storeId, err)
	}

	return order, nil
}

func (s *orderService) CancelDraft(ctx context.Context, companyId, storeId uuid.UUID) (bool, error) {
	draft, err := s.cartRepo.GetDraft(ctx, companyId, storeId)
	if err != nil {
		return false, err
	}
	if draft == nil {
		return false, nil
	}

	if err := s.cartRepo.DeleteDraft(ctx, companyId, storeId); err != nil {
		return false, err
	}

	return true, nil
}

func (s *orderService) LastOrder(ctx context.Context, storeId uuid.UUID) (*entity.Order, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	return uow.OrderRepository().FindOne(ctx,
		specification.ByStoreId{StoreId: storeId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

// RepeatLast copies the store's latest order verbatim, stored prices
// included. Returns nil, nil when the store has no order yet.
func (s *orderService) RepeatLast(ctx context.Context, storeId uuid.UUID, sourceMessageId string) (*entity.Order, error) {
	last, err := s.LastOrder(ctx, storeId)
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}

	order := &entity.Order{
		Id:              uuid.New(),
		CompanyId:       last.CompanyId,
		StoreId:         last.StoreId,
		Channel:         constant.ChannelWhatsApp,
		Status:          entity.OrderStatusPending,
		Items:           last.Items,
		TotalAmount:     last.TotalAmount,
		SourceMessageId: sourceMessageId,
		CreatedAt:       time.Now(),
	}

	return s.persistOrder(ctx, order)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
