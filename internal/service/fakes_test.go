package service

import (
	"context"
	"sort"
	"strings"

	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/repository/contract"
	"ai-ordertaking-be/internal/repository/specification"
	"ai-ordertaking-be/internal/repository/unitofwork"
	"ai-ordertaking-be/pkg/aiclient"
	"ai-ordertaking-be/pkg/whatsapp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// In-memory doubles for the persistence layer. They interpret the same
// specifications the GORM repositories do, so service code under test runs
// unchanged.

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakeUow struct {
	stores   *fakeStoreRepo
	products *fakeProductRepo
	orders   *fakeOrderRepo

	begun      int
	committed  int
	rolledBack int
}

func newFakeUow() *fakeUow {
	return &fakeUow{
		stores:   &fakeStoreRepo{},
		products: &fakeProductRepo{},
		orders:   &fakeOrderRepo{},
	}
}

func (u *fakeUow) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUow) Commit() error                   { u.committed++; return nil }
func (u *fakeUow) Rollback() error                 { u.rolledBack++; return nil }

func (u *fakeUow) StoreRepository() contract.StoreRepository     { return u.stores }
func (u *fakeUow) ProductRepository() contract.ProductRepository { return u.products }
func (u *fakeUow) OrderRepository() contract.OrderRepository     { return u.orders }

type fakeStoreRepo struct {
	stores []*entity.Store
	err    error
}

func (r *fakeStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	r.stores = append(r.stores, store)
	return nil
}

func (r *fakeStoreRepo) Update(ctx context.Context, store *entity.Store) error { return nil }
func (r *fakeStoreRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

func (r *fakeStoreRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, s := range r.stores {
		if storeMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeStoreRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Store, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Store
	for _, s := range r.stores {
		if storeMatches(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeStoreRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func storeMatches(s *entity.Store, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.ByCompanyId:
			if s.CompanyId != v.CompanyId {
				return false
			}
		case specification.ByPhoneSuffix:
			if !strings.HasSuffix(s.Phone, v.Suffix) {
				return false
			}
		case specification.ActiveOnly:
			if !s.IsActive {
				return false
			}
		}
	}
	return true
}

type fakeProductRepo struct {
	products []*entity.Product
	err      error
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.products = append(r.products, product)
	return nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error { return nil }
func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error            { return nil }

func (r *fakeProductRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error) {
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeProductRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error) {
	if r.err != nil {
		return nil, r.err
	}
	var out []*entity.Product
	for _, p := range r.products {
		if productMatches(p, specs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func productMatches(p *entity.Product, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if p.Id != v.ID {
				return false
			}
		case specification.ByCompanyId:
			if p.CompanyId != v.CompanyId {
				return false
			}
		case specification.BySku:
			if !strings.EqualFold(p.Sku, v.Sku) {
				return false
			}
		case specification.ActiveOnly:
			if !p.IsActive {
				return false
			}
		}
	}
	return true
}

type fakeOrderRepo struct {
	orders    []*entity.Order
	createErr error
	findErr   error

	// suppressFinds makes the next N FindOne calls miss, simulating a
	// concurrent writer landing between the idempotency pre-check and the
	// insert.
	suppressFinds int
}

// Create enforces the unique index on source_message_id the way Postgres
// would, so the idempotency race path is testable.
func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, o := range r.orders {
		if o.SourceMessageId == order.SourceMessageId {
			return &pgconn.PgError{Code: "23505", ConstraintName: "ux_orders_source_message"}
		}
	}
	cp := *order
	r.orders = append(r.orders, &cp)
	return nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, order *entity.Order) error { return nil }
func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error        { return nil }

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	if r.suppressFinds > 0 {
		r.suppressFinds--
		return nil, nil
	}
	all, err := r.FindAll(ctx, specs...)
	if err != nil || len(all) == 0 {
		return nil, err
	}
	return all[0], nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}

	var out []*entity.Order
	for _, o := range r.orders {
		if orderMatches(o, specs) {
			out = append(out, o)
		}
	}

	for _, spec := range specs {
		if v, ok := spec.(specification.OrderBy); ok && v.Field == "created_at" {
			sort.SliceStable(out, func(i, j int) bool {
				if v.Desc {
					return out[i].CreatedAt.After(out[j].CreatedAt)
				}
				return out[i].CreatedAt.Before(out[j].CreatedAt)
			})
		}
	}

	return out, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, err := r.FindAll(ctx, specs...)
	return int64(len(all)), err
}

func orderMatches(o *entity.Order, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if o.Id != v.ID {
				return false
			}
		case specification.ByCompanyId:
			if o.CompanyId != v.CompanyId {
				return false
			}
		case specification.ByStoreId:
			if o.StoreId != v.StoreId {
				return false
			}
		case specification.BySourceMessageId:
			if o.SourceMessageId != v.MessageId {
				return false
			}
		case specification.ByStatus:
			if o.Status != v.Status {
				return false
			}
		}
	}
	return true
}

// fakeSender records outbound replies instead of hitting the channel API.

type sentText struct {
	To   string
	Body string
}

type sentButtons struct {
	To      string
	Body    string
	Buttons []whatsapp.Button
}

type fakeSender struct {
	texts    []sentText
	buttons  []sentButtons
	mediaURL string
	mediaErr error
	sendErr  error
}

func (f *fakeSender) SendText(ctx context.Context, to, body string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.texts = append(f.texts, sentText{To: to, Body: body})
	return nil
}

func (f *fakeSender) SendButtons(ctx context.Context, to, body string, buttons []whatsapp.Button) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.buttons = append(f.buttons, sentButtons{To: to, Body: body, Buttons: buttons})
	return nil
}

func (f *fakeSender) ResolveMediaURL(ctx context.Context, mediaId string) (string, error) {
	if f.mediaErr != nil {
		return "", f.mediaErr
	}
	return f.mediaURL, nil
}

func (f *fakeSender) Enabled() bool { return true }

// replyCount is every outbound message of any shape, for the
// exactly-one-reply assertions.
func (f *fakeSender) replyCount() int {
	return len(f.texts) + len(f.buttons)
}

type fakeAiClient struct {
	structured    *aiclient.StructuredOrder
	structuredErr error
	transcript    *aiclient.Transcript
	transcriptErr error
}

func (f *fakeAiClient) StructureText(ctx context.Context, companyId, text, language string) (*aiclient.StructuredOrder, error) {
	if f.structuredErr != nil {
		return nil, f.structuredErr
	}
	return f.structured, nil
}

func (f *fakeAiClient) TranscribeAudio(ctx context.Context, companyId, mediaURL, mimeType string) (*aiclient.Transcript, error) {
	if f.transcriptErr != nil {
		return nil, f.transcriptErr
	}
	return f.transcript, nil
}

func (f *fakeAiClient) ExtractImageText(ctx context.Context, companyId, mediaURL, mimeType string) (*aiclient.Transcript, error) {
	if f.transcriptErr != nil {
		return nil, f.transcriptErr
	}
	return f.transcript, nil
}

type opsAlert struct {
	To        string
	StoreName string
	MessageId string
	Reason    string
}

type fakeEmailService struct {
	alerts []opsAlert
}

func (f *fakeEmailService) SendOrderFailureAlert(toEmail, storeName, messageId, reason string) error {
	f.alerts = append(f.alerts, opsAlert{To: toEmail, StoreName: storeName, MessageId: messageId, Reason: reason})
	return nil
}

func (f *fakeEmailService) SendOpsAlert(toEmail, subject, body string) error { return nil }

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }
