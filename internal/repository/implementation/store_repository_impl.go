package implementation

import (
	"context"
	"errors"

	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/mapper"
	"ai-ordertaking-be/internal/model"
	"ai-ordertaking-be/internal/repository/contract"
	"ai-ordertaking-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StoreRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StoreMapper
}

func NewStoreRepository(db *gorm.DB) contract.StoreRepository {
	return &StoreRepositoryImpl{
		db:     db,
		mapper: mapper.NewStoreMapper(),
	}
}

func (r *StoreRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *StoreRepositoryImpl) Create(ctx context.Context, store *entity.Store) error {
	m := r.mapper.ToModel(store)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*store = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoreRepositoryImpl) Update(ctx context.Context, store *entity.Store) error {
	m := r.mapper.ToModel(store)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*store = *r.mapper.ToEntity(m)
	return nil
}

func (r *StoreRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Store{}, id).Error
}

func (r *StoreRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error) {
	var m model.Store
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *StoreRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Store, error) {
	var models []*model.Store
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *StoreRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Store{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
