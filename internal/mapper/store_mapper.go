package mapper

import (
	"time"

	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/model"
)

type StoreMapper struct{}

func NewStoreMapper() *StoreMapper {
	return &StoreMapper{}
}

func (m *StoreMapper) ToEntity(s *model.Store) *entity.Store {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.Store{
		Id:        s.Id,
		CompanyId: s.CompanyId,
		Name:      s.Name,
		Phone:     s.Phone,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *StoreMapper) ToModel(s *entity.Store) *model.Store {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Store{
		Id:        s.Id,
		CompanyId: s.CompanyId,
		Name:      s.Name,
		Phone:     s.Phone,
		Address:   s.Address,
		Latitude:  s.Latitude,
		Longitude: s.Longitude,
		IsActive:  s.IsActive,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *StoreMapper) ToEntities(stores []*model.Store) []*entity.Store {
	entities := make([]*entity.Store, len(stores))
	for i, s := range stores {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *StoreMapper) ToModels(stores []*entity.Store) []*model.Store {
	models := make([]*model.Store, len(stores))
	for i, s := range stores {
		models[i] = m.ToModel(s)
	}
	return models
}
