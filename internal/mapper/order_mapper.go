package mapper

import (
	"encoding/json"
	"time"

	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/internal/model"

	"gorm.io/datatypes"
)

type OrderMapper struct{}

func NewOrderMapper() *OrderMapper {
	return &OrderMapper{}
}

func (m *OrderMapper) ToEntity(o *model.Order) *entity.Order {
	if o == nil {
		return nil
	}

	var updatedAt *time.Time
	if !o.UpdatedAt.IsZero() {
		t := o.UpdatedAt
		updatedAt = &t
	}

	var items []entity.OrderLine
	if len(o.Items) > 0 {
		_ = json.Unmarshal(o.Items, &items)
	}

	return &entity.Order{
		Id:              o.Id,
		CompanyId:       o.CompanyId,
		StoreId:         o.StoreId,
		Channel:         o.Channel,
		Status:          o.Status,
		Items:           items,
		TotalAmount:     o.TotalAmount,
		SourceMessageId: o.SourceMessageId,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *OrderMapper) ToModel(o *entity.Order) *model.Order {
	if o == nil {
		return nil
	}

	var updatedAt time.Time
	if o.UpdatedAt != nil {
		updatedAt = *o.UpdatedAt
	}

	itemsJSON, _ := json.Marshal(o.Items)

	return &model.Order{
		Id:              o.Id,
		CompanyId:       o.CompanyId,
		StoreId:         o.StoreId,
		Channel:         o.Channel,
		Status:          o.Status,
		Items:           datatypes.JSON(itemsJSON),
		TotalAmount:     o.TotalAmount,
		SourceMessageId: o.SourceMessageId,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}

func (m *OrderMapper) ToEntities(orders []*model.Order) []*entity.Order {
	entities := make([]*entity.Order, len(orders))
	for i, o := range orders {
		entities[i] = m.ToEntity(o)
	}
	return entities
}

func (m *OrderMapper) ToModels(orders []*entity.Order) []*model.Order {
	models := make([]*model.Order, len(orders))
	for i, o := range orders {
		models[i] = m.ToModel(o)
	}
	return models
}
