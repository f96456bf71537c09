package service

import (
	"context"
	"testing"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/entity"
	"ai-ordertaking-be/pkg/geo"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedVisitStore(uow *fakeUow) *entity.Store {
	store := &entity.Store{
		Id:        testStoreId,
		CompanyId: testCompanyId,
		Name:      "Sharma Kirana Store",
		Phone:     "919876543210",
		Latitude:  19.1364,
		Longitude: 72.8296,
		IsActive:  true,
	}
	uow.stores.stores = append(uow.stores.stores, store)
	return store
}

func TestValidateVisit(t *testing.T) {
	uow := newFakeUow()
	store := seedVisitStore(uow)
	svc := NewVisitService(&fakeUowFactory{uow: uow}, 150)

	t.Run("inside the radius", func(t *testing.T) {
		// ~40m east of the store front
		res, err := svc.ValidateVisit(context.Background(), testCompanyId, &dto.ValidateVisitRequest{
			StoreId:   store.Id.String(),
			Latitude:  19.1364,
			Longitude: 72.8300,
		})
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.True(t, res.Valid)
		assert.Equal(t, store.Name, res.StoreName)
		assert.Equal(t, 150.0, res.RadiusMeters)
		assert.InDelta(t, 42, res.DistanceMeters, 5)
	})

	t.Run("outside the radius", func(t *testing.T) {
		// A different neighborhood entirely
		res, err := svc.ValidateVisit(context.Background(), testCompanyId, &dto.ValidateVisitRequest{
			StoreId:   store.Id.String(),
			Latitude:  19.0760,
			Longitude: 72.8777,
		})
		assert.NoError(t, err)
		assert.NotNil(t, res)
		assert.False(t, res.Valid)
		assert.Greater(t, res.DistanceMeters, 1000.0)
	})

	t.Run("another tenant's store is invisible", func(t *testing.T) {
		res, err := svc.ValidateVisit(context.Background(), uuid.New(), &dto.ValidateVisitRequest{
			StoreId:   store.Id.String(),
			Latitude:  19.1364,
			Longitude: 72.8296,
		})
		assert.NoError(t, err)
		assert.Nil(t, res)
	})

	t.Run("malformed store id", func(t *testing.T) {
		res, err := svc.ValidateVisit(context.Background(), testCompanyId, &dto.ValidateVisitRequest{
			StoreId:   "not-a-uuid",
			Latitude:  19.1364,
			Longitude: 72.8296,
		})
		assert.Error(t, err)
		assert.Nil(t, res)
	})
}

func TestValidateVisitDefaultRadius(t *testing.T) {
	uow := newFakeUow()
	store := seedVisitStore(uow)
	svc := NewVisitService(&fakeUowFactory{uow: uow}, 0)

	res, err := svc.ValidateVisit(context.Background(), testCompanyId, &dto.ValidateVisitRequest{
		StoreId:   store.Id.String(),
		Latitude:  store.Latitude,
		Longitude: store.Longitude,
	})
	assert.NoError(t, err)
	assert.NotNil(t, res)
	assert.True(t, res.Valid)
	assert.Equal(t, geo.DefaultVisitRadiusMeters, res.RadiusMeters)
	assert.Equal(t, 0.0, res.DistanceMeters)
}
