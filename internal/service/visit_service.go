// FILE: internal/service/visit_service.go
package service

import (
	"context"

	"ai-ordertaking-be/internal/dto"
	"ai-ordertaking-be/internal/repository/specification"
	"ai-ordertaking-be/internal/repository/unitofwork"
	"ai-ordertaking-be/pkg/geo"

	"github.com/google/uuid"
)

// IVisitService checks whether a field rep's reported coordinates are close
// enough to the store they claim to be visiting.
type IVisitService interface {
	ValidateVisit(ctx context.Context, companyId uuid.UUID, req *dto.ValidateVisitRequest) (*dto.ValidateVisitResponse, error)
}

type visitService struct {
	uowFactory   unitofwork.RepositoryFactory
	radiusMeters float64
}

func NewVisitService(uowFactory unitofwork.RepositoryFactory, radiusMeters float64) IVisitService {
	return &visitService{
		uowFactory:   uowFactory,
		radiusMeters: radiusMeters,
	}
}

func (s *visitService) ValidateVisit(ctx context.Context, companyId uuid.UUID, req *dto.ValidateVisitRequest) (*dto.ValidateVisitResponse, error) {
	storeId, err := uuid.Parse(req.StoreId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	store, err := uow.StoreRepository().FindOne(ctx,
		specification.ByID{ID: storeId},
		specification.ByCompanyId{CompanyId: companyId},
	)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, nil // Not found (or another tenant's store)
	}

	result := geo.ValidateProximity(req.Latitude, req.Longitude, store.Latitude, store.Longitude, s.radiusMeters)

	radius := s.radiusMeters
	if radius <= 0 {
		radius = geo.DefaultVisitRadiusMeters
	}

	return &dto.ValidateVisitResponse{
		StoreId:        store.Id.String(),
		StoreName:      store.Name,
		DistanceMeters: result.DistanceMeters,
		RadiusMeters:   radius,
		Valid:          result.Valid,
	}, nil
}
