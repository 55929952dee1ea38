package service

import (
	"context"
	"fmt"

	"rentals/internal/catalog/repository"
	"rentals/pkg/config"
	apperrors "rentals/pkg/errors"
	"rentals/pkg/model"
)

const MsgNoVehiclesForType = "No vehicles found for the selected type."

func msgNoTypesForWheels(wheels int) string {
	return fmt.Sprintf("No vehicle types found for %d wheels.", wheels)
}

// CatalogService serves the read-only vehicle catalog. An empty result is
// reported as NotFound.
type CatalogService interface {
	TypesByWheels(ctx context.Context, wheels int) ([]*model.VehicleType, error)
	VehiclesByType(ctx context.Context, typeID int) ([]*model.Vehicle, error)
}

type catalogService struct {
	repo repository.CatalogRepository
	cfg  *config.Config
}

func NewCatalogService(repo repository.CatalogRepository, cfg *config.Config) CatalogService {
	return &catalogService{repo: repo, cfg: cfg}
}

func (s *catalogService) TypesByWheels(ctx context.Context, wheels int) ([]*model.VehicleType, error) {
	types, err := s.repo.FindTypesByWheels(ctx, wheels)
	if err != nil {
		s.cfg.Log.Error("Failed to list vehicle types", "wheels", wheels, "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicle types", err)
	}
	if len(types) == 0 {
		return nil, apperrors.NotFound(msgNoTypesForWheels(wheels))
	}
	return types, nil
}

func (s *catalogService) VehiclesByType(ctx context.Context, typeID int) ([]*model.Vehicle, error) {
	vehicles, err := s.repo.FindVehiclesByType(ctx, typeID)
	if err != nil {
		s.cfg.Log.Error("Failed to list vehicles", "type_id", typeID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicles", err)
	}
	if len(vehicles) == 0 {
		return nil, apperrors.NotFound(MsgNoVehiclesForType)
	}
	return vehicles, nil
}
