package repository

import (
	"context"

	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

// FallbackCatalogRepository reads from the remote API when it answers and
// from the local repository otherwise. Writes always go to the local one.
type FallbackCatalogRepository struct {
	remote RemoteCatalogInterface
	local  CatalogRepositoryInterface
	logger logger.Logger
}

func NewFallbackCatalogRepository(remote RemoteCatalogInterface, local CatalogRepositoryInterface, log logger.Logger) *FallbackCatalogRepository {
	return &FallbackCatalogRepository{
		remote: remote,
		local:  local,
		logger: log,
	}
}

func (r *FallbackCatalogRepository) LoadTechnicians(ctx context.Context) ([]models.Technician, error) {
	technicians, err := r.remote.FetchTechnicians(ctx)
	if err == nil {
		return technicians, nil
	}
	r.logger.Warnf("Remote technicians unavailable, using local store: %v", err)
	return r.local.LoadTechnicians(ctx)
}

func (r *FallbackCatalogRepository) LoadOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := r.remote.FetchOrders(ctx)
	if err == nil {
		return orders, nil
	}
	r.logger.Warnf("Remote orders unavailable, using local store: %v", err)
	return r.local.LoadOrders(ctx)
}

func (r *FallbackCatalogRepository) SaveTechnicians(ctx context.Context, technicians []models.Technician) error {
	return r.local.SaveTechnicians(ctx, technicians)
}

func (r *FallbackCatalogRepository) SaveOrders(ctx context.Context, orders []models.Order) error {
	return r.local.SaveOrders(ctx, orders)
}
