package repository

import (
	"context"

	"telconova-dispatch/models"
)

// CatalogRepositoryInterface is the persistence boundary for the two
// collections. Saves replace the whole collection.
type CatalogRepositoryInterface interface {
	LoadTechnicians(ctx context.Context) ([]models.Technician, error)
	LoadOrders(ctx context.Context) ([]models.Order, error)
	SaveTechnicians(ctx context.Context, technicians []models.Technician) error
	SaveOrders(ctx context.Context, orders []models.Order) error
}

// RemoteCatalogInterface reads the collections from the remote API
type RemoteCatalogInterface interface {
	FetchTechnicians(ctx context.Context) ([]models.Technician, error)
	FetchOrders(ctx context.Context) ([]models.Order, error)
}
