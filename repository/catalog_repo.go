package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"telconova-dispatch/dal"
	"telconova-dispatch/models"
	"telconova-dispatch/utils/logger"
)

const (
	technicianCollection = "technicians"
	orderCollection      = "orders"
)

// CatalogRepository stores each collection as a JSON array blob.
type CatalogRepository struct {
	store  dal.CollectionStoreInterface
	config *models.Config
	logger logger.Logger
}

func NewCatalogRepository(store dal.CollectionStoreInterface, cfg *models.Config, log logger.Logger) *CatalogRepository {
	return &CatalogRepository{
		store:  store,
		config: cfg,
		logger: log,
	}
}

func (r *CatalogRepository) key(collection string) string {
	return r.config.StorageKeyPrefix + "-" + collection
}

func (r *CatalogRepository) LoadTechnicians(ctx context.Context) ([]models.Technician, error) {
	var technicians []models.Technician
	found, err := r.load(ctx, technicianCollection, &technicians)
	if err != nil {
		return nil, err
	}
	if !found {
		r.logger.Infof("No persisted %s, using seed dataset", technicianCollection)
		return SeedTechnicians(), nil
	}
	return technicians, nil
}

func (r *CatalogRepository) LoadOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	found, err := r.load(ctx, orderCollection, &orders)
	if err != nil {
		return nil, err
	}
	if !found {
		r.logger.Infof("No persisted %s, using seed dataset", orderCollection)
		return SeedOrders(), nil
	}
	return orders, nil
}

func (r *CatalogRepository) SaveTechnicians(ctx context.Context, technicians []models.Technician) error {
	return r.save(ctx, technicianCollection, technicians)
}

func (r *CatalogRepository) SaveOrders(ctx context.Context, orders []models.Order) error {
	return r.save(ctx, orderCollection, orders)
}

func (r *CatalogRepository) load(ctx context.Context, collection string, out interface{}) (bool, error) {
	data, err := r.store.Get(ctx, r.key(collection))
	if err != nil {
		if errors.Is(err, dal.ErrCollectionNotFound) {
			return false, nil
		}
		r.logger.Errorf("Failed to load %s: %v", collection, err)
		return false, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		r.logger.Errorf("Stored %s are not a valid JSON array: %v", collection, err)
		return false, fmt.Errorf("failed to decode %s: %w", collection, err)
	}
	return true, nil
}

func (r *CatalogRepository) save(ctx context.Context, collection string, items interface{}) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	if err := r.store.Put(ctx, r.key(collection), data); err != nil {
		r.logger.Errorf("Failed to save %s: %v", collection, err)
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	r.logger.Debugf("Saved %s (%d bytes)", collection, len(data))
	return nil
}
