package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/marmos91/shopkeep/pkg/catalog/models"
)

// ImageURLs selects only the url column of the images table.
func (s *GORMStore) ImageURLs(ctx context.Context) ([]*string, error) {
	var urls []*string
	if err := s.db.WithContext(ctx).Model(&models.Image{}).Pluck("url", &urls).Error; err != nil {
		return nil, fmt.Errorf("failed to select image urls: %w", err)
	}
	return urls, nil
}

// CreateProduct inserts p together with its images. Missing IDs are generated.
func (s *GORMStore) CreateProduct(ctx context.Context, p *models.Product) (string, error) {
	p.ID = newID(p.ID)
	for i := range p.Images {
		p.Images[i].ID = newID(p.Images[i].ID)
		p.Images[i].ProductID = p.ID
	}
	if err := create(s.db, ctx, p, models.ErrDuplicateProduct); err != nil {
		return "", err
	}
	return p.ID, nil
}

func (s *GORMStore) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return getByField[models.Product](s.db, ctx, "id", id, models.ErrProductNotFound, "Images")
}

func (s *GORMStore) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return listAll[models.Product](s.db, ctx, "name", "Images")
}

func (s *GORMStore) UpdateProduct(ctx context.Context, p *models.Product) (*models.Product, error) {
	var previous *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := getByField[models.Product](tx, ctx, "id", p.ID, models.ErrProductNotFound, "Images")
		if err != nil {
			return err
		}

		err = tx.Model(&models.Product{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":        p.Name,
			"slug":        p.Slug,
			"description": p.Description,
			"price":       p.Price,
		}).Error
		if err != nil {
			if isUniqueConstraintError(err) {
				return models.ErrDuplicateProduct
			}
			return fmt.Errorf("failed to update product: %w", err)
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		for i := range p.Images {
			p.Images[i].ID = newID("")
			p.Images[i].ProductID = p.ID
		}
		if len(p.Images) > 0 {
			if err := tx.Create(&p.Images).Error; err != nil {
				return fmt.Errorf("failed to create images: %w", err)
			}
		}
		previous = old
		return nil
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (s *GORMStore) DeleteProduct(ctx context.Context, id string) (*models.Product, error) {
	var deleted *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getByField[models.Product](tx, ctx, "id", id, models.ErrProductNotFound, "Images")
		if err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Image{}).Error; err != nil {
			return fmt.Errorf("failed to delete images: %w", err)
		}
		if err := tx.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		deleted = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
