package models

import "time"

// Product is a catalog entry sold by the storefront.
type Product struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"not null;size:255" json:"name"`
	Slug        string    `gorm:"uniqueIndex;not null;size:255" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	Price       int64     `gorm:"not null;default:0" json:"price"` // cents
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Images []Image `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}

// Image links a product to an uploaded file. URL is nullable: rows created
// before an upload finished may carry no URL and reference nothing.
type Image struct {
	ID        string  `gorm:"primaryKey;size:36" json:"id"`
	ProductID string  `gorm:"not null;index;size:36" json:"product_id"`
	URL       *string `gorm:"size:1024" json:"url"`
	Alt       string  `gorm:"size:255" json:"alt"`
}

// TableName returns the table name for Image.
func (Image) TableName() string {
	return "images"
}

// URLs returns the non-empty URLs of the product's images.
func (p *Product) URLs() []string {
	out := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		if img.URL != nil && *img.URL != "" {
			out = append(out, *img.URL)
		}
	}
	return out
}
