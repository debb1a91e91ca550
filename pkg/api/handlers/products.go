package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/marmos91/shopkeep/internal/logger"
	"github.com/marmos91/shopkeep/internal/telemetry"
	"github.com/marmos91/shopkeep/pkg/catalog/models"
	"github.com/marmos91/shopkeep/pkg/catalog/store"
	"github.com/marmos91/shopkeep/pkg/reconcile"
	"github.com/marmos91/shopkeep/pkg/uploads"
)

// ProductHandler serves the catalog product endpoints.
type ProductHandler struct {
	catalog store.Store
	uploads uploads.Store
}

func NewProductHandler(catalog store.Store, uploadStore uploads.Store) *ProductHandler {
	return &ProductHandler{catalog: catalog, uploads: uploadStore}
}

// FileFailure is an image file that could not be removed.
type FileFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// ProductDeleted is the response of DELETE /api/v1/products/{id}.
type ProductDeleted struct {
	OK           bool          `json:"ok"`
	RemovedFiles []string      `json:"removedFiles"`
	Failures     []FileFailure `json:"failures"`
}

// ProductImageInput is one image of a product update.
type ProductImageInput struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// ProductUpdateRequest is the body of PUT /api/v1/products/{id}.
type ProductUpdateRequest struct {
	Name        string              `json:"name"`
	Slug        string              `json:"slug"`
	Description string              `json:"description"`
	Price       int64               `json:"price"`
	Images      []ProductImageInput `json:"images"`
}

// ProductUpdated is the response of PUT /api/v1/products/{id}.
type ProductUpdated struct {
	OK           bool            `json:"ok"`
	Product      *models.Product `json:"product"`
	RemovedFiles []string        `json:"removedFiles"`
	Failures     []FileFailure   `json:"failures"`
}

// maxProductBody caps the update body.
const maxProductBody = 1 << 20

// List handles GET /api/v1/products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		logger.ErrorCtx(r.Context(), "Failed to list products", logger.Err(err))
		InternalServerError(w, "Failed to list products")
		return
	}
	WriteJSONOK(w, products)
}

// Get handles GET /api/v1/products/{id}.
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		h.writeStoreError(w, r, id, err)
		return
	}
	WriteJSONOK(w, product)
}

// Delete handles DELETE /api/v1/products/{id}. The product's image files and
// their thumbnails are removed after the rows are gone. File removal is best
// effort: missing files are ignored and other failures are reported.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanProductDelete)
	defer span.End()

	id := chi.URLParam(r, "id")
	telemetry.SetAttributes(ctx, telemetry.ProductID(id))

	product, err := h.catalog.DeleteProduct(ctx, id)
	if err != nil {
		telemetry.RecordError(ctx, err)
		h.writeStoreError(w, r, id, err)
		return
	}

	removed, failures := RemoveProductFiles(ctx, h.uploads, product)
	logger.InfoCtx(ctx, "Product deleted",
		logger.KeyProductID, id,
		"removed_files", len(removed),
		logger.KeyFailed, len(failures))

	WriteJSONOK(w, ProductDeleted{OK: true, RemovedFiles: removed, Failures: failures})
}

// Update handles PUT /api/v1/products/{id}. The product's fields and images
// are replaced. Files of images dropped by the update are removed together
// with their thumbnails once the new rows are committed; files still
// referenced by the new images are kept.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := telemetry.StartSpan(r.Context(), telemetry.SpanProductUpdate)
	defer span.End()

	id := chi.URLParam(r, "id")
	telemetry.SetAttributes(ctx, telemetry.ProductID(id))

	var req ProductUpdateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxProductBody)).Decode(&req); err != nil {
		BadRequest(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Slug) == "" {
		BadRequest(w, "name and slug are required")
		return
	}

	update := &models.Product{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Price:       req.Price,
	}
	for _, img := range req.Images {
		if img.URL == "" {
			continue
		}
		u := img.URL
		update.Images = append(update.Images, models.Image{URL: &u, Alt: img.Alt})
	}

	previous, err := h.catalog.UpdateProduct(ctx, update)
	if err != nil {
		telemetry.RecordError(ctx, err)
		h.writeStoreError(w, r, id, err)
		return
	}

	removed, failures := removeImageFiles(ctx, h.uploads, previous.URLs(), keptFiles(update.URLs()))

	product, err := h.catalog.GetProduct(ctx, id)
	if err != nil {
		h.writeStoreError(w, r, id, err)
		return
	}

	logger.InfoCtx(ctx, "Product updated",
		logger.KeyProductID, id,
		"removed_files", len(removed),
		logger.KeyFailed, len(failures))

	WriteJSONOK(w, ProductUpdated{OK: true, Product: product, RemovedFiles: removed, Failures: failures})
}

func (h *ProductHandler) writeStoreError(w http.ResponseWriter, r *http.Request, id string, err error) {
	if errors.Is(err, models.ErrProductNotFound) {
		NotFound(w, "Product not found")
		return
	}
	if errors.Is(err, models.ErrDuplicateProduct) {
		Conflict(w, "A product with this slug already exists")
		return
	}
	logger.ErrorCtx(r.Context(), "Catalog operation failed", logger.KeyProductID, id, logger.Err(err))
	InternalServerError(w, "Catalog operation failed")
}

// RemoveProductFiles deletes the upload files referenced by the product's
// images and their derived thumbnails. URLs outside /uploads/ are skipped.
func RemoveProductFiles(ctx context.Context, uploadStore uploads.Store, product *models.Product) ([]string, []FileFailure) {
	if product == nil {
		return []string{}, []FileFailure{}
	}
	return removeImageFiles(ctx, uploadStore, product.URLs(), nil)
}

// imageFiles returns the upload paths owned by an image URL: the file itself
// and, for originals, the derived thumbnail.
func imageFiles(raw string) []string {
	p, ok := reconcile.NormalizeReference(raw)
	if !ok {
		return nil
	}
	if _, err := uploads.ValidatePublicPath(string(p)); err != nil {
		return nil
	}
	files := []string{string(p)}
	if strings.HasPrefix(string(p), uploads.DirThumbs.PublicPrefix()) {
		return files
	}
	if thumb, ok := uploads.ThumbPathFor(string(p)); ok {
		files = append(files, thumb)
	}
	return files
}

// keptFiles is the set of upload paths owned by urls.
func keptFiles(urls []string) map[string]bool {
	keep := map[string]bool{}
	for _, raw := range urls {
		for _, f := range imageFiles(raw) {
			keep[f] = true
		}
	}
	return keep
}

func removeImageFiles(ctx context.Context, uploadStore uploads.Store, urls []string, keep map[string]bool) ([]string, []FileFailure) {
	removed := []string{}
	failures := []FileFailure{}
	if uploadStore == nil {
		return removed, failures
	}

	seen := map[string]bool{}
	for _, raw := range urls {
		for _, p := range imageFiles(raw) {
			if seen[p] || keep[p] {
				continue
			}
			seen[p] = true
			err := uploadStore.Remove(ctx, p)
			switch {
			case err == nil:
				removed = append(removed, p)
			case errors.Is(err, uploads.ErrNotFound):
			default:
				logger.WarnCtx(ctx, "Failed to remove product image", logger.KeyPath, p, logger.Err(err))
				failures = append(failures, FileFailure{Path: p, Error: err.Error()})
			}
		}
	}
	return removed, failures
}
