package products

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backoffice-labs/catalog/internal/storage"
	"github.com/backoffice-labs/catalog/pkg/pagination"
	"github.com/backoffice-labs/catalog/pkg/query"
	"github.com/backoffice-labs/catalog/pkg/repository"
)

// blobNamespace is the key prefix product images are stored under.
const blobNamespace = "products"

type repo struct {
	db         *sql.DB
	storage    storage.System
	logger     *slog.Logger
	pagination pagination.Config
	maxUpload  int64
}

// New creates a new product catalog system. maxUpload is the accepted
// image size ceiling in bytes.
func New(
	db *sql.DB,
	store storage.System,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUpload int64,
) System {
	return &repo{
		db:         db,
		storage:    store,
		logger:     logger.With("system", "products"),
		pagination: pagination,
		maxUpload:  maxUpload,
	}
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Product], error) {
	page.Normalize(r.pagination)

	qb := query.NewBuilder(projection, defaultSort)
	filters.Apply(qb)

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Product, error) {
	q, args := query.NewBuilder(projection, defaultSort).BuildSingle("ID", id)
	p, err := repository.QueryOne(ctx, r.db, q, args, scanProduct)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &p, nil
}

func (r *repo) Create(ctx context.Context, form ProductForm, upload *Upload) (*Product, error) {
	if fields := Validate(form, upload, r.maxUpload); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var imageKey *string
	originalName := ""

	if upload != nil {
		key := blobKey(upload.Filename)
		if err := r.storage.Store(ctx, key, upload.Data); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		imageKey = &key
		originalName = upload.Filename
	}

	now := time.Now().UTC()
	p := &Product{
		ID:                        uuid.New(),
		Name:                      form.Name,
		Description:               form.Description,
		Price:                     form.PriceValue(),
		FeaturedImage:             imageKey,
		FeaturedImageOriginalName: originalName,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}

	if err := r.insert(ctx, p); err != nil {
		if imageKey != nil {
			if derr := r.storage.Delete(ctx, *imageKey); derr != nil {
				r.logger.Warn("failed to remove orphaned image", "key", *imageKey, "error", derr)
			}
		}
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return p, nil
}

func (r *repo) Update(ctx context.Context, id uuid.UUID, form ProductForm, upload *Upload) (*Product, error) {
	p, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if fields := Validate(form, upload, r.maxUpload); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	p.Name = form.Name
	p.Description = form.Description
	p.Price = form.PriceValue()

	if upload != nil {
		// Remove the prior generation before storing the replacement so
		// no two blobs coexist for the same product.
		if p.FeaturedImage != nil {
			if exists, err := r.storage.Exists(ctx, *p.FeaturedImage); err == nil && exists {
				if err := r.storage.Delete(ctx, *p.FeaturedImage); err != nil {
					return nil, fmt.Errorf("delete old image: %w", err)
				}
			}
		}

		key := blobKey(upload.Filename)
		if err := r.storage.Store(ctx, key, upload.Data); err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		p.FeaturedImage = &key
		p.FeaturedImageOriginalName = upload.Filename
	}

	p.UpdatedAt = time.Now().UTC()

	if err := r.save(ctx, p); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return p, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	q := `DELETE FROM products WHERE id = $1`
	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(ctx, tx, q, id)
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if p.FeaturedImage != nil {
		if err := r.storage.Delete(ctx, *p.FeaturedImage); err != nil {
			r.logger.Warn("failed to delete image file", "key", *p.FeaturedImage, "error", err)
		}
	}

	return nil
}

func (r *repo) insert(ctx context.Context, p *Product) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO products (id, name, description, price, featured_image,
			featured_image_original_name, created_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.Name, p.Description, p.Price, p.FeaturedImage,
		p.FeaturedImageOriginalName, p.CreatedAt, p.UpdatedAt,
	)
	return err
}

func (r *repo) save(ctx context.Context, p *Product) error {
	return repository.ExecExpectOne(
		ctx,
		r.db,
		`UPDATE products SET name = $1, description = $2, price = $3,
			featured_image = $4, featured_image_original_name = $5, updated_at = $6
		WHERE id = $7`,
		p.Name, p.Description, p.Price, p.FeaturedImage,
		p.FeaturedImageOriginalName, p.UpdatedAt, p.ID,
	)
}

// blobKey generates a unique storage key under the products namespace,
// preserving the upload's extension.
func blobKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", blobNamespace, uuid.New(), ext)
}
