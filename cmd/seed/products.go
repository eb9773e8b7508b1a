package main

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
)

//go:embed data/products.json
var embeddedProducts []byte

func init() {
	registerSeeder(&ProductSeeder{})
}

// ProductSeedData represents the JSON structure for product seed files.
type ProductSeedData struct {
	Products []ProductSeed `json:"products"`
}

// ProductSeed is one sample catalog entry.
type ProductSeed struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// ProductSeeder implements Seeder for sample catalog products. It loads
// seed data from an embedded file or an external file path.
type ProductSeeder struct {
	file string
}

// Name returns "products" as the seeder identifier.
func (s *ProductSeeder) Name() string {
	return "products"
}

// Description returns a human-readable description of this seeder.
func (s *ProductSeeder) Description() string {
	return "Seeds sample catalog products"
}

// SetFile configures an external seed file path, overriding the embedded default.
func (s *ProductSeeder) SetFile(path string) {
	s.file = path
}

// Seed loads product data and saves it to the database. Products are
// matched by name, so repeated runs update rather than duplicate.
func (s *ProductSeeder) Seed(ctx context.Context, tx *sql.Tx) error {
	data, err := s.loadSeedData()
	if err != nil {
		return err
	}

	for _, p := range data.Products {
		if err := s.saveProduct(ctx, tx, p); err != nil {
			return fmt.Errorf("save product %s: %w", p.Name, err)
		}
	}

	return nil
}

func (s *ProductSeeder) loadSeedData() (*ProductSeedData, error) {
	raw := embeddedProducts
	if s.file != "" {
		external, err := os.ReadFile(s.file)
		if err != nil {
			return nil, fmt.Errorf("read seed file: %w", err)
		}
		raw = external
	}

	var data ProductSeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}

	return &data, nil
}

func (s *ProductSeeder) saveProduct(ctx context.Context, tx *sql.Tx, p ProductSeed) error {
	var id uuid.UUID
	err := tx.QueryRowContext(ctx,
		`SELECT id FROM products WHERE name = $1`,
		p.Name,
	).Scan(&id)

	switch {
	case err == sql.ErrNoRows:
		_, err = tx.ExecContext(ctx,
			`INSERT INTO products (id, name, description, price, featured_image_original_name, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, '', NOW(), NOW())`,
			uuid.New(), p.Name, p.Description, p.Price,
		)
		return err
	case err != nil:
		return err
	default:
		_, err = tx.ExecContext(ctx,
			`UPDATE products SET description = $2, price = $3, updated_at = NOW() WHERE id = $1`,
			id, p.Description, p.Price,
		)
		return err
	}
}
