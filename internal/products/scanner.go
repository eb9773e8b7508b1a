package products

import "github.com/backoffice-labs/catalog/pkg/repository"

// scanProduct reads a Product from a database row.
func scanProduct(s repository.Scanner) (Product, error) {
	var p Product
	err := s.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.FeaturedImage,
		&p.FeaturedImageOriginalName,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}
