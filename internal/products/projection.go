package products

import "github.com/backoffice-labs/catalog/pkg/query"

// projection maps database columns to Product struct fields for query building.
var projection = query.NewProjectionMap("public", "products", "p").
	Project("id", "ID").
	Project("name", "Name").
	Project("description", "Description").
	Project("price", "Price").
	Project("featured_image", "FeaturedImage").
	Project("featured_image_original_name", "FeaturedImageOriginalName").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

// defaultSort orders products by creation time, newest first.
var defaultSort = query.SortField{Field: "CreatedAt", Descending: true}
