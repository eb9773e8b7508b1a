package products

import (
	"net/url"
	"strconv"
	"strings"
)

// ProductForm carries a submitted create/edit payload. Price stays a
// string until validation so a non-numeric submission can be reported
// instead of silently becoming zero.
type ProductForm struct {
	Name        string `validate:"required,max=255"`
	Description string `validate:"required,max=1000"`
	Price       string `validate:"required,numeric"`
}

// FormFromValues extracts a ProductForm from parsed form values.
func FormFromValues(values url.Values) ProductForm {
	return ProductForm{
		Name:        strings.TrimSpace(values.Get("name")),
		Description: strings.TrimSpace(values.Get("description")),
		Price:       strings.TrimSpace(values.Get("price")),
	}
}

// PriceValue returns the parsed price. Only meaningful after validation.
func (f ProductForm) PriceValue() float64 {
	v, _ := strconv.ParseFloat(f.Price, 64)
	return v
}

// Upload carries one uploaded image file: the client's original filename
// and the raw content.
type Upload struct {
	Filename string
	Data     []byte
}
