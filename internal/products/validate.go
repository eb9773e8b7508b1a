package products

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// allowedImageExts lists the accepted upload file extensions.
var allowedImageExts = map[string]bool{
	".jpeg": true,
	".png":  true,
	".jpg":  true,
	".gif":  true,
}

var validate = validator.New()

// fieldMessages maps form field + failed rule to its human-readable message.
var fieldMessages = map[string]map[string]string{
	"name": {
		"required": "The product name is required.",
		"string":   "The product name must be a valid string.",
		"max":      "The product name may not be greater than 255 characters.",
	},
	"description": {
		"required": "The product description is required.",
		"string":   "The product description must be a valid string.",
		"max":      "The product description may not be greater than 1000 characters.",
	},
	"price": {
		"required": "The price is required.",
		"numeric":  "The price must be a valid number.",
		"min":      "The price must be at least 0.",
	},
	"featured_image": {
		"image": "The featured image must be an image file.",
		"mimes": "The featured image must be a file of type: jpeg, png, jpg, gif.",
		"max":   "The featured image must not be larger than 2MB.",
	},
}

// Validate checks a submitted payload and optional upload against the
// catalog's field rules. The upload size ceiling comes from the storage
// configuration. It returns a field-to-message map, empty on success.
// Validation is pure: it never touches storage or the database.
func Validate(form ProductForm, upload *Upload, maxUpload int64) map[string]string {
	fields := make(map[string]string)

	if err := validate.Struct(form); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				field := strings.ToLower(fe.StructField())
				if _, seen := fields[field]; seen {
					continue
				}
				fields[field] = fieldMessages[field][fe.Tag()]
			}
		}
	}

	// gte cannot ride on the string-typed price tag; check the parsed
	// value once the numeric rule has passed.
	if _, ok := fields["price"]; !ok && form.PriceValue() < 0 {
		fields["price"] = fieldMessages["price"]["min"]
	}

	if upload != nil {
		if msg := validateUpload(upload, maxUpload); msg != "" {
			fields["featured_image"] = msg
		}
	}

	return fields
}

func validateUpload(upload *Upload, maxUpload int64) string {
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	if !allowedImageExts[ext] {
		return fieldMessages["featured_image"]["mimes"]
	}

	if !strings.HasPrefix(http.DetectContentType(upload.Data), "image/") {
		return fieldMessages["featured_image"]["image"]
	}

	if int64(len(upload.Data)) > maxUpload {
		return fieldMessages["featured_image"]["max"]
	}

	return ""
}
