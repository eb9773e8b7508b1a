package products

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/backoffice-labs/catalog/internal/flash"
	"github.com/backoffice-labs/catalog/internal/storage"
	"github.com/backoffice-labs/catalog/internal/web"
	"github.com/backoffice-labs/catalog/pkg/pagination"
)

// User-facing status messages for the mutation operations.
const (
	msgCreated      = "Product created successfully"
	msgUpdated      = "Product updated successfully"
	msgDeleted      = "Product deleted Successfully"
	msgCreateFailed = "Unable to create product. Please try again"
	msgUpdateFailed = "Unable to update product. Please try again!"
	msgDeleteFailed = "Unable to delete product. Please try again!"
)

// Handler provides the HTML endpoints for product management.
type Handler struct {
	sys        System
	store      storage.System
	views      *web.Renderer
	flash      *flash.Store
	logger     *slog.Logger
	pagination pagination.Config
	maxUpload  int64
}

// NewHandler creates a new products HTTP handler.
func NewHandler(
	sys System,
	store storage.System,
	views *web.Renderer,
	flashes *flash.Store,
	logger *slog.Logger,
	pagination pagination.Config,
	maxUpload int64,
) *Handler {
	return &Handler{
		sys:        sys,
		store:      store,
		views:      views,
		flash:      flashes,
		logger:     logger.With("handler", "products"),
		pagination: pagination,
		maxUpload:  maxUpload,
	}
}

// Register mounts the product routes on the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /products", h.List)
	mux.HandleFunc("GET /products/create", h.CreateForm)
	mux.HandleFunc("POST /products", h.Create)
	mux.HandleFunc("GET /products/{id}", h.Show)
	mux.HandleFunc("GET /products/{id}/edit", h.EditForm)
	mux.HandleFunc("PUT /products/{id}", h.Update)
	mux.HandleFunc("DELETE /products/{id}", h.Delete)
}

// productRow is a list row with display-formatted values.
type productRow struct {
	ID           string
	Name         string
	Description  string
	Price        string
	ImageURL     string
	OriginalName string
	CreatedAt    string
}

// listView feeds the product list template.
type listView struct {
	Rows   []productRow
	Search string
	From   int
	To     int
	Total  int
	Links  []pagination.Link
}

// formView feeds the product form template in its three modes.
type formView struct {
	IsEdit       bool
	IsView       bool
	ID           string
	Name         string
	Description  string
	Price        string
	ImageURL     string
	OriginalName string
	CreatedAt    string
	Errors       map[string]string
}

// List handles GET /products - the paginated, searchable product list.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	page := pagination.PageRequestFromQuery(values, h.pagination)
	filters := FiltersFromQuery(values)

	result, err := h.sys.List(r.Context(), page, filters)
	if err != nil {
		h.logger.Error("list products failed", "error", err)
		status := MapHTTPStatus(err)
		http.Error(w, http.StatusText(status), status)
		return
	}

	rows := make([]productRow, 0, len(result.Data))
	for _, p := range result.Data {
		rows = append(rows, h.row(p))
	}

	search := ""
	if filters.Search != nil {
		search = *filters.Search
	}

	view := listView{
		Rows:   rows,
		Search: search,
		From:   result.From,
		To:     result.To,
		Total:  result.Total,
		Links:  result.Links("/products", values),
	}

	h.views.Render(w, http.StatusOK, "products_list.html", web.PageData{
		Title: "Products",
		Flash: h.flash.Pop(w, r),
		Data:  view,
	})
}

// CreateForm handles GET /products/create - the empty creation form.
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, http.StatusOK, "product_form.html", web.PageData{
		Title: "Create Product",
		Flash: h.flash.Pop(w, r),
		Data:  formView{},
	})
}

// Create handles POST /products - validates and stores a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	form, upload, err := h.parseForm(r)
	if err != nil {
		h.logger.Error("parse create form failed", "error", err)
		h.redirect(w, r, "/products/create", flash.Error, msgCreateFailed)
		return
	}

	_, err = h.sys.Create(r.Context(), form, upload)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			h.views.Render(w, http.StatusUnprocessableEntity, "product_form.html", web.PageData{
				Title: "Create Product",
				Data: formView{
					Name:        form.Name,
					Description: form.Description,
					Price:       form.Price,
					Errors:      ve.Fields,
				},
			})
			return
		}

		h.logger.Error("create product failed", "error", err)
		h.redirect(w, r, "/products/create", flash.Error, msgCreateFailed)
		return
	}

	h.redirect(w, r, "/products", flash.Success, msgCreated)
}

// Show handles GET /products/{id} - the read-only product view.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	view := h.formView(p)
	view.IsView = true

	h.views.Render(w, http.StatusOK, "product_form.html", web.PageData{
		Title: p.Name,
		Flash: h.flash.Pop(w, r),
		Data:  view,
	})
}

// EditForm handles GET /products/{id}/edit - the pre-filled edit form.
func (h *Handler) EditForm(w http.ResponseWriter, r *http.Request) {
	p, ok := h.find(w, r)
	if !ok {
		return
	}

	view := h.formView(p)
	view.IsEdit = true

	h.views.Render(w, http.StatusOK, "product_form.html", web.PageData{
		Title: "Edit " + p.Name,
		Flash: h.flash.Pop(w, r),
		Data:  view,
	})
}

// Update handles PUT /products/{id} - overwrites an existing product.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.redirect(w, r, "/products", flash.Error, msgUpdateFailed)
		return
	}

	form, upload, err := h.parseForm(r)
	if err != nil {
		h.logger.Error("parse update form failed", "error", err)
		h.redirect(w, r, "/products/"+id.String()+"/edit", flash.Error, msgUpdateFailed)
		return
	}

	_, err = h.sys.Update(r.Context(), id, form, upload)
	if err != nil {
		var ve *ValidationError
		switch {
		case errors.As(err, &ve):
			current, findErr := h.sys.Find(r.Context(), id)
			if findErr != nil {
				h.redirect(w, r, "/products", flash.Error, msgUpdateFailed)
				return
			}

			view := h.formView(current)
			view.IsEdit = true
			view.Name = form.Name
			view.Description = form.Description
			view.Price = form.Price
			view.Errors = ve.Fields

			h.views.Render(w, http.StatusUnprocessableEntity, "product_form.html", web.PageData{
				Title: "Edit " + current.Name,
				Data:  view,
			})
		case errors.Is(err, ErrNotFound):
			h.redirect(w, r, "/products", flash.Error, msgUpdateFailed)
		default:
			h.logger.Error("update product failed", "id", id, "error", err)
			h.redirect(w, r, "/products/"+id.String()+"/edit", flash.Error, msgUpdateFailed)
		}
		return
	}

	h.redirect(w, r, "/products", flash.Success, msgUpdated)
}

// Delete handles DELETE /products/{id} - removes a product and its image.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.redirect(w, r, "/products", flash.Error, msgDeleteFailed)
		return
	}

	if err := h.sys.Delete(r.Context(), id); err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("delete product failed", "id", id, "error", err)
		}
		h.redirect(w, r, "/products", flash.Error, msgDeleteFailed)
		return
	}

	h.redirect(w, r, "/products", flash.Success, msgDeleted)
}

// find resolves the path ID to a product, rendering the not-found page
// for malformed or unknown IDs.
func (h *Handler) find(w http.ResponseWriter, r *http.Request) (*Product, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		h.views.NotFound(w)
		return nil, false
	}

	p, err := h.sys.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			h.views.NotFound(w)
		} else {
			h.logger.Error("find product failed", "id", id, "error", err)
			status := MapHTTPStatus(err)
			http.Error(w, http.StatusText(status), status)
		}
		return nil, false
	}

	return p, true
}

// parseForm reads the multipart payload and the optional image upload.
// The upload is capped slightly above the configured limit so oversize
// files surface as a validation message instead of a connection error.
func (h *Handler) parseForm(r *http.Request) (ProductForm, *Upload, error) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return ProductForm{}, nil, err
	}

	form := FormFromValues(r.PostForm)

	file, header, err := r.FormFile("featured_image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return form, nil, nil
		}
		return form, nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return form, nil, err
	}

	return form, &Upload{Filename: header.Filename, Data: data}, nil
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, target string, status flash.Status, msg string) {
	h.flash.Set(w, r, status, msg)
	http.Redirect(w, r, target, http.StatusSeeOther)
}

func (h *Handler) row(p Product) productRow {
	row := productRow{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Price:        strconv.FormatFloat(p.Price, 'f', 2, 64),
		OriginalName: p.FeaturedImageOriginalName,
		CreatedAt:    p.CreatedAtDisplay(),
	}
	if p.FeaturedImage != nil {
		row.ImageURL = h.store.URL(*p.FeaturedImage)
	}
	return row
}

func (h *Handler) formView(p *Product) formView {
	view := formView{
		ID:           p.ID.String(),
		Name:         p.Name,
		Description:  p.Description,
		Price:        strconv.FormatFloat(p.Price, 'f', 2, 64),
		OriginalName: p.FeaturedImageOriginalName,
		CreatedAt:    p.CreatedAtDisplay(),
	}
	if p.FeaturedImage != nil {
		view.ImageURL = h.store.URL(*p.FeaturedImage)
	}
	return view
}
