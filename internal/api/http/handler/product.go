package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/dtroode/catalog-server/internal/logger"
	"github.com/dtroode/catalog-server/internal/model"
)

const multipartMemory = 8 << 20

// ProductService manages the catalog.
type ProductService interface {
	ListProducts(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	GetProduct(ctx context.Context, id int64) (model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput, upload *model.Upload) (model.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch model.ProductPatch, upload *model.Upload) (model.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]string, error)
}

type Product struct {
	productService ProductService
	maxBodySize    int64
	logger         *logger.Logger
}

// NewProduct creates the product handler. maxUploadSize bounds the image part
// of multipart requests.
func NewProduct(productService ProductService, maxUploadSize int64, logger *logger.Logger) *Product {
	return &Product{
		productService: productService,
		maxBodySize:    maxUploadSize + 1<<20,
		logger:         logger,
	}
}

func (h *Product) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := model.ProductFilter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		Limit:    model.DefaultProductLimit,
	}

	var err error
	if v := q.Get("skip"); v != "" {
		if filter.Skip, err = strconv.Atoi(v); err != nil {
			WriteError(w, h.logger, model.NewValidationError("skip must be an integer"))
			return
		}
	}
	if v := q.Get("limit"); v != "" {
		if filter.Limit, err = strconv.Atoi(v); err != nil {
			WriteError(w, h.logger, model.NewValidationError("limit must be an integer"))
			return
		}
	}

	products, err := h.productService.ListProducts(r.Context(), filter)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *Product) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	product, err := h.productService.GetProduct(r.Context(), id)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Product) Create(w http.ResponseWriter, r *http.Request) {
	form, err := h.parseForm(w, r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	defer form.close()

	in, err := form.productInput()
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), in, form.upload)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Product) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	form, err := h.parseForm(w, r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}
	defer form.close()

	patch, err := form.productPatch()
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), id, patch, form.upload)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *Product) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	if err := h.productService.DeleteProduct(r.Context(), id); err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted successfully"})
}

func (h *Product) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.productService.ListCategories(r.Context())
	if err != nil {
		WriteError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// productForm is a parsed product request. Empty text fields count as absent.
type productForm struct {
	values map[string][]string
	upload *model.Upload
	file   multipart.File
}

func (h *Product) parseForm(w http.ResponseWriter, r *http.Request) (*productForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)

	err := r.ParseMultipartForm(multipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, err
		}
		return nil, model.NewValidationError("Invalid form body")
	}

	form := &productForm{values: r.PostForm}

	if r.MultipartForm != nil {
		file, header, err := r.FormFile("image")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return nil, model.NewValidationError("Invalid image upload")
		default:
			form.file = file
			form.upload = &model.Upload{Filename: header.Filename, Data: file}
		}
	}

	return form, nil
}

func (f *productForm) close() {
	if f.file != nil {
		_ = f.file.Close()
	}
}

func (f *productForm) text(key string) (string, bool) {
	vals := f.values[key]
	if len(vals) == 0 || vals[0] == "" {
		return "", false
	}
	return vals[0], true
}

func (f *productForm) productInput() (model.ProductInput, error) {
	var in model.ProductInput

	required := []struct {
		key string
		dst *string
	}{
		{"name", &in.Name},
		{"description", &in.Description},
		{"category", &in.Category},
		{"brand", &in.Brand},
	}
	for _, field := range required {
		v, ok := f.text(field.key)
		if !ok {
			return model.ProductInput{}, model.NewValidationErrorf("Field required: %s", field.key)
		}
		*field.dst = v
	}

	price, err := f.price()
	if err != nil {
		return model.ProductInput{}, err
	}
	if !price.Set {
		return model.ProductInput{}, model.NewValidationError("Field required: price")
	}
	in.Price = price.Value

	stock, err := f.integer("stock")
	if err != nil {
		return model.ProductInput{}, err
	}
	if !stock.Set {
		return model.ProductInput{}, model.NewValidationError("Field required: stock")
	}
	in.Stock = stock.Value

	rating, err := f.number("rating")
	if err != nil {
		return model.ProductInput{}, err
	}
	in.Rating = rating.Value

	return in, nil
}

func (f *productForm) productPatch() (model.ProductPatch, error) {
	var (
		patch model.ProductPatch
		err   error
	)

	for key, dst := range map[string]*model.Optional[string]{
		"name":        &patch.Name,
		"description": &patch.Description,
		"category":    &patch.Category,
		"brand":       &patch.Brand,
	} {
		if v, ok := f.text(key); ok {
			*dst = model.Some(v)
		}
	}

	if patch.Price, err = f.price(); err != nil {
		return model.ProductPatch{}, err
	}
	if patch.Stock, err = f.integer("stock"); err != nil {
		return model.ProductPatch{}, err
	}
	if patch.Rating, err = f.number("rating"); err != nil {
		return model.ProductPatch{}, err
	}

	return patch, nil
}

func (f *productForm) price() (model.Optional[decimal.Decimal], error) {
	v, ok := f.text("price")
	if !ok {
		return model.Optional[decimal.Decimal]{}, nil
	}
	price, err := decimal.NewFromString(v)
	if err != nil {
		return model.Optional[decimal.Decimal]{}, model.NewValidationError("price must be a number")
	}
	return model.Some(price), nil
}

func (f *productForm) integer(key string) (model.Optional[int], error) {
	v, ok := f.text(key)
	if !ok {
		return model.Optional[int]{}, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return model.Optional[int]{}, model.NewValidationErrorf("%s must be an integer", key)
	}
	return model.Some(n), nil
}

func (f *productForm) number(key string) (model.Optional[float64], error) {
	v, ok := f.text(key)
	if !ok {
		return model.Optional[float64]{}, nil
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return model.Optional[float64]{}, model.NewValidationErrorf("%s must be a number", key)
	}
	return model.Some(n), nil
}
