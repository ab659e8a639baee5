// Package products owns the paginated, filtered product list and wraps every
// product mutation. Cheap edits (update, delete) patch the held page locally;
// creation and thumbnail changes re-fetch so server-assigned fields are
// picked up.
package products

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"github.com/amleal/produtos-manager/internal/api"
	"github.com/amleal/produtos-manager/internal/logging"
	"github.com/amleal/produtos-manager/internal/models"
)

// ErrOperationInFlight is returned when a product operation is issued while
// another one is still running on the same container.
var ErrOperationInFlight = errors.New("product operation already in flight")

// QueryParams select a page of the listing. Zero values are omitted from the
// query string, leaving the server defaults in charge.
type QueryParams struct {
	Page     int
	PageSize int
	Filter   string
}

// CreateInput is the multipart payload of POST /products. A thumbnail is
// required by the API.
type CreateInput struct {
	Title       string
	Description string
	Thumbnail   Upload
}

// UpdateInput is the JSON payload of PUT /products/{id}.
type UpdateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      bool   `json:"status"`
}

// Container holds one page of products plus its pagination metadata. Safe
// for concurrent use; overlapping operations are rejected with
// ErrOperationInFlight.
type Container struct {
	api *api.Client
	log logging.Logger

	mu         sync.Mutex
	items      []models.Product
	current    *models.Product
	pagination models.Pagination
	loading    bool
	errMsg     string
	inflight   string
	active     QueryParams
}

func NewContainer(client *api.Client, logger logging.Logger) *Container {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Container{api: client, log: logger}
}

// FetchProducts loads the page selected by params, replacing items and
// pagination wholesale with the server's response.
func (c *Container) FetchProducts(ctx context.Context, params QueryParams) error {
	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	if err := c.fetch(ctx, params); err != nil {
		c.setError(err, "failed to load products")
		return err
	}
	return nil
}

// FetchProduct loads a single product into the current-product slot.
func (c *Container) FetchProduct(ctx context.Context, productID string) error {
	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	if err := c.fetchOne(ctx, productID); err != nil {
		c.setError(err, "failed to load product")
		return err
	}
	return nil
}

// CreateProduct posts the multipart creation request and then re-fetches the
// active (page, filter) pair so server-assigned fields show up.
func (c *Container) CreateProduct(ctx context.Context, in CreateInput) (*models.Ack, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer c.end(id)

	form, err := buildForm([][2]string{
		{"title", in.Title},
		{"description", in.Description},
	}, "thumbnail", in.Thumbnail)
	if err != nil {
		c.setError(err, "failed to create product")
		return nil, err
	}

	var ack models.Ack
	if err := c.api.Upload(ctx, "/products", form, &ack); err != nil {
		c.setError(err, "failed to create product")
		return nil, err
	}

	if err := c.fetch(ctx, c.activeParams()); err != nil {
		c.setError(err, "failed to reload products")
		return &ack, err
	}
	return &ack, nil
}

// UpdateProduct issues the JSON update and, on success, shallow-merges the
// changed fields into the held page. Pagination is untouched: the edit does
// not change the server's count.
func (c *Container) UpdateProduct(ctx context.Context, productID string, in UpdateInput) (*models.Ack, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer c.end(id)

	var ack models.Ack
	if err := c.api.Put(ctx, "/products/"+productID, in, &ack); err != nil {
		c.setError(err, "failed to update product")
		return nil, err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items[i].Title = in.Title
			c.items[i].Description = in.Description
			c.items[i].Status = in.Status
			break
		}
	}
	c.mu.Unlock()
	return &ack, nil
}

// DeleteProduct removes the product remotely, drops it from the held page,
// and reconciles the derived pagination: total goes down by one and
// totalPages is recomputed from it.
func (c *Container) DeleteProduct(ctx context.Context, productID string) error {
	id, err := c.begin()
	if err != nil {
		return err
	}
	defer c.end(id)

	var ack models.Ack
	if err := c.api.Delete(ctx, "/products/"+productID, &ack); err != nil {
		c.setError(err, "failed to delete product")
		return err
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	if c.pagination.Total > 0 {
		c.pagination.Total--
	}
	if c.pagination.PageSize > 0 {
		c.pagination.TotalPages = (c.pagination.Total + c.pagination.PageSize - 1) / c.pagination.PageSize
	}
	c.mu.Unlock()
	return nil
}

// UpdateProductThumbnail replaces the product image via multipart PATCH.
// When the patched product is the one loaded in the current slot, it is
// re-fetched so the new thumbnail URL becomes visible.
func (c *Container) UpdateProductThumbnail(ctx context.Context, productID string, file Upload) (*models.Ack, error) {
	id, err := c.begin()
	if err != nil {
		return nil, err
	}
	defer c.end(id)

	form, err := buildForm(nil, "thumbnail", file)
	if err != nil {
		c.setError(err, "failed to update thumbnail")
		return nil, err
	}

	var ack models.Ack
	if err := c.api.UploadPatch(ctx, "/products/thumbnail/"+productID, form, &ack); err != nil {
		c.setError(err, "failed to update thumbnail")
		return nil, err
	}

	c.mu.Lock()
	needsReload := c.current != nil && c.current.ID == productID
	c.mu.Unlock()
	if needsReload {
		if err := c.fetchOne(ctx, productID); err != nil {
			c.setError(err, "failed to reload product")
			return &ack, err
		}
	}
	return &ack, nil
}

func (c *Container) fetch(ctx context.Context, params QueryParams) error {
	v := url.Values{}
	if params.Page > 0 {
		v.Set("page", strconv.Itoa(params.Page))
	}
	if params.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.Filter != "" {
		v.Set("filter", params.Filter)
	}
	path := "/products"
	if qs := v.Encode(); qs != "" {
		path += "?" + qs
	}

	var resp models.ProductList
	if err := c.api.Get(ctx, path, &resp); err != nil {
		return err
	}

	c.mu.Lock()
	c.items = resp.Data
	c.pagination = resp.Meta
	c.active = params
	c.mu.Unlock()
	c.log.Debug(ctx, "products fetched", "count", len(resp.Data), "total", resp.Meta.Total)
	return nil
}

func (c *Container) fetchOne(ctx context.Context, productID string) error {
	var p models.Product
	if err := c.api.Get(ctx, "/products/"+productID, &p); err != nil {
		return err
	}
	c.mu.Lock()
	c.current = &p
	c.mu.Unlock()
	return nil
}

func (c *Container) begin() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != "" {
		return "", ErrOperationInFlight
	}
	id := uuid.NewString()
	c.inflight = id
	c.loading = true
	c.errMsg = ""
	return id, nil
}

func (c *Container) end(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight == id {
		c.inflight = ""
		c.loading = false
	}
}

func (c *Container) setError(err error, fallback string) {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	c.mu.Lock()
	c.errMsg = msg
	c.mu.Unlock()
}

func (c *Container) activeParams() QueryParams {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Items returns a copy of the held page.
func (c *Container) Items() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Product, len(c.items))
	copy(out, c.items)
	return out
}

// Current returns the product loaded by FetchProduct, or nil.
func (c *Container) Current() *models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	p := *c.current
	return &p
}

// Pagination returns the metadata of the last successful fetch, as adjusted
// by local deletes.
func (c *Container) Pagination() models.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// IsLoading reports whether an operation is in flight.
func (c *Container) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Err returns the last failure message, "" when the last operation succeeded.
func (c *Container) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ClearError resets the failure message; conventionally called when an edit
// dialog is dismissed.
func (c *Container) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// ClearCurrent drops the current-product slot.
func (c *Container) ClearCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}
