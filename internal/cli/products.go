package cli

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/amleal/produtos-manager/internal/format"
	"github.com/amleal/produtos-manager/internal/products"
)

// List fetches and renders a page: list [page] [filter words...].
func (a *App) List(ctx context.Context, args []string) error {
	params := products.QueryParams{Page: 1, PageSize: a.config.DefaultPageSize}
	if len(args) > 0 {
		page, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("usage: list [page] [filter]")
		}
		params.Page = page
	}
	if len(args) > 1 {
		params.Filter = strings.Join(args[1:], " ")
	}
	if params.PageSize > a.config.MaxPageSize {
		params.PageSize = a.config.MaxPageSize
	}

	if err := a.products.FetchProducts(ctx, params); err != nil {
		return err
	}
	renderProducts(a.out, a.products.Items(), a.products.Pagination())
	return nil
}

// Show fetches and renders one product: show <id>.
func (a *App) Show(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: show <id>")
	}
	if err := a.products.FetchProduct(ctx, args[0]); err != nil {
		return err
	}
	if p := a.products.Current(); p != nil {
		renderProduct(a.out, p)
	}
	return nil
}

// Add prompts for the new product's fields and creates it. The thumbnail is
// mandatory and validated against the configured upload limits before any
// request is made.
func (a *App) Add(ctx context.Context) error {
	title, err := getText(a.reader, "Title", a.out)
	if err != nil {
		return err
	}
	description, err := getText(a.reader, "Description", a.out)
	if err != nil {
		return err
	}
	path, err := getText(a.reader, "Thumbnail image path", a.out)
	if err != nil {
		return err
	}

	upload, closeFn, err := a.openImage(path)
	if err != nil {
		return err
	}
	defer closeFn()

	ack, err := a.products.CreateProduct(ctx, products.CreateInput{
		Title:       title,
		Description: description,
		Thumbnail:   upload,
	})
	if err != nil {
		a.products.ClearError()
		return err
	}
	if ack.Message != "" {
		fmt.Fprintln(a.out, ack.Message)
	}
	renderProducts(a.out, a.products.Items(), a.products.Pagination())
	return nil
}

// Edit updates title/description/status: edit <id>.
func (a *App) Edit(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: edit <id>")
	}
	title, err := getText(a.reader, "New title", a.out)
	if err != nil {
		return err
	}
	description, err := getText(a.reader, "New description", a.out)
	if err != nil {
		return err
	}
	active, err := confirm(a.reader, "Active?", a.out)
	if err != nil {
		return err
	}

	ack, err := a.products.UpdateProduct(ctx, args[0], products.UpdateInput{
		Title:       title,
		Description: description,
		Status:      active,
	})
	if err != nil {
		a.products.ClearError()
		return err
	}
	if ack.Message != "" {
		fmt.Fprintln(a.out, ack.Message)
	}
	return nil
}

// Delete removes a product after confirmation: delete <id>.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	ok, err := confirm(a.reader, "Delete product "+args[0]+"?", a.out)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := a.products.DeleteProduct(ctx, args[0]); err != nil {
		a.products.ClearError()
		return err
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// Thumbnail replaces a product image: thumbnail <id> <file>.
func (a *App) Thumbnail(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: thumbnail <id> <file>")
	}

	upload, closeFn, err := a.openImage(args[1])
	if err != nil {
		return err
	}
	defer closeFn()

	ack, err := a.products.UpdateProductThumbnail(ctx, args[0], upload)
	if err != nil {
		a.products.ClearError()
		return err
	}
	if ack.Message != "" {
		fmt.Fprintln(a.out, ack.Message)
	}
	return nil
}

// Stats derives simple counters from the held page.
func (a *App) Stats(ctx context.Context) error {
	items := a.products.Items()
	if len(items) == 0 {
		if err := a.products.FetchProducts(ctx, products.QueryParams{Page: 1, PageSize: a.config.DefaultPageSize}); err != nil {
			return err
		}
		items = a.products.Items()
	}

	var active, withThumb int
	for _, p := range items {
		if p.Status {
			active++
		}
		if p.Thumbnail != nil {
			withThumb++
		}
	}
	pg := a.products.Pagination()
	fmt.Fprintf(a.out, "Products on page: %d (of %d total)\n", len(items), pg.Total)
	fmt.Fprintf(a.out, "Active: %d  Inactive: %d  With thumbnail: %d\n",
		active, len(items)-active, withThumb)
	return nil
}

// openImage validates path against the upload limits and opens it. The
// returned close function is safe to defer.
func (a *App) openImage(path string) (products.Upload, func(), error) {
	info, err := os.Stat(path)
	if err != nil {
		return products.Upload{}, nil, err
	}
	if info.Size() > a.config.MaxUploadSize {
		return products.Upload{}, nil, fmt.Errorf("file too large: %s (max %s)",
			format.FileSize(info.Size()), format.FileSize(a.config.MaxUploadSize))
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if !a.config.ImageTypeAllowed(contentType) {
		return products.Upload{}, nil, fmt.Errorf("file type not allowed: %q (accepted: %s)",
			contentType, strings.Join(a.config.AllowedImageTypes, ", "))
	}

	f, err := os.Open(path)
	if err != nil {
		return products.Upload{}, nil, err
	}
	return products.Upload{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}
