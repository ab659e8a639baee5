package products

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/amleal/produtos-manager/internal/api"
	"github.com/amleal/produtos-manager/internal/logging"
	"github.com/amleal/produtos-manager/internal/models"
)

// ---- helpers ----

func newContainer(t *testing.T, handler http.Handler) *Container {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewContainer(api.NewClient(srv.URL, nil, logging.Nop()), logging.Nop())
}

func jsonResponse(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

const listBody = `{
  "data": [
    {"id":"p1","title":"Phone","description":"a phone","status":true},
    {"id":"p2","title":"Case","description":"a case","status":false}
  ],
  "meta": {"page":1,"pageSize":10,"total":23,"totalPages":3}
}`

func seeded(t *testing.T, mux *http.ServeMux) *Container {
	t.Helper()
	c := newContainer(t, mux)
	require.NoError(t, c.FetchProducts(context.Background(), QueryParams{Page: 1, PageSize: 10}))
	return c
}

// ---- tests ----

func TestFetchProductsReplacesState(t *testing.T) {
	var gotQuery string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		jsonResponse(w, http.StatusOK, `{
		  "data": [{"id":"p9","title":"Phone","description":"","status":true}],
		  "meta": {"page":2,"pageSize":10,"total":23,"totalPages":3}
		}`)
	})

	c := newContainer(t, mux)
	require.NoError(t, c.FetchProducts(context.Background(), QueryParams{Page: 2, PageSize: 10, Filter: "phone"}))

	require.Equal(t, "filter=phone&page=2&pageSize=10", gotQuery)
	require.Len(t, c.Items(), 1)
	require.Equal(t, models.Pagination{Page: 2, PageSize: 10, Total: 23, TotalPages: 3}, c.Pagination())
	require.False(t, c.IsLoading())
	require.Empty(t, c.Err())
}

func TestFetchProductsFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusInternalServerError, `{"message":"database down"}`)
	})

	c := newContainer(t, mux)
	err := c.FetchProducts(context.Background(), QueryParams{Page: 1})

	require.Error(t, err)
	require.Equal(t, "database down", c.Err())
	require.False(t, c.IsLoading())
	require.Empty(t, c.Items())
}

func TestUpdateProductPatchesInPlace(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, listBody)
	})
	mux.HandleFunc("PUT /products/p1", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK","message":"updated"}`)
	})

	c := seeded(t, mux)
	before := c.Pagination()

	ack, err := c.UpdateProduct(context.Background(), "p1", UpdateInput{
		Title:       "Smartphone",
		Description: "a better phone",
		Status:      false,
	})
	require.NoError(t, err)
	require.Equal(t, "updated", ack.Message)

	items := c.Items()
	require.Equal(t, "Smartphone", items[0].Title)
	require.Equal(t, "a better phone", items[0].Description)
	require.False(t, items[0].Status)

	// the other entry and the pagination are untouched
	require.Equal(t, "Case", items[1].Title)
	require.Equal(t, before, c.Pagination())
}

func TestDeleteProductReconcilesPagination(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, listBody)
	})
	mux.HandleFunc("DELETE /products/p1", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK","message":"deleted"}`)
	})

	c := seeded(t, mux)
	require.NoError(t, c.DeleteProduct(context.Background(), "p1"))

	items := c.Items()
	require.Len(t, items, 1)
	require.Equal(t, "p2", items[0].ID)

	pg := c.Pagination()
	require.Equal(t, 22, pg.Total)
	require.Equal(t, 3, pg.TotalPages) // ceil(22/10)
}

func TestDeleteLastItemRecomputesTotalPages(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{
		  "data": [{"id":"p1","title":"Phone","description":"","status":true}],
		  "meta": {"page":3,"pageSize":10,"total":21,"totalPages":3}
		}`)
	})
	mux.HandleFunc("DELETE /products/p1", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK"}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()
	require.NoError(t, c.FetchProducts(ctx, QueryParams{Page: 3, PageSize: 10}))
	require.NoError(t, c.DeleteProduct(ctx, "p1"))

	pg := c.Pagination()
	require.Equal(t, 20, pg.Total)
	require.Equal(t, 2, pg.TotalPages)
}

func TestCreateProductRefetchesActivePage(t *testing.T) {
	var listQueries []string
	var gotTitle, gotDescription, gotFilename, gotFileType string

	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		listQueries = append(listQueries, r.URL.RawQuery)
		jsonResponse(w, http.StatusOK, listBody)
	})
	mux.HandleFunc("POST /products", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotTitle = r.FormValue("title")
		gotDescription = r.FormValue("description")
		file, header, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotFileType = header.Header.Get("Content-Type")
		jsonResponse(w, http.StatusCreated, `{"codeIntern":"OK","message":"created","id":"p3"}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()
	require.NoError(t, c.FetchProducts(ctx, QueryParams{Page: 1, PageSize: 10, Filter: "ph"}))

	ack, err := c.CreateProduct(ctx, CreateInput{
		Title:       "Charger",
		Description: "fast charger",
		Thumbnail: Upload{
			Name:        "charger.png",
			ContentType: "image/png",
			Reader:      strings.NewReader("fake png bytes"),
		},
	})
	require.NoError(t, err)
	require.Equal(t, "p3", ack.ID)

	require.Equal(t, "Charger", gotTitle)
	require.Equal(t, "fast charger", gotDescription)
	require.Equal(t, "charger.png", gotFilename)
	require.Equal(t, "image/png", gotFileType)

	// the active (page, filter) pair was re-fetched after creation
	require.Len(t, listQueries, 2)
	require.Equal(t, listQueries[0], listQueries[1])
}

func TestCreateProductRequiresThumbnail(t *testing.T) {
	var calls int
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	})

	c := newContainer(t, h)
	_, err := c.CreateProduct(context.Background(), CreateInput{Title: "Charger"})
	require.ErrorIs(t, err, errNoFile)
	require.Zero(t, calls)
}

func TestUpdateThumbnailReloadsCurrentProduct(t *testing.T) {
	var productGets int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/p1", func(w http.ResponseWriter, r *http.Request) {
		productGets++
		thumb := `"thumbnail":{"url":"/img/old.png","type":"image/png","originalName":"old.png"}`
		if productGets > 1 {
			thumb = `"thumbnail":{"url":"/img/new.png","type":"image/png","originalName":"new.png"}`
		}
		jsonResponse(w, http.StatusOK, `{"id":"p1","title":"Phone","description":"","status":true,`+thumb+`}`)
	})
	mux.HandleFunc("PATCH /products/thumbnail/p1", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, _, err := r.FormFile("thumbnail")
		require.NoError(t, err)
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK","message":"thumbnail updated"}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()
	require.NoError(t, c.FetchProduct(ctx, "p1"))
	require.Equal(t, "old.png", c.Current().Thumbnail.OriginalName)

	_, err := c.UpdateProductThumbnail(ctx, "p1", Upload{
		Name:        "new.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("fake png bytes"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, productGets)
	require.Equal(t, "new.png", c.Current().Thumbnail.OriginalName)
}

func TestUpdateThumbnailLeavesOtherProductAlone(t *testing.T) {
	var productGets int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products/p1", func(w http.ResponseWriter, r *http.Request) {
		productGets++
		jsonResponse(w, http.StatusOK, `{"id":"p1","title":"Phone","description":"","status":true}`)
	})
	mux.HandleFunc("PATCH /products/thumbnail/p2", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK"}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()
	require.NoError(t, c.FetchProduct(ctx, "p1"))

	_, err := c.UpdateProductThumbnail(ctx, "p2", Upload{
		Name:        "new.png",
		ContentType: "image/png",
		Reader:      strings.NewReader("x"),
	})
	require.NoError(t, err)
	require.Equal(t, 1, productGets)
}

func TestOverlappingOperationRejected(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		close(entered)
		<-release
		jsonResponse(w, http.StatusOK, listBody)
	})
	mux.HandleFunc("DELETE /products/p1", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"codeIntern":"OK"}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = c.FetchProducts(ctx, QueryParams{Page: 1, PageSize: 10})
	}()

	<-entered
	require.True(t, c.IsLoading())
	err := c.FetchProducts(ctx, QueryParams{Page: 2})
	require.ErrorIs(t, err, ErrOperationInFlight)
	require.ErrorIs(t, c.DeleteProduct(ctx, "p1"), ErrOperationInFlight)

	close(release)
	wg.Wait()
	require.False(t, c.IsLoading())
	require.Len(t, c.Items(), 2)
}

func TestClearErrorAndClearCurrent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusBadRequest, `{"message":"bad filter"}`)
	})
	mux.HandleFunc("GET /products/p1", func(w http.ResponseWriter, r *http.Request) {
		jsonResponse(w, http.StatusOK, `{"id":"p1","title":"Phone","description":"","status":true}`)
	})

	c := newContainer(t, mux)
	ctx := context.Background()

	require.Error(t, c.FetchProducts(ctx, QueryParams{}))
	require.Equal(t, "bad filter", c.Err())
	c.ClearError()
	require.Empty(t, c.Err())

	require.NoError(t, c.FetchProduct(ctx, "p1"))
	require.NotNil(t, c.Current())
	c.ClearCurrent()
	require.Nil(t, c.Current())
}

func TestAnyOperationClearsPreviousError(t *testing.T) {
	var fail bool
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		if fail {
			jsonResponse(w, http.StatusInternalServerError, `{"message":"boom"}`)
			return
		}
		jsonResponse(w, http.StatusOK, listBody)
	})

	c := newContainer(t, mux)
	ctx := context.Background()

	fail = true
	require.Error(t, c.FetchProducts(ctx, QueryParams{}))
	require.Equal(t, "boom", c.Err())

	fail = false
	require.NoError(t, c.FetchProducts(ctx, QueryParams{}))
	require.Empty(t, c.Err())
}
