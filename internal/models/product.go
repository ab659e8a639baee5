package models

// Thumbnail is a product image attachment. A product may lack one, in which
// case the whole field is absent.
type Thumbnail struct {
	URL          string `json:"url"`
	Type         string `json:"type"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size,omitempty"`
}

// Product is a single product record. IDs and timestamps are assigned by the
// server on creation.
type Product struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      bool       `json:"status"`
	Thumbnail   *Thumbnail `json:"thumbnail,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// Pagination is the server-side paging metadata for a filtered listing.
// Total always reflects the server's count for the active filter, not the
// length of the page the client holds.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ProductList is the response body of GET /products.
type ProductList struct {
	Data []Product  `json:"data"`
	Meta Pagination `json:"meta"`
}
