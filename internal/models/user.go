// Package models holds the wire-level types exchanged with the Produtos
// Manager API. All records are created by the server; the client never
// assigns identities or mutates a User partially.
package models

// Platform roles.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// Account statuses.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

// Phone is the country / area-code / number triple used for user contacts.
type Phone struct {
	Country string `json:"country"`
	DDD     string `json:"ddd"`
	Number  string `json:"number"`
}

// Avatar is a single user avatar image reference.
type Avatar struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// User is the account record returned by the server. It is treated as an
// immutable value on the client side.
type User struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Number         string   `json:"number,omitempty"`
	Phone          Phone    `json:"phone"`
	Avatar         []Avatar `json:"avatar,omitempty"`
	PlatformRole   string   `json:"platformRole"`
	Status         string   `json:"status"`
	EmailStatus    string   `json:"emailStatus"`
	Street         string   `json:"street,omitempty"`
	Complement     string   `json:"complement,omitempty"`
	District       string   `json:"district,omitempty"`
	City           string   `json:"city,omitempty"`
	State          string   `json:"state,omitempty"`
	Country        string   `json:"country,omitempty"`
	Zip            string   `json:"zip,omitempty"`
	RenewalsNumber int      `json:"renewalsNumber,omitempty"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
}
