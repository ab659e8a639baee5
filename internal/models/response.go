package models

// LoginResponse is returned by POST /auth/login and POST /auth/session.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterResponse is returned by POST /users.
type RegisterResponse struct {
	CodeIntern string `json:"codeIntern"`
	Message    string `json:"message"`
	Token      string `json:"token"`
	User       User   `json:"user"`
}

// Ack is the generic acknowledgement body the API returns for mutations.
type Ack struct {
	CodeIntern string `json:"codeIntern"`
	Message    string `json:"message"`
	ID         string `json:"id,omitempty"`
}
