package api

import (
	"bytes"
	"encoding/json"

	"github.com/example/task-board/domain/user"
)

// SignUpRequest represents a sign-up request body.
type SignUpRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Name     string    `json:"name"`
	Role     user.Role `json:"role"`
}

// SignInRequest represents a sign-in request body.
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse represents an issued access token.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        user.Summary `json:"user"`
}

// CreateTaskRequest represents a task creation body. Dates are parsed
// separately so both RFC 3339 and YYYY-MM-DD are accepted.
type CreateTaskRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"due_date"`
	Order       *int    `json:"order"`
}

// UpdateTaskRequest represents a partial update body.
type UpdateTaskRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     Nullable `json:"due_date"`
	Order       *int     `json:"order"`
}

// Nullable distinguishes an absent JSON field from an explicit null.
type Nullable struct {
	Set   bool
	Null  bool
	Value string
}

// UnmarshalJSON is only called when the field is present.
func (n *Nullable) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		return nil
	}
	return json.Unmarshal(data, &n.Value)
}

// UpdateStatusRequest represents a column move body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Order  *int   `json:"order"`
}

// ReorderRequest represents a reposition body.
type ReorderRequest struct {
	Order *int `json:"order"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
