package api

// Response statuses used in every payload.
const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Response is the envelope every endpoint answers with.
// Data is the payload on success and a message string on failure.
type Response struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenData carries the bearer token returned by a successful login.
type TokenData struct {
	Token string `json:"token"`
}

// UserData is the public projection of a user record.
type UserData struct {
	ID       int64  `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
}

// CreateUserRequest is the body of the protected POST /users.
type CreateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest is the body of PUT /users/{id}.
// Blank fields leave the stored value untouched.
type UpdateUserRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
