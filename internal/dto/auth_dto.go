package dto

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=8"`
	Username  string `json:"username" validate:"max=100"`
	FirstName string `json:"firstName" validate:"max=50"`
	LastName  string `json:"lastName" validate:"max=50"`
	Company   string `json:"company" validate:"max=100"`
	Phone     string `json:"phone" validate:"max=20"`
}

type LoginRequest struct {
	Identity string `json:"identity" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ActivateRequest struct {
	Selector string `json:"selector" validate:"required"`
	Code     string `json:"code" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Selector string `json:"selector" validate:"required"`
	Code     string `json:"code" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID       int      `json:"id"`
	Email    string   `json:"email"`
	Username string   `json:"username,omitempty"`
	FullName string   `json:"fullName,omitempty"`
	Groups   []string `json:"groups"`
}
