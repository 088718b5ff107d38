package auth

import "mavina/internal/domain"

type RegisterRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Password     string `json:"password" binding:"required,min=6"`
	Role         string `json:"role" binding:"required"`
	BusinessName string `json:"business_name"`
	City         string `json:"city"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResult struct {
	User     *domain.User     `json:"user"`
	Provider *domain.Provider `json:"provider,omitempty"`
	Token    string           `json:"token"`
}

type MeResponse struct {
	User     *domain.User     `json:"user"`
	Provider *domain.Provider `json:"provider,omitempty"`
}
