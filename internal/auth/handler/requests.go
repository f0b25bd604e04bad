package handler

import (
	"strings"

	"github.com/asaskevich/govalidator"

	"github.com/PorePranav/CloudCart/internal/auth/models"
	dErrors "github.com/PorePranav/CloudCart/pkg/domain-errors"
)

// SignupRequest is the public signup payload.
type SignupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Normalize trims whitespace before validation.
func (r *SignupRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
}

// Validate collects every violation into one joined message.
func (r *SignupRequest) Validate() error {
	var problems []string
	if !govalidator.StringLength(r.Name, "2", "50") {
		problems = append(problems, "name must be between 2 and 50 characters")
	}
	if !govalidator.IsEmail(r.Email) {
		problems = append(problems, "invalid email address")
	}
	if !govalidator.StringLength(r.Password, "8", "50") {
		problems = append(problems, "password must be between 8 and 50 characters")
	}
	if r.Password != r.ConfirmPassword {
		problems = append(problems, "passwords do not match")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeBadRequest, strings.Join(problems, ", "))
	}
	return nil
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *LoginRequest) Validate() error {
	var problems []string
	if !govalidator.IsEmail(r.Email) {
		problems = append(problems, "invalid email address")
	}
	if !govalidator.StringLength(r.Password, "8", "50") {
		problems = append(problems, "password must be between 8 and 50 characters")
	}
	if len(problems) > 0 {
		return dErrors.New(dErrors.CodeBadRequest, strings.Join(problems, ", "))
	}
	return nil
}

// AdminCreateRequest provisions an account with an explicit role.
type AdminCreateRequest struct {
	SignupRequest
	Role models.Role `json:"role"`
}

func (r *AdminCreateRequest) Validate() error {
	if err := r.SignupRequest.Validate(); err != nil {
		return err
	}
	if r.Role == "" {
		r.Role = models.RoleUser
	}
	if !r.Role.Valid() {
		return dErrors.New(dErrors.CodeBadRequest, "role must be USER or ADMIN")
	}
	return nil
}
