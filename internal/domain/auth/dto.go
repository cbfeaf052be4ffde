package auth

import (
	"github.com/busops/transit-backend-go/internal/domain/user"
	"github.com/busops/transit-backend-go/internal/pkg/validator"
)

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

func (r *RegisterRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	} else if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if len(r.Email) > 254 {
		errs.Add("email", "email must not exceed 254 characters")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "email must be a valid email address")
	}

	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	} else if len(r.Password) < 8 {
		errs.Add("password", "password must be at least 8 characters long")
	} else if len(r.Password) > 72 {
		// bcrypt ignores anything past 72 bytes
		errs.Add("password", "password must not exceed 72 characters")
	}
	if r.ConfirmPassword != r.Password {
		errs.Add("confirm_password", "password and confirm_password do not match")
	}

	return errs.Err()
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	}
	if validator.IsEmpty(r.Password) {
		errs.Add("password", "password is required")
	}

	return errs.Err()
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type TokenResponse struct {
	AccessToken          string       `json:"access_token"`
	AccessTokenExpiresIn int64        `json:"access_token_expires_in"`
	User                 UserResponse `json:"user"`
}

func ToUserResponse(u user.User) UserResponse {
	return UserResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: string(u.Role)}
}
