package dto

import (
	"github.com/hanibalsk/property-management-sub005/internal/core/id"
	"github.com/hanibalsk/property-management-sub005/internal/domain/auth"
)

// LoginRequest is the POST /auth/login body.
type LoginRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
	OrganizationID string `json:"organizationId"`
}

// ToLoginInput converts the request into the domain input.
func (r LoginRequest) ToLoginInput() (auth.LoginInput, error) {
	input := auth.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
	if r.OrganizationID != "" {
		orgID, err := id.Parse(r.OrganizationID)
		if err != nil {
			return auth.LoginInput{}, err
		}
		input.OrgID = &orgID
	}
	return input, nil
}
