// Package dto defines request and response shapes for the v1 API.
package dto

// IDResponse returns the identifier of a newly created entity.
type IDResponse struct {
	ID string `json:"id"`
}

// SuccessResponse is a generic success acknowledgement.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

