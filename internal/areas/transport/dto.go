package transport

// Request DTOs
type CreateAreaRequest struct {
	Nome string `json:"nome" validate:"required,min=2,max=100"`
}

// Response DTOs
type AreaResponse struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome"`
}
