package dto

// CheckoutRequestDTO is used for incoming checkout requests
type CheckoutRequestDTO struct {
	CourseID string `json:"course_id" validate:"required"`
}

// CheckoutResponseDTO carries the checkout session's redirect target
type CheckoutResponseDTO struct {
	RedirectURL string `json:"redirect_url"`
}
