package dto

import "marketplace-api/internal/models"

// PaymentProofRequest carries the requester's evidence of payment.
type PaymentProofRequest struct {
	Content    string          `json:"content" validate:"required,max=2000"`
	Attachment models.Document `json:"attachment"`
}

// PaymentDecisionRequest is the optional note attached to a confirm or reject.
type PaymentDecisionRequest struct {
	Note string `json:"note" validate:"omitempty,max=2000"`
}
