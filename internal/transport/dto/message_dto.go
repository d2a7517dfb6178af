package dto

// SendMessageRequest posts a text message to a job thread.
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

// MarkReadResponse reports how many messages were newly marked as read.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}
