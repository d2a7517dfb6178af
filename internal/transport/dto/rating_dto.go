package dto

// SubmitRatingRequest scores the other party. Omitted sub-scores default to 5.
type SubmitRatingRequest struct {
	Score       int    `json:"score" validate:"required,min=1,max=5"`
	Punctuality *int   `json:"punctuality" validate:"omitempty,min=1,max=5"`
	Quality     *int   `json:"quality" validate:"omitempty,min=1,max=5"`
	Compliance  *int   `json:"compliance" validate:"omitempty,min=1,max=5"`
	Comment     string `json:"comment" validate:"omitempty,max=2000"`
}
