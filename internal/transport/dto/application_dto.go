package dto

// ListMyApplicationsRequest defines query parameters for GET /applications/mine.
type ListMyApplicationsRequest struct {
	Limit  int `form:"limit,default=20" validate:"min=1,max=100"`
	Offset int `form:"offset,default=0" validate:"min=0"`
}
