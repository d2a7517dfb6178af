package handlers

import "github.com/gin-gonic/gin"

// AuthHandlerInterface defines the methods needed by the auth and user routes.
type AuthHandlerInterface interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Validate(c *gin.Context)
	Logout(c *gin.Context)
	UpdateMe(c *gin.Context)
	GetReputation(c *gin.Context)
}

// JobHandlerInterface defines the methods needed by the service routes.
type JobHandlerInterface interface {
	ListJobs(c *gin.Context)
	ListAvailableJobs(c *gin.Context)
	ListMyJobs(c *gin.Context)
	CreateJob(c *gin.Context)
	GetJobByID(c *gin.Context)
	UpdateJob(c *gin.Context)
	CompleteJob(c *gin.Context)
	CancelJob(c *gin.Context)
	PendingEvaluations(c *gin.Context)
}

// ApplicationHandlerInterface defines the methods needed by the application routes.
type ApplicationHandlerInterface interface {
	Apply(c *gin.Context)
	ListJobApplications(c *gin.Context)
	AcceptApplication(c *gin.Context)
	RejectApplication(c *gin.Context)
	ListMyApplications(c *gin.Context)
}

// PaymentHandlerInterface defines the methods needed by the payment routes.
type PaymentHandlerInterface interface {
	SubmitProof(c *gin.Context)
	ConfirmPayment(c *gin.Context)
	RejectPayment(c *gin.Context)
}

// RatingHandlerInterface defines the methods needed by the rating routes.
type RatingHandlerInterface interface {
	SubmitRating(c *gin.Context)
	ListRatings(c *gin.Context)
}

// MessageHandlerInterface defines the methods needed by the message routes.
type MessageHandlerInterface interface {
	ListMessages(c *gin.Context)
	SendMessage(c *gin.Context)
	MarkRead(c *gin.Context)
}

// Ensure handlers implement the interfaces (compile-time check)
var (
	_ AuthHandlerInterface        = (*AuthHandler)(nil)
	_ JobHandlerInterface         = (*JobHandler)(nil)
	_ ApplicationHandlerInterface = (*ApplicationHandler)(nil)
	_ PaymentHandlerInterface     = (*PaymentHandler)(nil)
	_ RatingHandlerInterface      = (*RatingHandler)(nil)
	_ MessageHandlerInterface     = (*MessageHandler)(nil)
)
