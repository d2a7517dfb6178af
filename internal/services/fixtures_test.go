package services_test

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/services"
	"marketplace-api/internal/storage/memory"
	"marketplace-api/internal/transport/dto"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

// marketplace wires every service against one memory store.
type marketplace struct {
	store        *memory.Store
	users        services.UserService
	jobs         services.JobService
	applications services.ApplicationService
	payments     services.PaymentService
	ratings      services.RatingService
	messages     services.MessageService
	revoker      *fakeRevoker
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	store := memory.New()
	revoker := &fakeRevoker{revoked: map[string]time.Time{}}
	return &marketplace{
		store:        store,
		users:        services.NewUserService(store, auth.NewTokenManager("test-secret", time.Hour), revoker, logger),
		jobs:         services.NewJobService(store, logger),
		applications: services.NewApplicationService(store, logger),
		payments:     services.NewPaymentService(store, logger),
		ratings:      services.NewRatingService(store, logger),
		messages:     services.NewMessageService(store, logger),
		revoker:      revoker,
	}
}

// seedUser inserts an account directly, skipping bcrypt.
func (m *marketplace) seedUser(t *testing.T, username string, role models.Role) models.Actor {
	t.Helper()
	u, err := m.store.Users().Create(context.Background(), &models.User{
		Username: username,
		UserType: role,
	})
	require.NoError(t, err)
	return models.Actor{UserID: u.ID, Role: u.UserType, Username: u.Username}
}

func (m *marketplace) postJob(t *testing.T, requester models.Actor, material string) *models.Job {
	t.Helper()
	job, err := m.jobs.CreateJob(context.Background(), requester, &dto.CreateJobRequest{
		Title:        "Assemble wardrobe",
		Location:     "Lisbon",
		Price:        decimal.RequireFromString("120.50"),
		MaterialType: material,
		StartDate:    time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return job
}

// inProgressJob returns a job accepted by provider.
func (m *marketplace) inProgressJob(t *testing.T, requester, provider models.Actor) *models.Job {
	t.Helper()
	ctx := context.Background()
	job := m.postJob(t, requester, "wood")
	app, err := m.applications.Apply(ctx, provider, job.ID)
	require.NoError(t, err)
	job, err = m.applications.Accept(ctx, requester, job.ID, app.ID)
	require.NoError(t, err)
	return job
}

// paidJob returns an in-progress job with confirmed payment.
func (m *marketplace) paidJob(t *testing.T, requester, provider models.Actor) *models.Job {
	t.Helper()
	ctx := context.Background()
	job := m.inProgressJob(t, requester, provider)
	_, err := m.payments.SubmitProof(ctx, requester, job.ID, &dto.PaymentProofRequest{Content: "transfer ref 42"})
	require.NoError(t, err)
	job, err = m.payments.ConfirmPayment(ctx, provider, job.ID, "")
	require.NoError(t, err)
	return job
}

func (m *marketplace) completedJob(t *testing.T, requester, provider models.Actor) *models.Job {
	t.Helper()
	job := m.paidJob(t, requester, provider)
	job, err := m.jobs.CompleteJob(context.Background(), provider, job.ID)
	require.NoError(t, err)
	return job
}

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (f *fakeRevoker) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[tokenID] = expiresAt
	return nil
}

func (f *fakeRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.revoked[tokenID]
	return ok, nil
}

// race runs fns concurrently from a common start and returns their errors.
func race(fns ...func() error) []error {
	errs := make([]error, len(fns))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func(i int, fn func() error) {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}(i, fn)
	}
	close(start)
	wg.Wait()
	return errs
}
