package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store implements storage.Store on top of a pgx pool.
type Store struct {
	pool *pgxpool.Pool
	log  logrus.FieldLogger

	users        *UserRepo
	jobs         *JobRepo
	applications *ApplicationRepo
	messages     *MessageRepo
	ratings      *RatingRepo
}

// NewStore wires every repository to the pool.
func NewStore(pool *pgxpool.Pool, logger logrus.FieldLogger) *Store {
	log := logger.WithField("module", "storage.postgres")
	return &Store{
		pool:         pool,
		log:          log,
		users:        NewUserRepo(pool, log),
		jobs:         NewJobRepo(pool, log),
		applications: NewApplicationRepo(pool, log),
		messages:     NewMessageRepo(pool, log),
		ratings:      NewRatingRepo(pool, log),
	}
}

var _ storage.Store = (*Store)(nil)

func (s *Store) Users() storage.UserRepository               { return s.users }
func (s *Store) Jobs() storage.JobRepository                 { return s.jobs }
func (s *Store) Applications() storage.ApplicationRepository { return s.applications }
func (s *Store) Messages() storage.MessageRepository         { return s.messages }
func (s *Store) Ratings() storage.RatingRepository           { return s.ratings }

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// UpdateJob locks the job row with SELECT ... FOR UPDATE for the lifetime of fn.
func (s *Store) UpdateJob(ctx context.Context, jobID int64, fn storage.JobUpdateFunc) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) // Rollback if anything fails

	txJobs := s.jobs.WithTx(tx)
	job, err := txJobs.getForUpdate(ctx, jobID)
	if err != nil {
		return err
	}

	handle := &jobTx{
		jobs:         txJobs,
		applications: s.applications.WithTx(tx),
		messages:     s.messages.WithTx(tx),
		ratings:      s.ratings.WithTx(tx),
	}
	if err := fn(ctx, handle, job); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// jobTx routes the transactional write surface to tx-bound repositories.
type jobTx struct {
	jobs         *JobRepo
	applications *ApplicationRepo
	messages     *MessageRepo
	ratings      *RatingRepo
}

var _ storage.JobTx = (*jobTx)(nil)

func (t *jobTx) SaveJob(ctx context.Context, job *models.Job) error {
	return t.jobs.save(ctx, job)
}

func (t *jobTx) CreateApplication(ctx context.Context, app *models.Application) (*models.Application, error) {
	return t.applications.create(ctx, app)
}

func (t *jobTx) GetApplication(ctx context.Context, id int64) (*models.Application, error) {
	return t.applications.getByID(ctx, id)
}

func (t *jobTx) HasPendingApplication(ctx context.Context, jobID, providerID int64) (bool, error) {
	return t.applications.hasPending(ctx, jobID, providerID)
}

func (t *jobTx) SetApplicationStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	return t.applications.setStatus(ctx, id, status)
}

func (t *jobTx) RejectPendingApplications(ctx context.Context, jobID, exceptID int64) (int64, error) {
	return t.applications.rejectPending(ctx, jobID, exceptID)
}

func (t *jobTx) AppendMessage(ctx context.Context, msg *models.Message) (*models.Message, error) {
	return t.messages.append(ctx, msg)
}

func (t *jobTx) HasRating(ctx context.Context, jobID int64, fromRole models.Role) (bool, error) {
	return t.ratings.exists(ctx, jobID, fromRole)
}

func (t *jobTx) CreateRating(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	return t.ratings.create(ctx, rating)
}

// mapWriteError turns constraint violations into storage sentinels.
func mapWriteError(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, storage.ErrDuplicate)
		case "23503", "23514": // foreign_key_violation, check_violation
			return fmt.Errorf("%s (%s): %w", what, pgErr.ConstraintName, storage.ErrConflict)
		}
	}
	return fmt.Errorf("%s: %w", what, err)
}
