package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// JobRepo implements the storage.JobRepository interface using PostgreSQL.
type JobRepo struct {
	db  Querier
	log logrus.FieldLogger
}

// NewJobRepo creates a new JobRepo.
func NewJobRepo(db *pgxpool.Pool, log logrus.FieldLogger) *JobRepo {
	return &JobRepo{db: db, log: log}
}

// WithTx creates a new JobRepo bound to the transaction.
func (r *JobRepo) WithTx(tx pgx.Tx) *JobRepo {
	return &JobRepo{db: tx, log: r.log}
}

var _ storage.JobRepository = (*JobRepo)(nil)

// Create saves a new job posting.
func (r *JobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	query := `
		INSERT INTO services (requester_id, title, description, location, price, material_type,
			start_date, end_date, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + columnList(jobColumns)

	rows, err := r.db.Query(ctx, query,
		job.RequesterID,
		job.Title,
		job.Description,
		job.Location,
		job.Price,
		job.MaterialType,
		job.StartDate,
		job.EndDate,
		job.Status,
		job.PaymentStatus,
	)
	if err != nil {
		return nil, mapWriteError(err, "create job")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Job])
	if err != nil {
		return nil, mapWriteError(err, "create job")
	}

	r.log.WithFields(logrus.Fields{"job_id": created.ID, "requester_id": created.RequesterID}).Info("job created")
	return created, nil
}

// GetByID retrieves a specific job by its ID.
func (r *JobRepo) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	query, args := selectFrom(jobsTable, jobColumns).Where(eqID(id)).Query()
	return r.getOne(ctx, query, args, id)
}

func (r *JobRepo) getForUpdate(ctx context.Context, id int64) (*models.Job, error) {
	query, args := buildJobLockQuery(id)
	return r.getOne(ctx, query, args, id)
}

func (r *JobRepo) getOne(ctx context.Context, query string, args []any, id int64) (*models.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get job by ID %d: %w", id, err)
	}
	job, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Job])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get job by ID %d: %w", id, err)
	}
	return job, nil
}

// List retrieves a filtered page of jobs together with the total match count.
func (r *JobRepo) List(ctx context.Context, f models.JobFilter) ([]models.Job, int, error) {
	pageSQL, pageArgs, countSQL, countArgs := buildJobListQuery(f)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count jobs: %w", err)
	}

	jobs, err := r.collect(ctx, pageSQL, pageArgs)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

// ListPendingEvaluation returns completed jobs where role's side still owes a rating.
func (r *JobRepo) ListPendingEvaluation(ctx context.Context, userID int64, role models.Role) ([]models.Job, error) {
	query, args := buildPendingEvaluationQuery(userID, role)
	return r.collect(ctx, query, args)
}

func (r *JobRepo) collect(ctx context.Context, query string, args []any) ([]models.Job, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Job])
	if err != nil {
		return nil, fmt.Errorf("failed to scan jobs: %w", err)
	}
	if jobs == nil {
		jobs = []models.Job{} // Return empty slice, not nil
	}
	return jobs, nil
}

// save writes the descriptive and lifecycle columns. both_ratings_done is a
// generated column and is read back rather than written.
func (r *JobRepo) save(ctx context.Context, job *models.Job) error {
	query := `
		UPDATE services
		SET provider_id = $2,
			status = $3,
			payment_status = $4,
			rating_required = $5,
			requester_rating_done = $6,
			provider_rating_done = $7,
			completed_at = $8,
			title = $9,
			description = $10,
			location = $11,
			price = $12,
			material_type = $13,
			start_date = $14,
			end_date = $15,
			updated_at = NOW()
		WHERE id = $1
		RETURNING both_ratings_done, updated_at`

	err := r.db.QueryRow(ctx, query,
		job.ID,
		job.ProviderID,
		job.Status,
		job.PaymentStatus,
		job.RatingRequired,
		job.RequesterRatingDone,
		job.ProviderRatingDone,
		job.CompletedAt,
		job.Title,
		job.Description,
		job.Location,
		job.Price,
		job.MaterialType,
		job.StartDate,
		job.EndDate,
	).Scan(&job.BothRatingsDone, &job.UpdatedAt)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("save job %d", job.ID))
	}
	return nil
}
