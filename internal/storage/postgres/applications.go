package postgres

import (
	"context"
	"errors"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ApplicationRepo implements the storage.ApplicationRepository interface using PostgreSQL.
type ApplicationRepo struct {
	db  Querier
	log logrus.FieldLogger
}

// NewApplicationRepo creates a new ApplicationRepo.
func NewApplicationRepo(db *pgxpool.Pool, log logrus.FieldLogger) *ApplicationRepo {
	return &ApplicationRepo{db: db, log: log}
}

// WithTx creates a new ApplicationRepo bound to the transaction.
func (r *ApplicationRepo) WithTx(tx pgx.Tx) *ApplicationRepo {
	return &ApplicationRepo{db: tx, log: r.log}
}

var _ storage.ApplicationRepository = (*ApplicationRepo)(nil)

func (r *ApplicationRepo) ListByJob(ctx context.Context, jobID int64) ([]models.Application, error) {
	query, args := selectFrom(applicationsTable, applicationColumns).
		Where(entsql.EQ("service_id", jobID)).
		OrderBy(entsql.Asc("id")).
		Query()
	return r.collect(ctx, query, args)
}

func (r *ApplicationRepo) ListByProvider(ctx context.Context, providerID int64, limit, offset int) ([]models.Application, error) {
	query, args := selectFrom(applicationsTable, applicationColumns).
		Where(entsql.EQ("provider_id", providerID)).
		OrderBy(entsql.Desc("created_at"), entsql.Desc("id")).
		Limit(limit).
		Offset(offset).
		Query()
	return r.collect(ctx, query, args)
}

func (r *ApplicationRepo) collect(ctx context.Context, query string, args []any) ([]models.Application, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	apps, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Application])
	if err != nil {
		return nil, fmt.Errorf("failed to scan applications: %w", err)
	}
	if apps == nil {
		apps = []models.Application{}
	}
	return apps, nil
}

func (r *ApplicationRepo) create(ctx context.Context, app *models.Application) (*models.Application, error) {
	query := `
		INSERT INTO applications (service_id, provider_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + columnList(applicationColumns)

	rows, err := r.db.Query(ctx, query, app.JobID, app.ProviderID, app.Status)
	if err != nil {
		return nil, mapWriteError(err, "create application")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Application])
	if err != nil {
		return nil, mapWriteError(err, "create application")
	}
	return created, nil
}

func (r *ApplicationRepo) getByID(ctx context.Context, id int64) (*models.Application, error) {
	query, args := selectFrom(applicationsTable, applicationColumns).Where(eqID(id)).Query()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	app, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Application])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get application %d: %w", id, err)
	}
	return app, nil
}

func (r *ApplicationRepo) hasPending(ctx context.Context, jobID, providerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM applications
			WHERE service_id = $1 AND provider_id = $2 AND status = 'pending'
		)`, jobID, providerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending application: %w", err)
	}
	return exists, nil
}

func (r *ApplicationRepo) setStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return mapWriteError(err, fmt.Sprintf("set application %d status", id))
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (r *ApplicationRepo) rejectPending(ctx context.Context, jobID, exceptID int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE applications
		SET status = 'rejected', updated_at = NOW()
		WHERE service_id = $1 AND status = 'pending' AND id <> $2`, jobID, exceptID)
	if err != nil {
		return 0, fmt.Errorf("failed to reject pending applications for job %d: %w", jobID, err)
	}
	if n := tag.RowsAffected(); n > 0 {
		r.log.WithFields(logrus.Fields{"job_id": jobID, "rejected": n}).Info("pending applications rejected")
	}
	return tag.RowsAffected(), nil
}
