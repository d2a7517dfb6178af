package postgres

import (
	"context"
	"fmt"

	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// RatingRepo implements the storage.RatingRepository interface using PostgreSQL.
type RatingRepo struct {
	db  Querier
	log logrus.FieldLogger
}

// NewRatingRepo creates a new RatingRepo.
func NewRatingRepo(db *pgxpool.Pool, log logrus.FieldLogger) *RatingRepo {
	return &RatingRepo{db: db, log: log}
}

// WithTx creates a new RatingRepo bound to the transaction.
func (r *RatingRepo) WithTx(tx pgx.Tx) *RatingRepo {
	return &RatingRepo{db: tx, log: r.log}
}

var _ storage.RatingRepository = (*RatingRepo)(nil)

func (r *RatingRepo) ListByJob(ctx context.Context, jobID int64) ([]models.Rating, error) {
	query, args := selectFrom(ratingsTable, ratingColumns).
		Where(entsql.EQ("service_id", jobID)).
		OrderBy(entsql.Asc("created_at")).
		Query()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings for job %d: %w", jobID, err)
	}
	ratings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Rating])
	if err != nil {
		return nil, fmt.Errorf("failed to scan ratings for job %d: %w", jobID, err)
	}
	if ratings == nil {
		ratings = []models.Rating{}
	}
	return ratings, nil
}

// Reputation averages the latest rating from each counterpart.
func (r *RatingRepo) Reputation(ctx context.Context, userID int64) (*models.Reputation, error) {
	rep := &models.Reputation{UserID: userID}
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(AVG(score), 0)::float8,
			COALESCE(AVG(punctuality), 0)::float8,
			COALESCE(AVG(quality), 0)::float8,
			COALESCE(AVG(compliance), 0)::float8
		FROM ratings
		WHERE to_user_id = $1 AND is_latest`, userID).
		Scan(&rep.Count, &rep.AvgScore, &rep.AvgPunctuality, &rep.AvgQuality, &rep.AvgCompliance)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reputation for user %d: %w", userID, err)
	}
	return rep, nil
}

func (r *RatingRepo) exists(ctx context.Context, jobID int64, fromRole models.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE service_id = $1 AND from_role = $2)`,
		jobID, fromRole).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check rating: %w", err)
	}
	return exists, nil
}

// create moves the is_latest pointer for the (from, to) pair onto the new row.
// Ratings on different jobs hold different job locks, so the pair is
// serialized with a transaction-scoped advisory lock before the pointer moves.
func (r *RatingRepo) create(ctx context.Context, rating *models.Rating) (*models.Rating, error) {
	if _, err := r.db.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtextextended($1::bigint::text || ':' || $2::bigint::text, 0))`,
		rating.FromUserID, rating.ToUserID); err != nil {
		return nil, fmt.Errorf("failed to lock rating pair: %w", err)
	}

	if _, err := r.db.Exec(ctx, `
		UPDATE ratings SET is_latest = FALSE
		WHERE from_user_id = $1 AND to_user_id = $2 AND is_latest`,
		rating.FromUserID, rating.ToUserID); err != nil {
		return nil, fmt.Errorf("failed to clear latest rating: %w", err)
	}

	query := `
		INSERT INTO ratings (service_id, from_user_id, to_user_id, from_role, to_role, score,
			punctuality, quality, compliance, comment, is_latest)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING ` + columnList(ratingColumns)

	rows, err := r.db.Query(ctx, query,
		rating.JobID,
		rating.FromUserID,
		rating.ToUserID,
		rating.FromRole,
		rating.ToRole,
		rating.Score,
		rating.Punctuality,
		rating.Quality,
		rating.Compliance,
		rating.Comment,
	)
	if err != nil {
		return nil, mapWriteError(err, "create rating")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.Rating])
	if err != nil {
		return nil, mapWriteError(err, "create rating")
	}
	return created, nil
}
