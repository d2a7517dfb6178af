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

// UserRepo implements the storage.UserRepository interface using PostgreSQL.
type UserRepo struct {
	db  Querier
	log logrus.FieldLogger
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *pgxpool.Pool, log logrus.FieldLogger) *UserRepo {
	return &UserRepo{db: db, log: log}
}

var _ storage.UserRepository = (*UserRepo)(nil)

// Create inserts a user whose password is already hashed.
func (r *UserRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	profile := user.ProfileData
	if profile == nil {
		profile = models.Document{}
	}
	query := `
		INSERT INTO users (username, password_hash, user_type, display_name, email, phone, profile_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + columnList(userColumns)

	rows, err := r.db.Query(ctx, query,
		user.Username,
		user.PasswordHash,
		user.UserType,
		user.DisplayName,
		user.Email,
		user.Phone,
		profile,
	)
	if err != nil {
		return nil, mapWriteError(err, "create user")
	}
	created, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		return nil, mapWriteError(err, "create user")
	}

	r.log.WithFields(logrus.Fields{"user_id": created.ID, "user_type": created.UserType}).Info("user created")
	return created, nil
}

// GetByID retrieves a single user by ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query, args := selectFrom(usersTable, userColumns).Where(eqID(id)).Query()
	return r.getOne(ctx, query, args)
}

// GetByUsername retrieves a single user by username, case-insensitively.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query, args := selectFrom(usersTable, userColumns).Where(entsql.EqualFold("username", username)).Query()
	return r.getOne(ctx, query, args)
}

func (r *UserRepo) getOne(ctx context.Context, query string, args []any) (*models.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// UpdateProfile patches the profile fields; profile_data is merged key by key.
func (r *UserRepo) UpdateProfile(ctx context.Context, id int64, upd models.ProfileUpdate) (*models.User, error) {
	var patch any
	if upd.ProfileData != nil {
		patch = upd.ProfileData
	}
	query := `
		UPDATE users
		SET display_name = COALESCE($2, display_name),
			email = COALESCE($3, email),
			phone = COALESCE($4, phone),
			profile_data = CASE WHEN $5::jsonb IS NULL THEN profile_data
				ELSE jsonb_strip_nulls(profile_data || $5::jsonb) END,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + columnList(userColumns)

	rows, err := r.db.Query(ctx, query, id, upd.DisplayName, upd.Email, upd.Phone, patch)
	if err != nil {
		return nil, mapWriteError(err, "update profile")
	}
	user, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[models.User])
	if err != nil {
		return nil, mapWriteError(err, "update profile")
	}
	return user, nil
}
