package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace-api/internal/auth"
	"marketplace-api/internal/models"
	"marketplace-api/internal/storage"
	"marketplace-api/internal/transport/dto"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the username is unknown so both
// failure paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)

type userService struct {
	store   storage.Store
	tokens  *auth.TokenManager
	revoker auth.Revoker
	log     logrus.FieldLogger
}

// NewUserService creates a new instance of UserService.
func NewUserService(store storage.Store, tokens *auth.TokenManager, revoker auth.Revoker, logger logrus.FieldLogger) UserService {
	return &userService{
		store:   store,
		tokens:  tokens,
		revoker: revoker,
		log:     logger.WithField("module", "services.users"),
	}
}

func (s *userService) Register(ctx context.Context, req *dto.RegisterRequest) (*models.User, error) {
	if !req.UserType.Valid() {
		return nil, fmt.Errorf("%w: unknown user type %q", ErrValidation, req.UserType)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.store.Users().Create(ctx, &models.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		UserType:     req.UserType,
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Phone:        req.Phone,
		ProfileData:  req.ProfileData,
	})
	if err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already taken", ErrConflict)
		}
		return nil, mapRepoError(s.log, err, "Register")
	}
	return user, nil
}

// Login returns the user, a signed token and its expiry. Unknown usernames and
// wrong passwords fail identically.
func (s *userService) Login(ctx context.Context, req *dto.LoginRequest) (*models.User, string, time.Time, error) {
	user, err := s.store.Users().GetByUsername(ctx, req.Username)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, "", time.Time{}, mapRepoError(s.log, err, "Login")
		}
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		s.log.Info("login failed")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.WithField("user_id", user.ID).Info("login failed")
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, fmt.Errorf("failed to generate login token: %w", err)
	}
	return user, token, claims.ExpiresAt.Time, nil
}

func (s *userService) verify(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: token has expired", ErrInvalidToken)
		}
		return nil, ErrInvalidToken
	}
	revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "IsRevoked")
	}
	if revoked {
		return nil, fmt.Errorf("%w: token has been revoked", ErrInvalidToken)
	}
	return claims, nil
}

func (s *userService) Authenticate(ctx context.Context, token string) (models.Actor, error) {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return models.Actor{}, err
	}
	actor, err := claims.Actor()
	if err != nil {
		return models.Actor{}, ErrInvalidToken
	}
	return actor, nil
}

func (s *userService) Logout(ctx context.Context, token string) error {
	claims, err := s.verify(ctx, token)
	if err != nil {
		return err
	}
	if err := s.revoker.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return mapRepoError(s.log, err, "Logout")
	}
	s.log.WithField("subject", claims.Subject).Info("token revoked")
	return nil
}

func (s *userService) Me(ctx context.Context, actor models.Actor) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: account no longer exists", ErrInvalidToken)
		}
		return nil, mapRepoError(s.log, err, "Me")
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, actor models.Actor, req *dto.UpdateProfileRequest) (*models.User, error) {
	user, err := s.store.Users().UpdateProfile(ctx, actor.UserID, models.ProfileUpdate{
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Phone:       req.Phone,
		ProfileData: req.ProfileData,
	})
	if err != nil {
		return nil, mapRepoError(s.log, err, "UpdateProfile")
	}
	return user, nil
}

func (s *userService) Reputation(ctx context.Context, userID int64) (*models.Reputation, error) {
	if _, err := s.store.Users().GetByID(ctx, userID); err != nil {
		return nil, mapRepoError(s.log, err, "Reputation")
	}
	rep, err := s.store.Ratings().Reputation(ctx, userID)
	if err != nil {
		return nil, mapRepoError(s.log, err, "Reputation")
	}
	return rep, nil
}
