package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"horizon/internal/infrastructure/dwolla"
	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/auth"
)

// Service contains the business logic for user accounts
type Service struct {
	repo     Repository
	payments dwolla.ClientInterface
	logger   *zap.Logger
}

func NewService(repo Repository, payments dwolla.ClientInterface, logger *zap.Logger) *Service {
	return &Service{repo: repo, payments: payments, logger: logger}
}

// SignUp registers a user and their payments customer. A customer created at
// the processor is not removed if the local write then fails; the orphan is
// logged.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, error) {
	params.Email = strings.ToLower(strings.TrimSpace(params.Email))
	if err := params.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "user.sign_up", err)
	}
	if err := auth.ValidatePassword(params.Password); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "user.sign_up", err)
	}

	existing, err := s.repo.GetByEmail(ctx, params.Email)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Wrap(apperrors.ErrAlreadyExists, "user.sign_up", errors.New("email already registered"))
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	customerURL, err := s.payments.CreateCustomer(ctx, dwolla.NewCustomer{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        "personal",
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "user.create_customer", err)
	}

	created, err := s.repo.Create(ctx, CreateUserParams{
		UserID:            uuid.NewString(),
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address1:          params.Address1,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       params.DateOfBirth,
		DwollaCustomerID:  dwolla.ExtractCustomerID(customerURL),
		DwollaCustomerURL: customerURL,
		PasswordHash:      hash,
	})
	if err != nil {
		s.logger.Warn("payments customer orphaned after failed user write",
			zap.String("email", params.Email),
			zap.String("customer_url", customerURL),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Info("user signed up", zap.String("user_id", created.UserID))
	return created, nil
}

// SignIn verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *Service) SignIn(ctx context.Context, params SignInParams) (*User, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "user.sign_in", nil)
		}
		return nil, err
	}

	if err := auth.VerifyPassword(u.PasswordHash, params.Password); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "user.sign_in", nil)
	}
	return u, nil
}

func (s *Service) GetUserInfo(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "user.get", errors.New("user ID is required"))
	}
	return s.repo.GetByUserID(ctx, userID)
}
