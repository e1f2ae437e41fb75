package docstore

import (
	"context"
	"fmt"

	"horizon/internal/domain/document"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperrors"
)

type userDoc struct {
	ID                string `mapstructure:"$id"`
	UserID            string `mapstructure:"userId"`
	Email             string `mapstructure:"email"`
	FirstName         string `mapstructure:"firstName"`
	LastName          string `mapstructure:"lastName"`
	Address1          string `mapstructure:"address1"`
	City              string `mapstructure:"city"`
	State             string `mapstructure:"state"`
	PostalCode        string `mapstructure:"postalCode"`
	DateOfBirth       string `mapstructure:"dateOfBirth"`
	DwollaCustomerID  string `mapstructure:"dwollaCustomerId"`
	DwollaCustomerURL string `mapstructure:"dwollaCustomerUrl"`
	PasswordHash      string `mapstructure:"passwordHash"`
}

type UserRepository struct {
	store      document.Store
	collection string
}

var _ user.Repository = (*UserRepository)(nil)

func NewUserRepository(store document.Store, collection string) *UserRepository {
	return &UserRepository{store: store, collection: collection}
}

// Create stores the user under its user id.
func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams) (*user.User, error) {
	fields, err := document.Encode(userDoc{
		UserID:            params.UserID,
		Email:             params.Email,
		FirstName:         params.FirstName,
		LastName:          params.LastName,
		Address1:          params.Address1,
		City:              params.City,
		State:             params.State,
		PostalCode:        params.PostalCode,
		DateOfBirth:       params.DateOfBirth,
		DwollaCustomerID:  params.DwollaCustomerID,
		DwollaCustomerURL: params.DwollaCustomerURL,
		PasswordHash:      params.PasswordHash,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "users.create", err)
	}

	doc, err := r.store.Create(ctx, r.collection, params.UserID, fields)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrPersistenceFailed, "users.create", err)
	}
	return toUser(doc)
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*user.User, error) {
	return r.first(ctx, "users.get", document.Eq("userId", userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.first(ctx, "users.get_by_email", document.Eq("email", email))
}

func (r *UserRepository) first(ctx context.Context, op string, filter document.Filter) (*user.User, error) {
	docs, err := r.store.List(ctx, r.collection, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(docs) == 0 {
		return nil, apperrors.Wrap(apperrors.ErrNotFound, op, nil)
	}
	return toUser(docs[0])
}

func toUser(doc *document.Document) (*user.User, error) {
	var d userDoc
	if err := doc.Decode(&d); err != nil {
		return nil, err
	}
	return &user.User{
		ID:                d.ID,
		UserID:            d.UserID,
		Email:             d.Email,
		FirstName:         d.FirstName,
		LastName:          d.LastName,
		Address1:          d.Address1,
		City:              d.City,
		State:             d.State,
		PostalCode:        d.PostalCode,
		DateOfBirth:       d.DateOfBirth,
		DwollaCustomerID:  d.DwollaCustomerID,
		DwollaCustomerURL: d.DwollaCustomerURL,
		PasswordHash:      d.PasswordHash,
		CreatedAt:         doc.CreatedAt,
	}, nil
}
