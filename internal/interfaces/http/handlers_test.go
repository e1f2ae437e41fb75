package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"horizon/internal/domain/account"
	"horizon/internal/domain/bank"
	"horizon/internal/domain/transaction"
	"horizon/internal/domain/user"
	"horizon/internal/shared/apperrors"
	"horizon/internal/shared/middleware"
)

func authed(r *http.Request, userID string) *http.Request {
	return r.WithContext(middleware.WithUserID(r.Context(), userID))
}

func TestHandleMe(t *testing.T) {
	h := NewUserHandler(&MockUserService{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleMe(w, authed(httptest.NewRequest(http.MethodGet, "/api/users/me", nil), "user-1"))
	require.Equal(t, http.StatusOK, w.Code)

	var u user.User
	require.NoError(t, json.NewDecoder(w.Body).Decode(&u))
	assert.Equal(t, "user-1", u.UserID)

	w = httptest.NewRecorder()
	h.HandleMe(w, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleListAccounts(t *testing.T) {
	var gotUser string
	h := NewAccountHandler(&MockAccountService{
		ListAccountsFunc: func(ctx context.Context, userID string) (*account.Summary, error) {
			gotUser = userID
			return &account.Summary{
				Data:                []account.Account{{ID: "acc-1"}},
				TotalBanks:          1,
				TotalCurrentBalance: decimal.RequireFromString("100.50"),
			}, nil
		},
	}, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleListAccounts(w, authed(httptest.NewRequest(http.MethodGet, "/api/accounts", nil), "user-1"))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", gotUser)

	var summary account.Summary
	require.NoError(t, json.NewDecoder(w.Body).Decode(&summary))
	assert.Equal(t, 1, summary.TotalBanks)
	assert.True(t, summary.TotalCurrentBalance.Equal(decimal.RequireFromString("100.5")))
}

func TestHandleListAccounts_Unauthenticated(t *testing.T) {
	h := NewAccountHandler(&MockAccountService{}, zap.NewNop())
	w := httptest.NewRecorder()

	h.HandleListAccounts(w, httptest.NewRequest(http.MethodGet, "/api/accounts", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandleGetAccount(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"found", nil, http.StatusOK},
		{"other user's bank", apperrors.Wrap(apperrors.ErrNotFound, "account.get", nil), http.StatusNotFound},
		{"no accounts", apperrors.Wrap(apperrors.ErrNoAccountsLinked, "account.fetch", nil), http.StatusUnprocessableEntity},
		{"sync incomplete", apperrors.Wrap(apperrors.ErrSyncIncomplete, "transactions.sync", nil), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBank string
			h := NewAccountHandler(&MockAccountService{
				GetAccountForUserFunc: func(ctx context.Context, userID, bankID string) (*account.Detail, error) {
					gotBank = bankID
					if tt.err != nil {
						return nil, tt.err
					}
					return &account.Detail{Data: &account.Account{ID: "acc-1"}}, nil
				},
			}, zap.NewNop())

			r := chi.NewRouter()
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
					next.ServeHTTP(w, authed(req, "user-1"))
				})
			})
			r.Get("/api/accounts/{id}", h.HandleGetAccount)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/accounts/bank-7", nil))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "bank-7", gotBank)
		})
	}
}

func TestHandleCreateLinkToken(t *testing.T) {
	var gotUser *user.User
	h := NewLinkHandler(&MockLinkService{
		CreateLinkTokenFunc: func(ctx context.Context, u *user.User) (string, error) {
			gotUser = u
			return "link-sandbox-xyz", nil
		},
	}, &MockUserService{}, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleCreateLinkToken(w, authed(httptest.NewRequest(http.MethodPost, "/api/link/token", nil), "user-1"))

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, gotUser)
	assert.Equal(t, "Ada Lovelace", gotUser.FullName())

	var resp LinkTokenResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "link-sandbox-xyz", resp.LinkToken)
}

func TestHandleCreateLinkToken_UnknownUser(t *testing.T) {
	links := &MockLinkService{
		CreateLinkTokenFunc: func(ctx context.Context, u *user.User) (string, error) {
			t.Fatal("link token created for unknown user")
			return "", nil
		},
	}
	users := &MockUserService{
		GetUserInfoFunc: func(ctx context.Context, userID string) (*user.User, error) {
			return nil, apperrors.Wrap(apperrors.ErrNotFound, "user.get", nil)
		},
	}
	h := NewLinkHandler(links, users, zap.NewNop())

	w := httptest.NewRecorder()
	h.HandleCreateLinkToken(w, authed(httptest.NewRequest(http.MethodPost, "/api/link/token", nil), "ghost"))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleExchange(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"linked", `{"publicToken":"public-sandbox-1"}`, nil, http.StatusCreated},
		{"malformed", `{"publicToken":`, nil, http.StatusBadRequest},
		{"no accounts", `{"publicToken":"p"}`, apperrors.Wrap(apperrors.ErrNoAccountsLinked, "link.accounts", nil), http.StatusUnprocessableEntity},
		{"funding source", `{"publicToken":"p"}`, apperrors.Wrap(apperrors.ErrFundingSourceCreationFailed, "link.funding_source", nil), http.StatusBadGateway},
		{"already linked", `{"publicToken":"p"}`, apperrors.Wrap(apperrors.ErrAlreadyExists, "link.bank", nil), http.StatusConflict},
		{"persist", `{"publicToken":"p"}`, errors.New("link.persist_bank: persistence failed"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotToken string
			h := NewLinkHandler(&MockLinkService{
				ExchangePublicTokenFunc: func(ctx context.Context, publicToken string, u *user.User) (*bank.Bank, error) {
					gotToken = publicToken
					if tt.err != nil {
						return nil, tt.err
					}
					return &bank.Bank{ID: "bank-1", UserID: u.UserID, ShareableID: "c2hhcmU="}, nil
				},
			}, &MockUserService{}, zap.NewNop())

			w := httptest.NewRecorder()
			h.HandleExchange(w, authed(httptest.NewRequest(http.MethodPost, "/api/link/exchange", strings.NewReader(tt.body)), "user-1"))

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusCreated {
				assert.Equal(t, "public-sandbox-1", gotToken)
				assert.NotContains(t, w.Body.String(), "accessToken")
			}
		})
	}
}

func TestHandleCreateTransfer(t *testing.T) {
	var gotSender string
	var gotParams transaction.TransferParams
	h := NewTransferHandler(&MockTransferService{
		CreateTransferFunc: func(ctx context.Context, senderUserID string, params transaction.TransferParams) (*transaction.Record, error) {
			gotSender, gotParams = senderUserID, params
			return &transaction.Record{ID: "tx-9", Amount: params.Amount}, nil
		},
	}, zap.NewNop())

	body := `{"sourceBankId":"bank-1","shareableId":"YWNjLTI=","email":"bob@example.com","amount":"25.10","name":"Rent"}`
	w := httptest.NewRecorder()
	h.HandleCreateTransfer(w, authed(httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(body)), "user-1"))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "user-1", gotSender)
	assert.Equal(t, "bank-1", gotParams.SourceBankID)
	assert.True(t, gotParams.Amount.Equal(decimal.RequireFromString("25.1")))

	var record transaction.Record
	require.NoError(t, json.NewDecoder(w.Body).Decode(&record))
	assert.Equal(t, "tx-9", record.ID)
}

func TestHandleCreateTransfer_Errors(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		err    error
		status int
	}{
		{"unauthenticated", "", nil, http.StatusUnauthorized},
		{"bad amount", "user-1", apperrors.Wrap(apperrors.ErrInvalidInput, "transfer.create", nil), http.StatusBadRequest},
		{"unknown receiver", "user-1", apperrors.Wrap(apperrors.ErrNotFound, "banks.get_by_account", nil), http.StatusNotFound},
		{"payments down", "user-1", apperrors.Wrap(apperrors.ErrRemoteFetchFailed, "transfer.create_remote", nil), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewTransferHandler(&MockTransferService{
				CreateTransferFunc: func(ctx context.Context, senderUserID string, params transaction.TransferParams) (*transaction.Record, error) {
					return nil, tt.err
				},
			}, zap.NewNop())

			req := httptest.NewRequest(http.MethodPost, "/api/transfers", strings.NewReader(`{"amount":"1"}`))
			if tt.userID != "" {
				req = authed(req, tt.userID)
			}
			w := httptest.NewRecorder()
			h.HandleCreateTransfer(w, req)

			assert.Equal(t, tt.status, w.Code)
		})
	}
}
