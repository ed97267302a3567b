//go:build integration

package httpserver_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/vheckthor/bank-api/internal/domain"
	"github.com/vheckthor/bank-api/internal/integrationtest"
	"github.com/vheckthor/bank-api/internal/integrationtest/helpers"
	"github.com/vheckthor/bank-api/internal/middleware"
	"github.com/vheckthor/bank-api/pkg/tokenpkg"
	"github.com/vheckthor/bank-api/pkg/web"
)

func TestCreateAccountAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user := helpers.SeedUser(t, server.DB)

	tokenMaker, err := tokenpkg.NewPasetoMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := server.Config.AccessTokenDuration

	testCases := []struct {
		name           string
		requestBody    gin.H
		setupAuth      func(t *testing.T, r *http.Request) error
		wantStatusCode int
		wantType       string
		wantPrefix     string
		wantError      string
	}{
		{
			name:        "SavingsOK",
			requestBody: gin.H{"account_type": domain.AccountTypeSavings},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, user.Username, duration)
			},
			wantStatusCode: http.StatusCreated,
			wantType:       domain.AccountTypeSavings,
			wantPrefix:     "30",
		},
		{
			name:        "CurrentOK",
			requestBody: gin.H{"account_type": domain.AccountTypeCurrent},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, user.Username, duration)
			},
			wantStatusCode: http.StatusCreated,
			wantType:       domain.AccountTypeCurrent,
			wantPrefix:     "20",
		},
		{
			name:        "UnsupportedType",
			requestBody: gin.H{"account_type": "checking"},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return middleware.AddAuthorization(r, tokenMaker, authType, user.Username, duration)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "Type must be savings or current",
		},
		{
			name:        "NoAuthorization",
			requestBody: gin.H{"account_type": domain.AccountTypeSavings},
			setupAuth: func(t *testing.T, r *http.Request) error {
				return nil
			},
			wantStatusCode: http.StatusUnauthorized,
			wantError:      middleware.ErrAuthHeaderNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err = tc.setupAuth(t, req); err != nil {
				t.Fatalf("tc.setupAuth(t, %+v) returned error: %v", req, err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Account domain.Account `json:"account"`
				}{},
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf("res.Error=%q, want %q", res.Error, tc.wantError)
				}

				return
			}

			got, ok := res.Data.(*struct {
				Account domain.Account `json:"account"`
			})
			if !ok {
				t.Fatalf("res.Data=%#v, failed type conversion", res.Data)
			}

			if got.Account.Owner != user.Username {
				t.Errorf("got.Account.Owner=%v, want %v", got.Account.Owner, user.Username)
			}

			if got.Account.Type != tc.wantType {
				t.Errorf("got.Account.Type=%v, want %v", got.Account.Type, tc.wantType)
			}

			if got.Account.Balance != "0" {
				t.Errorf("got.Account.Balance=%v, want 0", got.Account.Balance)
			}

			if len(got.Account.Number) != 10 || !strings.HasPrefix(got.Account.Number, tc.wantPrefix) {
				t.Errorf("got.Account.Number=%v, want 10 digits with prefix %v",
					got.Account.Number, tc.wantPrefix)
			}
		})
	}
}

func TestGetAccountAPI(t *testing.T) {
	server := integrationtest.SetupServer(t)

	user1 := helpers.SeedUser(t, server.DB)
	user2 := helpers.SeedUser(t, server.DB)
	account := helpers.SeedAccount(t, server.DB, user1.Username)

	helpers.SeedTransactions(t, server.DB, account.ID, 3, "groceries at the market")

	tokenMaker, err := tokenpkg.NewPasetoMaker(server.Config.TokenSymmetricKey)
	if err != nil {
		t.Fatalf("tokenpkg.NewPasetoMaker(%v) returned error: %v", server.Config.TokenSymmetricKey, err)
	}

	authType := middleware.AuthTypeBearer
	duration := server.Config.AccessTokenDuration

	testCases := []struct {
		name           string
		username       string
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "OK",
			username:       user1.Username,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "AccountNotFound",
			username:       user2.Username,
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			url := fmt.Sprintf("/accounts/%s", account.Number)

			req, err := http.NewRequest(http.MethodGet, url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			if err := middleware.AddAuthorization(req, tokenMaker, authType, tc.username, duration); err != nil {
				t.Fatalf("middleware.AddAuthorization(req, ...) returned error: %v", err)
			}

			w := httptest.NewRecorder()
			server.ServeHTTP(w, req)

			if got := w.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			res := web.Response{
				Data: &struct {
					Account domain.AccountDetail `json:"account"`
				}{},
			}

			if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
				t.Errorf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf("res.Error=%q, want %q", res.Error, tc.wantError)
				}

				return
			}

			got, ok := res.Data.(*struct {
				Account domain.AccountDetail `json:"account"`
			})
			if !ok {
				t.Fatalf("res.Data=%#v, failed type conversion", res.Data)
			}

			if got.Account.Account.Number != account.Number {
				t.Errorf("got.Account.Account.Number=%v, want %v", got.Account.Account.Number, account.Number)
			}

			if got.Account.OwnerFullName != user1.FullName {
				t.Errorf("got.Account.OwnerFullName=%v, want %v", got.Account.OwnerFullName, user1.FullName)
			}

			if got.Account.TotalTransactions != 3 {
				t.Errorf("got.Account.TotalTransactions=%v, want 3", got.Account.TotalTransactions)
			}
		})
	}
}
