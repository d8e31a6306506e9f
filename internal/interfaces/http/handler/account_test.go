package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerapp "github.com/finbooks/backend/internal/application/ledger"
	"github.com/finbooks/backend/internal/domain/ledger"
	"github.com/finbooks/backend/internal/domain/shared"
	"github.com/finbooks/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Mock implementation of the account repository

type mockAccountRepository struct {
	accounts   map[uuid.UUID]*ledger.Account
	referenced map[uuid.UUID]bool
	returnErr  error
}

func newMockAccountRepository() *mockAccountRepository {
	return &mockAccountRepository{
		accounts:   make(map[uuid.UUID]*ledger.Account),
		referenced: make(map[uuid.UUID]bool),
	}
}

func (m *mockAccountRepository) Create(ctx context.Context, account *ledger.Account) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) Update(ctx context.Context, account *ledger.Account) error {
	if m.returnErr != nil {
		return m.returnErr
	}
	m.accounts[account.ID] = account
	return nil
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.Account, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	if account, ok := m.accounts[id]; ok {
		return account, nil
	}
	return nil, shared.ErrNotFound
}

func (m *mockAccountRepository) FindByCode(ctx context.Context, code string) (*ledger.Account, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	for _, account := range m.accounts {
		if account.Code == code {
			return account, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *mockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]ledger.Account, error) {
	if m.returnErr != nil {
		return nil, m.returnErr
	}
	result := make([]ledger.Account, 0, len(m.accounts))
	for _, account := range m.accounts {
		result = append(result, *account)
	}
	return result, nil
}

func (m *mockAccountRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.returnErr != nil {
		return false, m.returnErr
	}
	for _, account := range m.accounts {
		if account.Code == code {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountRepository) IsReferenced(ctx context.Context, id uuid.UUID) (bool, error) {
	if m.returnErr != nil {
		return false, m.returnErr
	}
	return m.referenced[id], nil
}

func (m *mockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	if m.returnErr != nil {
		return 0, m.returnErr
	}
	return int64(len(m.accounts)), nil
}

func newAccountTestRouter(repo ledger.AccountRepository) (*gin.Engine, *AccountHandler) {
	h := NewAccountHandler(ledgerapp.NewAccountService(repo))

	router := gin.New()
	router.POST("/accounts", h.Create)
	router.GET("/accounts", h.List)
	router.GET("/accounts/:id", h.GetByID)
	router.PUT("/accounts/:id", h.Update)
	return router, h
}

func TestAccountHandler_Create(t *testing.T) {
	repo := newMockAccountRepository()
	router, _ := newAccountTestRouter(repo)

	body := map[string]string{"code": "4000", "name": "Revenue"}
	payload, _ := json.Marshal(body)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/accounts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "4000", data["code"])
	assert.Equal(t, "Revenue", data["name"])
}

func TestAccountHandler_CreateDuplicateCode(t *testing.T) {
	repo := newMockAccountRepository()
	existing, err := ledger.NewAccount("4000", "Revenue")
	require.NoError(t, err)
	repo.accounts[existing.ID] = existing

	router, _ := newAccountTestRouter(repo)

	payload, _ := json.Marshal(map[string]string{"code": "4000", "name": "Other revenue"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/accounts", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, dto.ErrCodeConflict, resp.Error.Code)
}

func TestAccountHandler_CreateInvalidBody(t *testing.T) {
	repo := newMockAccountRepository()
	router, _ := newAccountTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/accounts", bytes.NewReader([]byte(`{"code":""}`)))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_GetByID(t *testing.T) {
	repo := newMockAccountRepository()
	account, err := ledger.NewAccount("1100", "Accounts receivable")
	require.NoError(t, err)
	repo.accounts[account.ID] = account

	router, _ := newAccountTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/accounts/"+account.ID.String(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "1100", data["code"])
}

func TestAccountHandler_GetByIDNotFound(t *testing.T) {
	repo := newMockAccountRepository()
	router, _ := newAccountTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/accounts/"+uuid.NewString(), nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAccountHandler_GetByIDInvalidID(t *testing.T) {
	repo := newMockAccountRepository()
	router, _ := newAccountTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/accounts/not-a-uuid", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAccountHandler_List(t *testing.T) {
	repo := newMockAccountRepository()
	for _, spec := range []struct{ code, name string }{
		{"1100", "Accounts receivable"},
		{"2100", "Accounts payable"},
		{"4000", "Revenue"},
	} {
		account, err := ledger.NewAccount(spec.code, spec.name)
		require.NoError(t, err)
		repo.accounts[account.ID] = account
	}

	router, _ := newAccountTestRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/accounts?page=1&page_size=10", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(3), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)
	assert.Equal(t, 10, resp.Meta.PageSize)
}

func TestAccountHandler_Update(t *testing.T) {
	repo := newMockAccountRepository()
	account, err := ledger.NewAccount("4000", "Revenue")
	require.NoError(t, err)
	repo.accounts[account.ID] = account

	router, _ := newAccountTestRouter(repo)

	payload, _ := json.Marshal(map[string]string{"name": "Operating revenue"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/accounts/"+account.ID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Operating revenue", data["name"])
}

func TestAccountHandler_UpdateReferencedAccount(t *testing.T) {
	repo := newMockAccountRepository()
	account, err := ledger.NewAccount("4000", "Revenue")
	require.NoError(t, err)
	repo.accounts[account.ID] = account
	repo.referenced[account.ID] = true

	router, _ := newAccountTestRouter(repo)

	payload, _ := json.Marshal(map[string]string{"name": "Renamed"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/accounts/"+account.ID.String(), bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
}
