package salesapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/salesdesk/config"
	"github.com/vendora/salesdesk/internal/auth"
	"github.com/vendora/salesdesk/internal/domain"
	"github.com/vendora/salesdesk/internal/reports"
	"github.com/vendora/salesdesk/internal/webserver"
)

type memSellerStore struct {
	byEmail map[string]*domain.Seller
}

func (s *memSellerStore) GetByID(_ context.Context, id int64) (*domain.Seller, error) {
	for _, seller := range s.byEmail {
		if seller.ID == id {
			clone := *seller
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *memSellerStore) GetByEmail(_ context.Context, email string) (*domain.Seller, error) {
	seller, ok := s.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *seller
	return &clone, nil
}

func (s *memSellerStore) Create(_ context.Context, seller *domain.Seller) error {
	clone := *seller
	s.byEmail[seller.Email] = &clone
	return nil
}

func (s *memSellerStore) TouchLastLogin(_ context.Context, _ int64, _ time.Time) error {
	return nil
}

type staticSpendStore struct {
	clients []reports.ClientSpend
	sellers []reports.SellerSpend
}

func (s *staticSpendStore) CompletedSpendByClient(_ context.Context) ([]reports.ClientSpend, error) {
	return s.clients, nil
}

func (s *staticSpendStore) CompletedSpendBySeller(_ context.Context) ([]reports.SellerSpend, error) {
	return s.sellers, nil
}

func setupAPI(t *testing.T, spend reports.SpendStore) *echo.Echo {
	t.Helper()

	cfg := new(config.AppConfig)
	*cfg = *config.DefaultAppConfig

	authSvc := auth.NewService(&memSellerStore{byEmail: map[string]*domain.Seller{}}, "test-secret", time.Hour)
	server := webserver.Init(cfg, nil, authSvc)
	Init(authSvc, nil, reports.NewService(spend))
	return server.Echo()
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthEndpoints(t *testing.T) {
	e := setupAPI(t, &staticSpendStore{})

	t.Run("health is public", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/health", "", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("register then login then me", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/register",
			`{"email":"ada@example.com","password":"hunter22","first_name":"Ada","last_name":"Lovelace"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = doJSON(e, http.MethodPost, "/api/v1/login",
			`{"email":"ada@example.com","password":"hunter22"}`, "")
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		token := body["data"].(map[string]interface{})["token"].(string)
		require.NotEmpty(t, token)

		rec = doJSON(e, http.MethodGet, "/api/v1/me", "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		body = decodeBody(t, rec)
		me := body["data"].(map[string]interface{})
		assert.Equal(t, "ada@example.com", me["email"])
		assert.Equal(t, "Ada", me["first_name"])
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/register",
			`{"email":"ada@example.com","password":"again"}`, "")
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Equal(t, "ALREADY_REGISTERED", decodeBody(t, rec)["code"])
	})

	t.Run("bad password is unauthorized", func(t *testing.T) {
		rec := doJSON(e, http.MethodPost, "/api/v1/login",
			`{"email":"ada@example.com","password":"wrong"}`, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_CREDENTIALS", decodeBody(t, rec)["code"])
	})

	t.Run("protected routes reject missing tokens before touching anything", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/me", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "INVALID_TOKEN", decodeBody(t, rec)["code"])
	})

	t.Run("protected routes reject garbage tokens", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/me", "", "not.a.token")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestReportEndpoints(t *testing.T) {
	spend := &staticSpendStore{
		clients: []reports.ClientSpend{
			{Client: domain.Client{ID: 1, FirstName: "Ada"}, Total: 150},
			{Client: domain.Client{ID: 2, FirstName: "Grace"}, Total: 90},
		},
		sellers: []reports.SellerSpend{
			{Seller: domain.Seller{ID: 10, FirstName: "Sam"}, Total: 240},
		},
	}
	e := setupAPI(t, spend)

	rec := doJSON(e, http.MethodPost, "/api/v1/register",
		`{"email":"sam@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/v1/login",
		`{"email":"sam@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	token := decodeBody(t, rec)["data"].(map[string]interface{})["token"].(string)

	t.Run("top clients requires auth", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/reports/top-clients", "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("top clients returns the ranked rows", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/reports/top-clients?limit=1", "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].([]interface{})
		require.Len(t, data, 1)
		row := data[0].(map[string]interface{})
		assert.Equal(t, 150.0, row["total"])
	})

	t.Run("top sellers returns the ranked rows", func(t *testing.T) {
		rec := doJSON(e, http.MethodGet, "/api/v1/reports/top-sellers", "", token)
		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeBody(t, rec)["data"].([]interface{})
		require.Len(t, data, 1)
	})
}
