package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"car_dealership/internal/middleware"
	"car_dealership/internal/model"
	"car_dealership/internal/service"
	"car_dealership/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router      *gin.Engine
	jwt         *utils.JWTUtil
	auth        *stubAuthService
	cars        *stubCarService
	messages    *stubMessageService
	favorites   *stubFavoriteService
	admin       *stubAdminService
	adminToken  string
	clientToken string
}

func newTestAPI(t *testing.T, opts ...func(*RouterConfig)) *testAPI {
	t.Helper()
	api := &testAPI{
		jwt:       utils.NewJWTUtil("handler-secret", time.Minute, time.Hour),
		auth:      &stubAuthService{},
		cars:      &stubCarService{},
		messages:  &stubMessageService{},
		favorites: &stubFavoriteService{},
		admin:     &stubAdminService{},
	}
	cfg := RouterConfig{
		JWT:       api.jwt,
		Auth:      api.auth,
		Cars:      api.cars,
		Messages:  api.messages,
		Favorites: api.favorites,
		Admin:     api.admin,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	api.router = NewRouter(cfg)

	var err error
	api.adminToken, err = api.jwt.GenerateAccessToken(1, model.RoleAdmin)
	require.NoError(t, err)
	api.clientToken, err = api.jwt.GenerateAccessToken(2, model.RoleClient)
	require.NoError(t, err)
	return api
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewReader([]byte(b))
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(raw)
		}
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	}
	return w, decoded
}

func sampleCar(id int64, brand string, price string) model.Car {
	return model.Car{
		ID: id, Brand: brand, Model: "Series", Year: 2020, Price: model.MustPrice(price),
		Images: []string{"front.jpg"}, Description: "well kept", FuelType: model.FuelDiesel,
		Transmission: model.TransmissionAutomatic, Color: "Grey", Available: true,
	}
}

func TestRegister_Created(t *testing.T) {
	api := newTestAPI(t)
	api.auth.result = &model.AuthResult{
		User:         &model.User{ID: 3, Username: "alice", Email: "alice@example.com", PasswordHash: "secret-hash", Role: model.RoleClient, Favorites: []int64{}},
		AccessToken:  "access",
		RefreshToken: "refresh",
	}

	w, body := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "alice@example.com",
		"password": "Sup3r-Secret!", "password_confirm": "Sup3r-Secret!",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "access", body["token"])
	assert.Equal(t, "refresh", body["refresh"])
	user := body["user"].(map[string]any)
	assert.Equal(t, "CLIENT", user["role"])
	assert.NotContains(t, w.Body.String(), "secret-hash")
	assert.NotContains(t, user, "password_hash")
}

func TestRegister_FieldErrors(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{"email": "not-an-email"})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "username")
	assert.Contains(t, errs, "email")
	assert.Contains(t, errs, "password")
	assert.Contains(t, errs, "password_confirm")
	assert.Empty(t, api.auth.registered)
}

func TestRegister_ServiceValidationError(t *testing.T) {
	api := newTestAPI(t)
	api.auth.err = &service.ValidationError{Fields: map[string]string{"password_confirm": "passwords do not match"}}

	w, body := api.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"username": "alice", "email": "alice@example.com",
		"password": "Sup3r-Secret!", "password_confirm": "other",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "passwords do not match", body["errors"].(map[string]any)["password_confirm"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.auth.err = service.ErrInvalidCredentials

	w, body := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.c", "password": "x"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, service.ErrInvalidCredentials.Error(), body["message"])
}

func TestLogin_RateLimited(t *testing.T) {
	store := middleware.NewLimiterStore(1, 1, time.Minute)
	defer store.Stop()
	api := newTestAPI(t, func(cfg *RouterConfig) { cfg.AuthLimiter = store })
	api.auth.err = service.ErrInvalidCredentials

	first, _ := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.c", "password": "x"})
	second, body := api.do(t, http.MethodPost, "/api/auth/login", "", gin.H{"email": "a@b.c", "password": "x"})

	assert.Equal(t, http.StatusUnauthorized, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, false, body["success"])
}

func TestLogin_RateLimitKeyedOnClientIP(t *testing.T) {
	login := func(api *testAPI, forwardedFor string) int {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"a@b.c","password":"x"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", forwardedFor)
		w := httptest.NewRecorder()
		api.router.ServeHTTP(w, req)
		return w.Code
	}

	t.Run("forwarded header ignored without trusted proxies", func(t *testing.T) {
		store := middleware.NewLimiterStore(1, 1, time.Minute)
		defer store.Stop()
		api := newTestAPI(t, func(cfg *RouterConfig) { cfg.AuthLimiter = store })
		api.auth.err = service.ErrInvalidCredentials

		assert.Equal(t, http.StatusUnauthorized, login(api, "203.0.113.1"))
		assert.Equal(t, http.StatusTooManyRequests, login(api, "203.0.113.2"))
	})

	t.Run("forwarded header honored from a trusted proxy", func(t *testing.T) {
		store := middleware.NewLimiterStore(1, 1, time.Minute)
		defer store.Stop()
		api := newTestAPI(t, func(cfg *RouterConfig) {
			cfg.AuthLimiter = store
			cfg.TrustedProxies = []string{"192.0.2.1"}
		})
		api.auth.err = service.ErrInvalidCredentials

		assert.Equal(t, http.StatusUnauthorized, login(api, "203.0.113.1"))
		assert.Equal(t, http.StatusUnauthorized, login(api, "203.0.113.2"))
		assert.Equal(t, http.StatusTooManyRequests, login(api, "203.0.113.1"))
	})
}

func TestMe_RequiresToken(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, body["success"])

	w, body = api.do(t, http.MethodGet, "/api/auth/me", api.clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["user"].(map[string]any)["id"])
}

func TestListCars_FiltersAndAliases(t *testing.T) {
	api := newTestAPI(t)
	api.cars.cars = []model.Car{sampleCar(2, "BMW", "41000"), sampleCar(1, "BMW", "25000")}

	w, body := api.do(t, http.MethodGet, "/api/cars?marque=BMW&annee=2020&minPrice=20000&maxPrice=50000.5&search=x&sort=price-desc", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	f := api.cars.lastFilters
	require.NotNil(t, f.Brand)
	assert.Equal(t, "BMW", *f.Brand)
	require.NotNil(t, f.Year)
	assert.Equal(t, 2020, *f.Year)
	assert.Equal(t, "20000", f.MinPrice.String())
	assert.Equal(t, "50000.5", f.MaxPrice.String())
	assert.Equal(t, "x", *f.Search)
	assert.Equal(t, model.SortPriceDesc, f.Sort)

	assert.Equal(t, float64(2), body["count"])
	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, "41000.00", first["price"])
	assert.NotContains(t, first, "description", "list entries use the summary representation")
}

func TestListCars_EnglishNamesWin(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodGet, "/api/cars?brand=Audi&marque=BMW&sort=unknown", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Audi", *api.cars.lastFilters.Brand)
	assert.Equal(t, model.SortNewest, api.cars.lastFilters.Sort)
}

func TestListCars_InvalidQuery(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodGet, "/api/cars?year=twenty&minPrice=cheap", "", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "year")
	assert.Contains(t, errs, "minPrice")
}

func TestListCars_InternalErrorIsGeneric(t *testing.T) {
	api := newTestAPI(t)
	api.cars.err = errors.New("pq: connection reset by peer")

	w, body := api.do(t, http.MethodGet, "/api/cars", "", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to retrieve cars", body["message"])
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestGetCar(t *testing.T) {
	api := newTestAPI(t)
	api.cars.cars = []model.Car{sampleCar(5, "Tesla", "39990.9")}

	w, body := api.do(t, http.MethodGet, "/api/cars/5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	car := body["data"].(map[string]any)
	assert.Equal(t, "39990.90", car["price"])
	assert.Equal(t, "well kept", car["description"])

	w, body = api.do(t, http.MethodGet, "/api/cars/6", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])

	w, _ = api.do(t, http.MethodGet, "/api/cars/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCar_Authorization(t *testing.T) {
	api := newTestAPI(t)
	payload := gin.H{"brand": "Peugeot", "model": "3008", "year": 2022, "price": "31500.00", "description": "SUV"}

	w, _ := api.do(t, http.MethodPost, "/api/cars", "", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := api.do(t, http.MethodPost, "/api/cars", api.clientToken, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, api.cars.created)

	w, body = api.do(t, http.MethodPost, "/api/cars", api.adminToken, payload)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "31500.00", body["data"].(map[string]any)["price"])
	require.Len(t, api.cars.created, 1)
	assert.Equal(t, "31500", api.cars.created[0].Price.String())
}

func TestCreateCar_Validation(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodPost, "/api/cars", api.adminToken, gin.H{
		"brand": "Peugeot", "model": "3008", "year": 2022, "price": 31500,
		"description": "SUV", "fuel_type": "Steam", "mileage": -5,
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := body["errors"].(map[string]any)
	assert.Contains(t, errs, "fuel_type")
	assert.Contains(t, errs, "mileage")
	assert.Empty(t, api.cars.created)
}

func TestCreateCar_MalformedBody(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodPost, "/api/cars", api.adminToken, `{"brand": "Peugeot", "year": "soon"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Empty(t, api.cars.created)
}

func TestMessages_PublicCreate(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(t, http.MethodPost, "/api/messages", "", gin.H{
		"name": "Paul", "email": "paul@example.com", "message": "Hello", "car_id": 5,
	})

	require.Equal(t, http.StatusCreated, w.Code)
	m := body["data"].(map[string]any)
	assert.Equal(t, "Hello", m["message"])
	assert.Equal(t, float64(5), m["car_id"])
	assert.Equal(t, false, m["read"])
}

func TestMessages_ListVisibility(t *testing.T) {
	api := newTestAPI(t)
	api.messages.messages = []model.Message{{ID: 1, Name: "Paul"}}

	w, body := api.do(t, http.MethodGet, "/api/messages", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Equal(t, []any{}, body["data"])

	w, body = api.do(t, http.MethodGet, "/api/messages", api.clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["count"])

	w, body = api.do(t, http.MethodGet, "/api/messages", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["count"])

	w, _ = api.do(t, http.MethodGet, "/api/messages", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMessages_MarkReadRequiresAdmin(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPut, "/api/messages/3/mark_read", api.clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := api.do(t, http.MethodPut, "/api/messages/3/mark_read", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["data"].(map[string]any)["read"])
}

func TestFavorites_AddByPathAndBody(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPost, "/api/favorites/7", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := api.do(t, http.MethodPost, "/api/favorites/7", api.clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	w, _ = api.do(t, http.MethodPost, "/api/favorites", api.clientToken, gin.H{"car_id": 9})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []int64{7, 9}, api.favorites.added)

	w, body = api.do(t, http.MethodGet, "/api/favorites/check/9", api.clientToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["is_favorite"])
}

func TestFavorites_BadInput(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPost, "/api/favorites/abc", api.clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := api.do(t, http.MethodPost, "/api/favorites", api.clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Car ID is required", body["message"])
	assert.Empty(t, api.favorites.added)
}

func TestFavorites_Duplicate(t *testing.T) {
	api := newTestAPI(t)
	api.favorites.err = service.ErrAlreadyFavorite

	w, body := api.do(t, http.MethodPost, "/api/favorites/7", api.clientToken, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrAlreadyFavorite.Error(), body["message"])
}

func TestAdmin_Routes(t *testing.T) {
	api := newTestAPI(t)
	api.admin.stats = &model.AdminStats{TotalCars: 4, TotalMessages: 3, UnreadMessages: 1, TotalUsers: 9}

	w, _ := api.do(t, http.MethodGet, "/api/admin/stats", api.clientToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body := api.do(t, http.MethodGet, "/api/admin/stats", api.adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(4), stats["total_cars"])
	assert.Equal(t, float64(1), stats["unread_messages"])

	api.admin.err = service.ErrCannotDeleteAdmin
	w, body = api.do(t, http.MethodDelete, "/api/admin/users/1", api.adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrCannotDeleteAdmin.Error(), body["message"])
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	w, body := api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	down := newTestAPI(t, func(cfg *RouterConfig) { cfg.DB = stubPinger{err: errors.New("down")} })
	w, _ = down.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	api := newTestAPI(t, func(cfg *RouterConfig) { cfg.AllowedOrigins = []string{"http://localhost:3000"} })

	req := httptest.NewRequest(http.MethodOptions, "/api/cars", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
