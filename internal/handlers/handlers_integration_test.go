package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"loja/internal/handlers"
	"loja/internal/middleware"
	"loja/internal/models"
	"loja/internal/repositories"
	"loja/internal/services"
	"loja/pkg/payment"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubGateway hands VerifyEvent a canned result so webhook tests do not
// need real signatures.
type stubGateway struct {
	event *payment.Event
	err   error
}

func (g *stubGateway) CreateSession(ctx context.Context, req payment.SessionRequest) (*payment.Session, error) {
	return &payment.Session{ID: "cs_test", URL: "https://pay.example.com/cs_test"}, nil
}

func (g *stubGateway) VerifyEvent(payload []byte, sigHeader string) (*payment.Event, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.event, nil
}

// stubMailer records sends instead of talking to SMTP.
type stubMailer struct {
	sent []string
}

func (m *stubMailer) Send(to, subject, html string) error {
	m.sent = append(m.sent, to)
	return nil
}

type testEnv struct {
	app     *fiber.App
	db      *gorm.DB
	auth    *services.AuthService
	gateway *stubGateway
	mail    *stubMailer
}

// setupApp builds the full route surface on an in-memory SQLite
// database, with the payment gateway and mailer stubbed out.
func setupApp(t *testing.T) *testEnv {
	t.Helper()

	// A named shared-cache DSN keeps every pooled connection on the
	// same in-memory database while isolating tests from each other.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Category{},
		&models.Order{},
		&models.TransactionLog{},
		&models.Collection{},
		&models.Banner{},
		&models.AdSlot{},
	))

	userRepo := repositories.NewGORMUserRepository(db)
	productRepo := repositories.NewGORMProductRepository(db)
	categoryRepo := repositories.NewGORMCategoryRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)
	ledgerRepo := repositories.NewGORMTransactionLogRepository(db)
	collectionRepo := repositories.NewGORMCollectionRepository(db)
	bannerRepo := repositories.NewGORMBannerRepository(db)
	adSlotRepo := repositories.NewGORMAdSlotRepository(db)

	gateway := &stubGateway{}
	mail := &stubMailer{}
	frontendURL := "http://localhost:5173"

	authService := services.NewAuthService(userRepo, "test_jwt_secret", mail, frontendURL)
	oauthService := services.NewOAuthService(userRepo, authService, services.OAuthConfig{})
	productService := services.NewProductService(productRepo, categoryRepo)
	checkoutService := services.NewCheckoutService(gateway, frontendURL)
	fulfillmentService := services.NewFulfillmentService(gateway, productRepo, orderRepo, ledgerRepo, mail, nil)
	orderService := services.NewOrderService(orderRepo, productRepo)
	accountService := services.NewAccountService(userRepo, productRepo)
	collectionService := services.NewCollectionService(collectionRepo, productRepo)
	bannerService := services.NewBannerService(bannerRepo)
	adSlotService := services.NewAdSlotService(adSlotRepo)
	ledgerService := services.NewLedgerService(ledgerRepo)

	authRequired := middleware.AuthRequired(authService)
	adminRequired := middleware.AdminRequired()

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, oauthService, authRequired, frontendURL).RegisterRoutes(api)
	handlers.NewProductHandler(productService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewCheckoutHandler(checkoutService, fulfillmentService).RegisterRoutes(api)
	handlers.NewOrderHandler(orderService, authRequired).RegisterRoutes(api)
	handlers.NewAccountHandler(accountService, orderService, authRequired).RegisterRoutes(api)
	handlers.NewCollectionHandler(collectionService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewBannerHandler(bannerService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewAdSlotHandler(adSlotService, authRequired, adminRequired).RegisterRoutes(api)
	handlers.NewLedgerHandler(ledgerService, authRequired, adminRequired).RegisterRoutes(api)

	return &testEnv{app: app, db: db, auth: authService, gateway: gateway, mail: mail}
}

// createUser inserts an account directly and returns a valid token.
func (e *testEnv) createUser(t *testing.T, email string, admin bool) (*models.User, string) {
	t.Helper()
	user := &models.User{Email: email, Password: "$2a$10$stub.hash.not.used.here.aaaaaaaaaaaaaaaaaaaaaaaaaaaaa", IsAdmin: admin}
	require.NoError(t, repositories.NewGORMUserRepository(e.db).Create(user))
	token, err := e.auth.GenerateToken(user)
	require.NoError(t, err)
	return user, token
}

func jsonRequest(method, target string, body any, token string) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestRegisterLoginProfile(t *testing.T) {
	env := setupApp(t)

	// Register.
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "user@example.com", "password": "secret123"}, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate registration conflicts.
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/register",
		fiber.Map{"email": "user@example.com", "password": "secret123"}, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	// Login.
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/auth/login",
		fiber.Map{"email": "user@example.com", "password": "secret123"}, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	require.NotEmpty(t, loginBody.Token)

	// Profile requires the token.
	resp, err = env.app.Test(jsonRequest(http.MethodGet, "/api/auth/profile", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = env.app.Test(jsonRequest(http.MethodGet, "/api/auth/profile", nil, loginBody.Token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var profile struct {
		User            models.User `json:"user"`
		LinkedProviders []string    `json:"linkedProviders"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&profile))
	assert.Equal(t, "user@example.com", profile.User.Email)
	assert.Equal(t, []string{"email"}, profile.LinkedProviders)
}

func TestProductRoutes_AdminGate(t *testing.T) {
	env := setupApp(t)
	_, userToken := env.createUser(t, "user@example.com", false)
	_, adminToken := env.createUser(t, "admin@example.com", true)

	// Admin creates a category and a product.
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/categories",
		fiber.Map{"name": "Icons"}, adminToken))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var category models.Category
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&category))

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/products", fiber.Map{
		"productName": "Icon Pack",
		"price":       19.9,
		"category":    category.ID,
		"downloadUrl": "/uploads/icons.zip",
	}, adminToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	// A non-admin cannot.
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/products", fiber.Map{
		"productName": "Nope",
	}, userToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The catalog itself is public.
	resp, err = env.app.Test(jsonRequest(http.MethodGet, "/api/products", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	assert.Len(t, products, 1)

	// A product without a category is rejected.
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/products", fiber.Map{
		"productName": "Orphan",
		"downloadUrl": "/uploads/x.zip",
	}, adminToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebhook_SignatureGate(t *testing.T) {
	env := setupApp(t)

	// A bad signature is the one hard rejection.
	env.gateway.err = payment.ErrSignature
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook", bytes.NewBufferString("payload"))
	req.Header.Set("Stripe-Signature", "bad")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var orderCount int64
	env.db.Model(&models.Order{}).Count(&orderCount)
	assert.Zero(t, orderCount)
}

func TestCheckoutRoutePaths(t *testing.T) {
	env := setupApp(t)

	// Both checkout endpoints live under /api/checkout; an empty cart
	// reaching the handler is a 400, an unknown path a 404.
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/checkout/create-checkout-session",
		fiber.Map{"items": []fiber.Map{}}, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/create-checkout-session", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/webhook", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebhook_FulfillsOrder(t *testing.T) {
	env := setupApp(t)

	product := &models.Product{ProductName: "Icon Pack", Price: 19.9, DownloadURL: "/uploads/icons.zip"}
	require.NoError(t, repositories.NewGORMProductRepository(env.db).Create(product))

	env.gateway.event = &payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Session: payment.CheckoutSession{
			ID:            "cs_1",
			AmountTotal:   1990,
			Currency:      "brl",
			CustomerEmail: "buyer@example.com",
			Metadata: map[string]string{
				services.CartMetadataKey: fmt.Sprintf(`[{"id":%q,"quantity":1}]`, product.ID),
			},
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/checkout/webhook", bytes.NewBufferString("payload"))
	req.Header.Set("Stripe-Signature", "good")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// One order, one PAYMENT ledger entry, one email.
	var orders []models.Order
	env.db.Find(&orders)
	require.Len(t, orders, 1)
	assert.Equal(t, "buyer@example.com", orders[0].UserEmail)
	assert.Equal(t, 19.9, orders[0].TotalPrice)
	assert.True(t, orders[0].IsPaid)

	var entries []models.TransactionLog
	env.db.Find(&entries)
	require.Len(t, entries, 1)
	assert.Equal(t, models.TxPayment, entries[0].Type)
	assert.Equal(t, orders[0].ID, entries[0].OrderID)

	assert.Equal(t, []string{"buyer@example.com"}, env.mail.sent)
}

func TestLedger_UpdateVerbsRejected(t *testing.T) {
	env := setupApp(t)
	_, adminToken := env.createUser(t, "admin@example.com", true)

	for _, method := range []string{http.MethodPut, http.MethodPatch, http.MethodDelete} {
		resp, err := env.app.Test(jsonRequest(method, "/api/transaction-logs/t1",
			fiber.Map{"amount": 1}, adminToken))
		require.NoError(t, err)
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode, method)
	}

	// And the whole surface is admin only.
	_, userToken := env.createUser(t, "user@example.com", false)
	resp, err := env.app.Test(jsonRequest(http.MethodGet, "/api/transaction-logs", nil, userToken))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWishlistRoutes(t *testing.T) {
	env := setupApp(t)
	_, token := env.createUser(t, "user@example.com", false)

	product := &models.Product{ProductName: "Icon Pack", Price: 19.9, DownloadURL: "/uploads/icons.zip"}
	require.NoError(t, repositories.NewGORMProductRepository(env.db).Create(product))

	// Add.
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/wishlist/"+product.ID, nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Adding twice is rejected.
	resp, err = env.app.Test(jsonRequest(http.MethodPost, "/api/wishlist/"+product.ID, nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Listed populated.
	resp, err = env.app.Test(jsonRequest(http.MethodGet, "/api/wishlist", nil, token))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)

	// Remove.
	resp, err = env.app.Test(jsonRequest(http.MethodDelete, "/api/wishlist/"+product.ID, nil, token))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSocialProvidersEmptyWithoutCredentials(t *testing.T) {
	env := setupApp(t)

	resp, err := env.app.Test(jsonRequest(http.MethodGet, "/api/auth/providers", nil, ""))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Providers []string `json:"providers"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Empty(t, body.Providers)

	// Redirecting to an unconfigured provider is a 404, not a broken
	// redirect.
	resp, err = env.app.Test(jsonRequest(http.MethodGet, "/api/auth/google", nil, ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestOAuthStateGate(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}))

	userRepo := repositories.NewGORMUserRepository(db)
	frontendURL := "http://localhost:5173"
	authService := services.NewAuthService(userRepo, "test_jwt_secret", &stubMailer{}, frontendURL)
	oauthService := services.NewOAuthService(userRepo, authService, services.OAuthConfig{
		Google:      services.OAuthProviderConfig{ClientID: "cid", ClientSecret: "secret"},
		CallbackURL: frontendURL + "/api/auth",
	})

	app := fiber.New()
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, oauthService, middleware.AuthRequired(authService), frontendURL).RegisterRoutes(api)

	// The consent redirect carries a fresh random state and pins the
	// same value in a cookie.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/google", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	assert.NotEmpty(t, state)

	var stateCookie *http.Cookie
	for _, ck := range resp.Cookies() {
		if ck.Name == "oauth_state" {
			stateCookie = ck
		}
	}
	require.NotNil(t, stateCookie)
	assert.Equal(t, state, stateCookie.Value)

	// A callback whose state does not match the cookie is turned away
	// before any code exchange.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc&state=forged", nil)
	req.AddCookie(stateCookie)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, frontendURL+"/login?error=social_login_failed", resp.Header.Get("Location"))

	// So is a callback with no state at all.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/google/callback?code=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, frontendURL+"/login?error=social_login_failed", resp.Header.Get("Location"))
}
