package e2e

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/shopd-dev/shopd/internal/cli/client"
	"github.com/shopd-dev/shopd/internal/cli/session"
	"github.com/shopd-dev/shopd/internal/config"
	"github.com/shopd-dev/shopd/internal/server"
)

const seedYAML = `
users:
  - email: admin@shopd.test
    name: Admin
    password: testpass123
    admin: true
  - email: clerk@shopd.test
    name: Clerk
    password: testpass123
    admin: false

brands:
  - name: Acme
    slug: acme

categories:
  - name: Electronics
    slug: electronics
  - name: Phones
    slug: phones
    parent: electronics

products:
  - name: Acme Phone X
    slug: acme-phone-x
    brand: acme
    category: phones
    price: 499.99
    stock: 20

coupons:
  - code: WELCOME10
    kind: percent
    value: 10

banners:
  - title: Summer Sale
    image_url: https://cdn.shopd.test/banners/summer.png
    position: 1

orders:
  - number: SO-1001
    customer: Jamie Doe
    email: jamie@example.com
    status: pending
    items:
      - product: acme-phone-x
        quantity: 2
`

// startSandbox boots the sandbox API server on a random port with a seeded
// sqlite database and returns its base URL.
func startSandbox(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("SHOPD_UPLOAD_DIR", filepath.Join(dir, "uploads"))

	cfg := &config.Config{}
	cfg.HTTP.Addr = ":0"
	cfg.Database.URL = filepath.Join(dir, "shopd.sqlite")
	cfg.Auth.JWTSecret = "e2e-test-secret"

	srv, err := server.New(cfg, zerolog.Nop(), "test")
	require.NoError(t, err)

	seedPath := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedYAML), 0o644))
	require.NoError(t, srv.Seed(seedPath))

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	return ts.URL
}

func newSDKClient(t *testing.T, baseURL string) *client.Client {
	t.Helper()
	sess := session.New(session.NewMemoryStore(), zerolog.Nop())
	return client.New(baseURL, sess, zerolog.Nop())
}

func TestBackOfficeFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping E2E test in short mode")
	}

	baseURL := startSandbox(t)
	apiClient := newSDKClient(t, baseURL)
	ctx := context.Background()

	t.Run("Login", func(t *testing.T) {
		resp, err := apiClient.Login(ctx, "admin@shopd.test", "testpass123")
		require.NoError(t, err)
		require.NotEmpty(t, resp.AccessToken)
		require.NotEmpty(t, resp.RefreshToken)
		require.True(t, resp.User.IsAdmin)

		require.True(t, apiClient.Session().IsAuthenticated())

		me, err := apiClient.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "admin@shopd.test", me.Email)
	})

	t.Run("BadCredentials", func(t *testing.T) {
		other := newSDKClient(t, baseURL)
		_, err := other.Login(ctx, "admin@shopd.test", "wrong")
		require.Error(t, err)

		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	var brandID, categoryID, productID string

	t.Run("Catalog", func(t *testing.T) {
		_, err := apiClient.FetchCSRFToken(ctx)
		require.NoError(t, err)

		brand, err := apiClient.CreateBrand(ctx, client.BrandInput{Name: "Globex", Slug: "globex"})
		require.NoError(t, err)
		brandID = brand.ID

		// Duplicate slugs conflict
		_, err = apiClient.CreateBrand(ctx, client.BrandInput{Name: "Globex Again", Slug: "globex"})
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusConflict, apiErr.Status)

		category, err := apiClient.CreateCategory(ctx, client.CategoryInput{Name: "Tablets", Slug: "tablets"})
		require.NoError(t, err)
		categoryID = category.ID

		spec, err := apiClient.CreateSpecification(ctx, client.SpecificationInput{
			CategoryID: categoryID,
			Name:       "Screen size",
			Unit:       "inch",
		})
		require.NoError(t, err)

		specs, err := apiClient.ListSpecifications(ctx, categoryID)
		require.NoError(t, err)
		require.Len(t, specs, 1)
		require.Equal(t, spec.ID, specs[0].ID)

		product, err := apiClient.CreateProduct(ctx, client.ProductInput{
			Name:       "Globex Tab",
			Slug:       "globex-tab",
			BrandID:    brandID,
			CategoryID: categoryID,
			Price:      299.50,
		})
		require.NoError(t, err)
		productID = product.ID

		// The server serializes money as a string; the SDK coerces it back
		require.InDelta(t, 299.50, product.Price.Float64(), 0.001)
		require.NotNil(t, product.Inventory)
		require.Equal(t, 0, int(product.Inventory.Stock.Float64()))

		listed, err := apiClient.ListProducts(ctx, client.ProductFilter{BrandID: brandID})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		require.Equal(t, productID, listed[0].ID)
	})

	t.Run("Inventory", func(t *testing.T) {
		inv, err := apiClient.Restock(ctx, productID, 50, "initial stock")
		require.NoError(t, err)
		require.Equal(t, 50, int(inv.Stock.Float64()))
		require.Equal(t, 50, int(inv.Available.Float64()))
		require.False(t, inv.LowStock)

		inv, err = apiClient.AdjustInventory(ctx, productID, -45, "recount")
		require.NoError(t, err)
		require.Equal(t, 5, int(inv.Stock.Float64()))
		require.True(t, inv.LowStock)

		// Adjustments cannot take stock negative
		_, err = apiClient.AdjustInventory(ctx, productID, -100, "impossible")
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)

		moves, err := apiClient.ListInventoryMovements(ctx, productID)
		require.NoError(t, err)
		require.Len(t, moves, 2)
	})

	t.Run("Orders", func(t *testing.T) {
		orders, err := apiClient.ListOrders(ctx, "pending")
		require.NoError(t, err)
		require.Len(t, orders, 1)
		require.Equal(t, "SO-1001", orders[0].Number)
		require.InDelta(t, 999.98, orders[0].Total.Float64(), 0.001)

		orderID := orders[0].ID

		updated, err := apiClient.UpdateOrderStatus(ctx, orderID, "confirmed", "payment checked")
		require.NoError(t, err)
		require.Equal(t, "confirmed", updated.Status)
		require.Len(t, updated.Events, 2)

		// Skipping straight to delivered is not allowed
		_, err = apiClient.UpdateOrderStatus(ctx, orderID, "delivered", "")
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnprocessableEntity, apiErr.Status)
		require.Equal(t, "Validation error", apiErr.Message)

		_, err = apiClient.UpdateOrderStatus(ctx, orderID, "shipped", "")
		require.NoError(t, err)
		updated, err = apiClient.UpdateOrderStatus(ctx, orderID, "delivered", "left at door")
		require.NoError(t, err)
		require.Equal(t, "delivered", updated.Status)

		// Delivery consumed the 2 reserved units from the seeded 20
		var phone *client.Product
		products, err := apiClient.ListProducts(ctx, client.ProductFilter{Search: "Acme Phone"})
		require.NoError(t, err)
		require.Len(t, products, 1)
		phone = &products[0]
		require.NotNil(t, phone.Inventory)
		require.Equal(t, 18, int(phone.Inventory.Stock.Float64()))
		require.Equal(t, 0, int(phone.Inventory.Reserved.Float64()))
	})

	t.Run("Promotions", func(t *testing.T) {
		coupon, err := apiClient.CreateCoupon(ctx, client.CouponInput{
			Code:  "SPRING20",
			Kind:  "percent",
			Value: 20,
		})
		require.NoError(t, err)
		require.InDelta(t, 20, coupon.Value.Float64(), 0.001)

		_, err = apiClient.CreateCoupon(ctx, client.CouponInput{Code: "SPRING20", Kind: "fixed", Value: 5})
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusConflict, apiErr.Status)

		starts := time.Now().Add(time.Hour).UTC().Format(time.RFC3339)
		ends := time.Now().Add(48 * time.Hour).UTC().Format(time.RFC3339)
		deal, err := apiClient.CreateDeal(ctx, client.DealInput{
			Title:     "Tab launch offer",
			ProductID: productID,
			DealPrice: 249.00,
			StartsAt:  starts,
			EndsAt:    ends,
		})
		require.NoError(t, err)
		require.True(t, deal.Active)

		banners, err := apiClient.ListBanners(ctx)
		require.NoError(t, err)
		require.Len(t, banners, 1)
		require.Equal(t, "Summer Sale", banners[0].Title)
	})

	t.Run("Uploads", func(t *testing.T) {
		up, err := apiClient.UploadFile(ctx, "logo.png", strings.NewReader("png-bytes"))
		require.NoError(t, err)
		require.Equal(t, "logo.png", up.FileName)
		require.NotEmpty(t, up.URL)

		require.NoError(t, apiClient.DeleteUpload(ctx, up.ID))
	})

	t.Run("RefreshProtocol", func(t *testing.T) {
		// Poison the access token while keeping the refresh credentials.
		// The next call 401s, refreshes once, and succeeds transparently.
		sess := apiClient.Session()
		sess.SetAccessToken("not-a-valid-token")

		me, err := apiClient.Me(ctx)
		require.NoError(t, err)
		require.Equal(t, "admin@shopd.test", me.Email)
		require.NotEqual(t, "not-a-valid-token", sess.AccessToken())
	})

	t.Run("AdminUsers", func(t *testing.T) {
		users, err := apiClient.ListUsers(ctx)
		require.NoError(t, err)
		require.Len(t, users, 2)

		created, err := apiClient.CreateUser(ctx, client.CreateUserRequest{
			Email:    "temp@shopd.test",
			Name:     "Temp",
			Password: "testpass123",
			IsAdmin:  false,
		})
		require.NoError(t, err)

		deactivated, err := apiClient.DeactivateUser(ctx, created.ID)
		require.NoError(t, err)
		require.False(t, deactivated.Active)

		// Deactivated accounts cannot log in
		other := newSDKClient(t, baseURL)
		_, err = other.Login(ctx, "temp@shopd.test", "testpass123")
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	})

	t.Run("NonAdminForbidden", func(t *testing.T) {
		clerk := newSDKClient(t, baseURL)
		_, err := clerk.Login(ctx, "clerk@shopd.test", "testpass123")
		require.NoError(t, err)

		_, err = clerk.ListUsers(ctx)
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusForbidden, apiErr.Status)
		require.Equal(t, "Admin access required", apiErr.Message)

		// Admin login endpoint rejects the clerk outright
		_, err = clerk.AdminLogin(ctx, "clerk@shopd.test", "testpass123")
		apiErr, ok = client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusForbidden, apiErr.Status)
	})

	t.Run("CSRFEnforced", func(t *testing.T) {
		// A client that never fetched a CSRF token cannot mutate
		fresh := newSDKClient(t, baseURL)
		_, err := fresh.Login(ctx, "admin@shopd.test", "testpass123")
		require.NoError(t, err)

		_, err = fresh.CreateBrand(ctx, client.BrandInput{Name: "Initech", Slug: "initech"})
		apiErr, ok := client.AsAPIError(err)
		require.True(t, ok)
		require.Equal(t, http.StatusForbidden, apiErr.Status)
	})

	t.Run("Logout", func(t *testing.T) {
		require.NoError(t, apiClient.Logout(ctx))
		require.False(t, apiClient.Session().IsAuthenticated())

		// The refresh token was revoked server-side, so a poisoned session
		// cannot resurrect itself
		_, err := apiClient.Me(ctx)
		require.Error(t, err)
	})
}
