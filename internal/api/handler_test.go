package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmapos/domain"
	"pharmapos/internal/apiclient"
	"pharmapos/internal/database"
	"pharmapos/internal/migrations"
	"pharmapos/internal/seed"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T, loginPerMinute int) *httptest.Server {
	t.Helper()
	db, err := database.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrations.Apply(db))
	seed.LoadMedicines(db, "../../assets/medicines.csv")
	require.NoError(t, seed.EnsureAdmin(db, "admin", "admin123"))

	srv := httptest.NewServer(New(db, testSecret, loginPerMinute).Router())
	t.Cleanup(srv.Close)
	return srv
}

func loggedInClient(t *testing.T, srv *httptest.Server) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), map[string]string{"username": "admin", "password": "admin123"}))
	return c
}

func decodeEnvelope(t *testing.T, res *http.Response) map[string]any {
	t.Helper()
	defer res.Body.Close()
	var body map[string]any
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))
	return body
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	srv := newTestServer(t, 20)

	res, err := http.Get(srv.URL + "/api/medicines")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	body := decodeEnvelope(t, res)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["message"])

	res, err = http.Get(srv.URL + "/api/check_session")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	body = decodeEnvelope(t, res)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, false, body["logged_in"])
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t, 20)
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)

	err = c.Login(context.Background(), map[string]string{"username": "admin", "password": "nope"})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apiclient.Message(err))
	assert.Empty(t, c.Token())
}

func TestLoginSetsHttpOnlyCookie(t *testing.T) {
	srv := newTestServer(t, 20)
	res, err := http.Post(srv.URL+"/api/login", "application/json", strings.NewReader(`{"username":"admin","password":"admin123","remember":"on"}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	var cookie *http.Cookie
	for _, c := range res.Cookies() {
		if c.Name == sessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	body := decodeEnvelope(t, res)
	assert.Equal(t, cookie.Value, body["token"])
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	ctx := context.Background()

	ok, err := c.CheckSession(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotEmpty(t, c.Token())

	require.NoError(t, c.Logout(ctx))
	ok, err = c.CheckSession(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMedicinesSortedByName(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)

	meds, err := c.Medicines(context.Background())
	require.NoError(t, err)
	require.Len(t, meds, 10)
	assert.Equal(t, "Amlodipine 5mg", meds[0].Name)
	assert.Equal(t, "Paracetamol 500mg", meds[9].Name)
}

func TestMedicineCRUD(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	ctx := context.Background()

	_, err := c.AddMedicine(ctx, domain.MedicineInput{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, "Name is required", apiclient.Message(err))

	id, err := c.AddMedicine(ctx, domain.MedicineInput{Name: "Dolo 650", Manufacturer: "Micro Labs", Quantity: 3, Price: decimal.RequireFromString("30.5")})
	require.NoError(t, err)
	assert.Equal(t, int64(11), id)

	require.NoError(t, c.UpdateMedicine(ctx, domain.Medicine{ID: id, Name: "Dolo 650", Quantity: 40, Price: decimal.NewFromInt(31)}))
	meds, err := c.Medicines(ctx)
	require.NoError(t, err)
	var found domain.Medicine
	for _, m := range meds {
		if m.ID == id {
			found = m
		}
	}
	assert.Equal(t, int64(40), found.Quantity)
	assert.True(t, decimal.NewFromInt(31).Equal(found.Price))

	err = c.UpdateMedicine(ctx, domain.Medicine{ID: 999, Name: "Ghost"})
	assert.Equal(t, "Medicine not found", apiclient.Message(err))

	require.NoError(t, c.DeleteMedicine(ctx, id))
	meds, err = c.Medicines(ctx)
	require.NoError(t, err)
	assert.Len(t, meds, 10)
}

func TestSaleFlow(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	ctx := context.Background()

	override := decimal.NewFromInt(9)
	saleID, err := c.CreateSale(ctx, domain.SaleRequest{
		CustomerName: "Asha",
		Items: []domain.SaleLineRequest{
			{MedicineID: 1, Quantity: 2},
			{MedicineID: 5, Quantity: 1, Price: &override},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), saleID)

	detail, err := c.Sale(ctx, saleID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", detail.Header.CustomerName)
	assert.True(t, decimal.NewFromInt(34).Equal(detail.Header.TotalAmount))
	require.Len(t, detail.Items, 2)
	assert.Equal(t, "Paracetamol 500mg", detail.Items[0].MedicineName)
	assert.True(t, decimal.NewFromInt(25).Equal(detail.Items[0].LineTotal))
	assert.True(t, decimal.NewFromInt(9).Equal(detail.Items[1].PricePerItem))

	meds, err := c.Medicines(ctx)
	require.NoError(t, err)
	for _, m := range meds {
		switch m.ID {
		case 1:
			assert.Equal(t, int64(98), m.Quantity)
		case 5:
			assert.Equal(t, int64(79), m.Quantity)
		}
	}

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.SalesCount)
	assert.True(t, decimal.NewFromInt(34).Equal(summary.SalesToday))
	assert.Equal(t, int64(10), summary.TotalMedicines)

	sales, err := c.Sales(ctx)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, saleID, sales[0].ID)

	err = c.DeleteMedicine(ctx, 1)
	assert.Equal(t, "Medicine has sales and cannot be deleted", apiclient.Message(err))
}

func TestSaleRejections(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	ctx := context.Background()

	cases := []struct {
		name  string
		items []domain.SaleLineRequest
		want  string
	}{
		{"insufficient stock", []domain.SaleLineRequest{{MedicineID: 2, Quantity: 51}}, "Insufficient stock for medicine id 2"},
		{"stock summed across lines", []domain.SaleLineRequest{{MedicineID: 2, Quantity: 30}, {MedicineID: 2, Quantity: 30}}, "Insufficient stock for medicine id 2"},
		{"unknown medicine", []domain.SaleLineRequest{{MedicineID: 999, Quantity: 1}}, "Medicine with id 999 not found"},
		{"zero quantity", []domain.SaleLineRequest{{MedicineID: 1, Quantity: 0}}, "Quantity must be greater than zero"},
		{"empty", nil, "No items in sale"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.CreateSale(ctx, domain.SaleRequest{Items: tc.items})
			require.Error(t, err)
			assert.Equal(t, tc.want, apiclient.Message(err))
		})
	}

	meds, err := c.Medicines(ctx)
	require.NoError(t, err)
	for _, m := range meds {
		if m.ID == 2 {
			assert.Equal(t, int64(50), m.Quantity)
		}
	}
}

func TestSaleNotFound(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	_, err := c.Sale(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, "Sale not found", apiclient.Message(err))
}

func TestDashboardStats(t *testing.T) {
	srv := newTestServer(t, 20)
	c := loggedInClient(t, srv)
	ctx := context.Background()

	_, err := c.AddMedicine(ctx, domain.MedicineInput{Name: "Low", Quantity: 7})
	require.NoError(t, err)

	stats, err := c.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(11), stats.TotalMedicines)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.True(t, stats.TotalRevenue.IsZero())

	summary, err := c.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, summary.LowStock)
	assert.Equal(t, int64(737), summary.TotalUnits)
}

func TestRegisterIsAdminOnly(t *testing.T) {
	srv := newTestServer(t, 20)
	admin := loggedInClient(t, srv)
	ctx := context.Background()

	userID, err := admin.Register(ctx, domain.RegisterRequest{Username: "cashier", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), userID)

	_, err = admin.Register(ctx, domain.RegisterRequest{Username: "cashier", Password: "pw"})
	assert.Equal(t, "Username already exists", apiclient.Message(err))

	staff, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	require.NoError(t, staff.Login(ctx, map[string]string{"username": "cashier", "password": "pw"}))
	_, err = staff.Register(ctx, domain.RegisterRequest{Username: "other", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, "Forbidden", apiclient.Message(err))
}

func TestLoginRateLimited(t *testing.T) {
	srv := newTestServer(t, 1)
	c, err := apiclient.New(srv.URL)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Login(ctx, map[string]string{"username": "admin", "password": "admin123"}))
	err = c.Login(ctx, map[string]string{"username": "admin", "password": "admin123"})
	require.Error(t, err)

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
}
