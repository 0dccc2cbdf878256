package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"provision-store/internal/models"
	"provision-store/internal/services"
)

type testAPI struct {
	router   *gin.Engine
	products *mockProducts
	bills    *mockBills
	stats    *mockStats
}

func newTestAPI(t *testing.T, configure func(*Deps)) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	api := &testAPI{
		router:   gin.New(),
		products: &mockProducts{},
		bills:    &mockBills{},
		stats:    &mockStats{},
	}
	deps := Deps{Products: api.products, Bills: api.bills, Stats: api.stats}
	if configure != nil {
		configure(&deps)
	}
	RegisterRoutes(api.router, deps)

	t.Cleanup(func() {
		api.products.AssertExpectations(t)
		api.bills.AssertExpectations(t)
		api.stats.AssertExpectations(t)
	})
	return api
}

func (a *testAPI) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decodeMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

func TestListProducts(t *testing.T) {
	api := newTestAPI(t, nil)
	id := primitive.NewObjectID()
	api.products.On("List", mock.Anything).Return([]models.Product{{ID: id, Name: "Atta", Units: 4}}, nil)

	w := api.do(http.MethodGet, "/api/products", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, id.Hex(), got[0]["_id"])
	assert.NotContains(t, got[0], "id")
	assert.Equal(t, "Atta", got[0]["name"])
}

func TestGetProductInvalidID(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodGet, "/api/products/not-an-id", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", decodeMessage(t, w))
}

func TestGetProductNotFound(t *testing.T) {
	api := newTestAPI(t, nil)
	id := primitive.NewObjectID()
	api.products.On("Get", mock.Anything, id).Return(models.Product{}, services.ErrNotFound)

	w := api.do(http.MethodGet, "/api/products/"+id.Hex(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", decodeMessage(t, w))
}

func TestCreateProductAcceptsNumericStrings(t *testing.T) {
	api := newTestAPI(t, nil)
	created := models.Product{ID: primitive.NewObjectID(), Name: "Ghee", Units: 5, Price: 620}

	api.products.On("Create", mock.Anything, mock.MatchedBy(func(in services.ProductInput) bool {
		return in.Units != nil && *in.Units == 5 && in.Price != nil && *in.Price == 620
	})).Return(created, nil)

	w := api.do(http.MethodPost, "/api/products",
		`{"name":"Ghee","units":"5","weight":1,"price":"620","category":"Edible Oils & Ghee"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCreateProductValidationError(t *testing.T) {
	api := newTestAPI(t, nil)
	api.products.On("Create", mock.Anything, mock.Anything).
		Return(models.Product{}, &services.ValidationError{Field: "units", Message: "units must be zero or greater"})

	w := api.do(http.MethodPost, "/api/products", `{"name":"Ghee","units":-1}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "units must be zero or greater", decodeMessage(t, w))
}

func TestCreateProductMalformedBody(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(http.MethodPost, "/api/products", `{"units":"many"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateProductRejectsNonFiniteNumbers(t *testing.T) {
	api := newTestAPI(t, nil)

	for _, body := range []string{
		`{"name":"Ghee","units":5,"weight":1,"price":"NaN","category":"Edible Oils & Ghee"}`,
		`{"name":"Ghee","units":5,"weight":"Infinity","price":1,"category":"Edible Oils & Ghee"}`,
	} {
		w := api.do(http.MethodPost, "/api/products", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	api.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBillRejectsInfiniteUnitPrice(t *testing.T) {
	api := newTestAPI(t, nil)
	productID := primitive.NewObjectID()

	w := api.do(http.MethodPost, "/api/bills",
		`{"customerName":"Asha","items":[{"productId":"`+productID.Hex()+`","quantity":1,"unitPrice":"Inf"}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.bills.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateProductDuplicateAndStoreErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	dup := primitive.NewObjectID()
	broken := primitive.NewObjectID()
	api.products.On("Update", mock.Anything, dup, mock.Anything).
		Return(models.Product{}, fmt.Errorf("%w: E11000", services.ErrDuplicate))
	api.products.On("Update", mock.Anything, broken, mock.Anything).
		Return(models.Product{}, errors.New("connection reset"))

	w := api.do(http.MethodPut, "/api/products/"+dup.Hex(), `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodPut, "/api/products/"+broken.Hex(), `{"name":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection reset", decodeMessage(t, w))
}

func TestDeleteProduct(t *testing.T) {
	api := newTestAPI(t, nil)
	id := primitive.NewObjectID()
	api.products.On("Delete", mock.Anything, id).Return(nil)

	w := api.do(http.MethodDelete, "/api/products/"+id.Hex(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", decodeMessage(t, w))
}

func TestCreateBill(t *testing.T) {
	api := newTestAPI(t, nil)
	productID := primitive.NewObjectID()
	bill := models.Bill{
		ID:          primitive.NewObjectID(),
		BillNumber:  "BILL-000001",
		TotalAmount: 130,
	}
	api.bills.On("Create", mock.Anything, mock.MatchedBy(func(in services.BillInput) bool {
		return in.Items != nil && len(*in.Items) == 1 && (*in.Items)[0].Quantity == 2
	})).Return(bill, nil)

	w := api.do(http.MethodPost, "/api/bills",
		`{"customerName":"Asha","items":[{"productId":"`+productID.Hex()+`","quantity":"2"}]}`)

	require.Equal(t, http.StatusCreated, w.Code)
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, bill.ID.Hex(), got["_id"])
	assert.Equal(t, "BILL-000001", got["billNumber"])
	assert.Equal(t, 130.0, got["totalAmount"])
}

func TestDeleteBillNotFound(t *testing.T) {
	api := newTestAPI(t, nil)
	id := primitive.NewObjectID()
	api.bills.On("Delete", mock.Anything, id).Return(services.ErrNotFound)

	w := api.do(http.MethodDelete, "/api/bills/"+id.Hex(), "")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Bill not found", decodeMessage(t, w))
}

func TestDeleteBill(t *testing.T) {
	api := newTestAPI(t, nil)
	id := primitive.NewObjectID()
	api.bills.On("Delete", mock.Anything, id).Return(nil)

	w := api.do(http.MethodDelete, "/api/bills/"+id.Hex(), "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bill deleted successfully", decodeMessage(t, w))
}

func TestDashboardStats(t *testing.T) {
	api := newTestAPI(t, nil)
	api.stats.On("Stats", mock.Anything).Return(models.DashboardStats{
		TotalProducts:    3,
		TotalBills:       2,
		TotalRevenue:     175.5,
		LowStockProducts: 1,
	}, nil)

	w := api.do(http.MethodGet, "/api/dashboard/stats", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t,
		`{"totalProducts":3,"totalBills":2,"totalRevenue":175.5,"lowStockProducts":1}`,
		w.Body.String())
}

func TestListCustomers(t *testing.T) {
	api := newTestAPI(t, nil)
	api.bills.On("List", mock.Anything).Return([]models.Bill{
		{CustomerName: "Asha", CustomerPhone: "98765", TotalAmount: 100, PaymentStatus: "paid"},
		{CustomerName: "Ravi", TotalAmount: 40, PaymentStatus: "pending"},
		{CustomerName: "Asha", CustomerPhone: "98765", TotalAmount: 25, PaymentStatus: "pending"},
	}, nil)

	w := api.do(http.MethodGet, "/api/customers?search=asha", "")

	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Data    []models.Customer      `json:"data"`
		Summary models.CustomerSummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got.Data, 1)
	assert.Len(t, got.Data[0].Bills, 2)
	assert.Equal(t, 100.0, got.Summary.PaidTotal)
	assert.Equal(t, 25.0, got.Summary.PendingTotal)
}

func withAuth(hash string) func(*Deps) {
	return func(d *Deps) {
		d.JWTSecret = "s3cret"
		d.AccessTTL = time.Hour
		d.Admin = models.Admin{Email: "owner@shop.test", PasswordHash: hash}
	}
}

func TestMutationsRequireTokenWhenAuthEnabled(t *testing.T) {
	api := newTestAPI(t, withAuth("unused"))
	api.products.On("List", mock.Anything).Return([]models.Product{}, nil)

	w := api.do(http.MethodPost, "/api/products", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodGet, "/api/products", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminLoginIssuesUsableToken(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)

	api := newTestAPI(t, withAuth(string(hash)))
	id := primitive.NewObjectID()
	api.products.On("Delete", mock.Anything, id).Return(nil)

	w := api.do(http.MethodPost, "/api/auth/login", `{"email":"Owner@Shop.test","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(http.MethodPost, "/api/auth/login", `{"email":"Owner@Shop.test","password":"hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	w = api.do(http.MethodDelete, "/api/products/"+id.Hex(), "", "Authorization", "Bearer "+login.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}
