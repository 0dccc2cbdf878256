package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"provision-store/internal/models"
	"provision-store/internal/services"
)

func newTestClient(srv *httptest.Server, opts ...Option) *Client {
	opts = append([]Option{WithRetry(3, time.Millisecond)}, opts...)
	return New(srv.URL+"/api", opts...)
}

func TestProductsRetriesUntilSuccess(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/products", r.URL.Path)
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"db down"}`))
			return
		}
		_ = json.NewEncoder(w).Encode([]models.Product{{Name: "Atta", Units: 3}})
	}))
	defer srv.Close()

	products, err := newTestClient(srv).Products(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Atta", products[0].Name)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestStatsGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"db down"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Stats(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	assert.Equal(t, "db down", apiErr.Message)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestBillsDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv).Bills(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRetryStopsWhenContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	c := New(srv.URL+"/api", WithRetry(3, time.Hour))

	done := make(chan error, 1)
	go func() {
		_, err := c.Products(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("Products did not return after cancel")
	}
}

func TestMutationsAreNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"message":"write failed"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	name := "Asha"

	_, err := c.CreateBill(context.Background(), services.BillInput{CustomerName: &name})
	require.Error(t, err)
	_, err = c.UpdateProduct(context.Background(), "abc", services.ProductInput{Name: &name})
	require.Error(t, err)
	require.Error(t, c.DeleteBill(context.Background(), "abc"))

	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestCreateProductSendsTokenAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/products", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Ghee", body["name"])
		assert.Equal(t, 5.0, body["units"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(models.Product{Name: "Ghee", Units: 5})
	}))
	defer srv.Close()

	name := "Ghee"
	units := models.FlexInt(5)
	got, err := newTestClient(srv, WithToken("tok")).CreateProduct(context.Background(), services.ProductInput{
		Name:  &name,
		Units: &units,
	})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Units)
}

func TestDeleteProductReportsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Product not found"}`))
	}))
	defer srv.Close()

	err := newTestClient(srv).DeleteProduct(context.Background(), "abc")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "Product not found", apiErr.Message)
}
