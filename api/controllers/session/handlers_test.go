package session

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-register/internal/catalog"
	"github.com/angelmondragon/pos-register/internal/loyalty"
	"github.com/angelmondragon/pos-register/internal/payment"
	regsession "github.com/angelmondragon/pos-register/internal/session"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	provider, err := catalog.NewStatic(catalog.DefaultMenu())
	require.NoError(t, err)
	o, err := regsession.NewOrchestrator(provider, loyalty.NewAccount(150), payment.NewDesk(10))
	require.NoError(t, err)
	svc, err := regsession.NewService(regsession.ServiceParams{RegisterID: "register-1", Orchestrator: o})
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Get("/catalog", Catalog(svc, nil))
	r.Get("/session", Fetch(svc, nil))
	r.Post("/session/products", SelectProduct(svc, nil))
	r.Post("/session/focus", FocusLine(svc, nil))
	r.Post("/session/numpad", NumpadKey(svc, nil))
	r.Post("/session/commit", CommitEntry(svc, nil))
	r.Put("/session/lines/{lineId}", SetQuantity(svc, nil))
	r.Delete("/session/lines/{lineId}", RemoveLine(svc, nil))
	r.Post("/session/payment", InitiatePayment(svc, nil))
	r.Post("/session/payment/complete", CompletePayment(svc, nil))
	r.Post("/session/payment/cancel", CancelPayment(svc, nil))
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(method, path, reader))
	return resp
}

func decodeData[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func errorCode(t *testing.T, resp *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Error.Code
}

func TestCatalogRendersFixedPrices(t *testing.T) {
	h := newTestRouter(t)
	resp := do(t, h, http.MethodGet, "/catalog", "")
	require.Equal(t, http.StatusOK, resp.Code)

	products := decodeData[[]productResponse](t, resp)
	require.Len(t, products, 8)
	assert.Equal(t, productResponse{ID: "espresso", Name: "Espresso", Price: "2.50"}, products[0])
}

func TestSaleOverHTTP(t *testing.T) {
	h := newTestRouter(t)

	resp := do(t, h, http.MethodPost, "/session/products", `{"product_id":"espresso"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	resp = do(t, h, http.MethodPost, "/session/products", `{"product_id":"espresso"}`)
	snap := decodeData[snapshotResponse](t, resp)
	require.Len(t, snap.Lines, 1)
	assert.Equal(t, 2, snap.Lines[0].Quantity)
	assert.Equal(t, "5.00", snap.Lines[0].Subtotal)
	assert.Equal(t, "5.00", snap.Total)
	assert.Equal(t, "register-1", snap.RegisterID)

	resp = do(t, h, http.MethodPost, "/session/payment", `{"tender":"  card "}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	started := decodeData[paymentResponse](t, resp)
	assert.Equal(t, "pending", started.Session.Status)
	assert.Equal(t, "card", started.Session.Tender)
	assert.Equal(t, "5.00", started.Session.Amount)
	assert.Equal(t, "pending", started.Snapshot.Payment.Status)

	resp = do(t, h, http.MethodPost, "/session/payment/complete", "")
	require.Equal(t, http.StatusOK, resp.Code)
	settled := decodeData[settlementResponse](t, resp)
	assert.Equal(t, int64(50), settled.Receipt.PointsCredited)
	assert.Equal(t, int64(200), settled.Receipt.LoyaltyBalance)
	assert.Empty(t, settled.Snapshot.Lines)
	assert.Equal(t, "0.00", settled.Snapshot.Total)
	assert.Equal(t, "idle", settled.Snapshot.Payment.Status)
}

func TestPriceEntryOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/session/products", `{"product_id":"latte"}`)

	resp := do(t, h, http.MethodPost, "/session/focus", `{"line_id":"latte","target":"price"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	for _, key := range []string{"3", ".", "9", "9"} {
		resp = do(t, h, http.MethodPost, "/session/numpad", `{"key":"`+key+`"}`)
		require.Equal(t, http.StatusOK, resp.Code)
	}
	snap := decodeData[snapshotResponse](t, resp)
	assert.Equal(t, "3.99", snap.EntryText)
	assert.Equal(t, "price", snap.EntryTarget)

	resp = do(t, h, http.MethodPost, "/session/commit", "")
	require.Equal(t, http.StatusOK, resp.Code)
	snap = decodeData[snapshotResponse](t, resp)
	assert.Equal(t, "3.99", snap.Lines[0].Price)
	assert.Equal(t, "3.99", snap.Total)
	assert.Equal(t, "", snap.EntryText)
}

func TestSubCentPriceRejectedOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/session/products", `{"product_id":"latte"}`)
	do(t, h, http.MethodPost, "/session/focus", `{"line_id":"latte","target":"price"}`)
	for _, key := range []string{"3", ".", "9", "9", "9"} {
		do(t, h, http.MethodPost, "/session/numpad", `{"key":"`+key+`"}`)
	}

	resp := do(t, h, http.MethodPost, "/session/commit", "")
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "PARSE_ERROR", errorCode(t, resp))

	resp = do(t, h, http.MethodGet, "/session", "")
	snap := decodeData[snapshotResponse](t, resp)
	assert.Equal(t, "4.50", snap.Lines[0].Price)
	assert.Equal(t, "3.999", snap.EntryText)

	do(t, h, http.MethodPost, "/session/numpad", `{"key":"backspace"}`)
	resp = do(t, h, http.MethodPost, "/session/commit", "")
	require.Equal(t, http.StatusOK, resp.Code)

	resp = do(t, h, http.MethodPost, "/session/payment", `{"tender":"card"}`)
	require.Equal(t, http.StatusCreated, resp.Code)
	started := decodeData[paymentResponse](t, resp)
	assert.Equal(t, "3.99", started.Session.Amount)

	resp = do(t, h, http.MethodPost, "/session/payment/complete", "")
	require.Equal(t, http.StatusOK, resp.Code)
	settled := decodeData[settlementResponse](t, resp)
	assert.Equal(t, "3.99", settled.Receipt.Amount)
	assert.Equal(t, int64(39), settled.Receipt.PointsCredited)
}

func TestLineEditsOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/session/products", `{"product_id":"latte"}`)
	do(t, h, http.MethodPost, "/session/products", `{"product_id":"croissant"}`)

	resp := do(t, h, http.MethodPut, "/session/lines/latte", `{"quantity":3}`)
	require.Equal(t, http.StatusOK, resp.Code)
	snap := decodeData[snapshotResponse](t, resp)
	assert.Equal(t, "16.75", snap.Total)

	resp = do(t, h, http.MethodDelete, "/session/lines/croissant", "")
	require.Equal(t, http.StatusOK, resp.Code)
	snap = decodeData[snapshotResponse](t, resp)
	assert.Equal(t, "13.50", snap.Total)

	resp = do(t, h, http.MethodDelete, "/session/lines/croissant", "")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	assert.Equal(t, "INVALID_OPERATION", errorCode(t, resp))
}

func TestRejectedRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"missing product id", http.MethodPost, "/session/products", `{}`, http.StatusBadRequest},
		{"unknown product", http.MethodPost, "/session/products", `{"product_id":"bagel"}`, http.StatusNotFound},
		{"unknown field", http.MethodPost, "/session/products", `{"product_id":"latte","qty":2}`, http.StatusBadRequest},
		{"bad target", http.MethodPost, "/session/focus", `{"line_id":"latte","target":"discount"}`, http.StatusBadRequest},
		{"bad key", http.MethodPost, "/session/numpad", `{"key":"enter"}`, http.StatusBadRequest},
		{"commit without focus", http.MethodPost, "/session/commit", "", http.StatusUnprocessableEntity},
		{"missing quantity", http.MethodPut, "/session/lines/latte", `{}`, http.StatusBadRequest},
		{"negative quantity", http.MethodPut, "/session/lines/latte", `{"quantity":-1}`, http.StatusBadRequest},
		{"pay empty cart", http.MethodPost, "/session/payment", `{"tender":"cash"}`, http.StatusUnprocessableEntity},
		{"blank tender", http.MethodPost, "/session/payment", `{"tender":""}`, http.StatusBadRequest},
		{"complete while idle", http.MethodPost, "/session/payment/complete", "", http.StatusUnprocessableEntity},
		{"cancel while idle", http.MethodPost, "/session/payment/cancel", "", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestRouter(t)
			resp := do(t, h, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, resp.Code)
		})
	}
}

func TestCancelPaymentOverHTTP(t *testing.T) {
	h := newTestRouter(t)
	do(t, h, http.MethodPost, "/session/products", `{"product_id":"mocha"}`)
	do(t, h, http.MethodPost, "/session/payment", `{"tender":"cash"}`)

	resp := do(t, h, http.MethodPost, "/session/payment/cancel", "")
	require.Equal(t, http.StatusOK, resp.Code)
	result := decodeData[paymentResponse](t, resp)
	assert.Equal(t, "cancelled", result.Session.Status)
	assert.Equal(t, "idle", result.Snapshot.Payment.Status)
	assert.Equal(t, "4.75", result.Snapshot.Total)
	assert.Equal(t, int64(150), result.Snapshot.LoyaltyPoints)
}

func TestNilServiceIsInternalError(t *testing.T) {
	resp := httptest.NewRecorder()
	Fetch(nil, nil).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/session", nil))
	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
