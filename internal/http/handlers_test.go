package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finrecon/internal/core"
	"finrecon/internal/services"
	"finrecon/internal/store/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	s := NewServer("127.0.0.1:0", st,
		services.NewImportService(st, nil),
		services.NewDashboardService(st),
		30*time.Second)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Shutdown(ctx)
	})
	return s, st
}

func doRequest(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s, _ := newTestServer(t)

	if rec := doRequest(s, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("healthz = %d, want 200", rec.Code)
	}
	if rec := doRequest(s, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("readyz = %d, want 200", rec.Code)
	}
}

func TestCreateTransaction(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/transactions",
		`{"date":"01/15/2025","vendor":"VONS #123","amount":"42.50"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var tx core.Transaction
	decodeBody(t, rec, &tx)
	if tx.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if tx.Category != core.CategoryGroceries {
		t.Fatalf("category = %s, want Groceries (classified from vendor)", tx.Category)
	}
	if tx.Type != core.TypeExpense {
		t.Fatalf("type = %s, want Expense", tx.Type)
	}
	if !tx.Amount.Equal(decimal.RequireFromString("42.5")) {
		t.Fatalf("amount = %s, want 42.5", tx.Amount)
	}
}

func TestCreateTransactionRejectsPayment(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/transactions",
		`{"date":"01/15/2025","vendor":"PAYMENT THANK YOU","amount":"500"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"bad amount", `{"date":"01/15/2025","vendor":"Vons","amount":"-5"}`},
		{"bad date", `{"date":"2025-01-15","vendor":"Vons","amount":"5"}`},
		{"empty vendor", `{"date":"01/15/2025","vendor":" ","amount":"5"}`},
		{"unknown category", `{"date":"01/15/2025","vendor":"Vons","amount":"5","category":"Crypto"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := doRequest(s, http.MethodPost, "/transactions", tc.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestListTransactionsFiltered(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()
	for _, tx := range []core.Transaction{
		{Date: "01/10/2025", Vendor: "Vons", Amount: decimal.NewFromInt(10), Category: core.CategoryGroceries, Type: core.TypeExpense},
		{Date: "02/10/2025", Vendor: "Shell", Amount: decimal.NewFromInt(20), Category: core.CategoryGasFuel, Type: core.TypeExpense},
	} {
		if _, err := st.SaveTransaction(ctx, tx); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	rec := doRequest(s, http.MethodGet, "/transactions?year=2025&month=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Transactions []core.Transaction `json:"transactions"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Transactions) != 1 || resp.Transactions[0].Vendor != "Vons" {
		t.Fatalf("unexpected list: %+v", resp.Transactions)
	}

	if rec := doRequest(s, http.MethodGet, "/transactions?year=2025&month=13", ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid month status = %d, want 400", rec.Code)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s, st := newTestServer(t)
	id, err := st.SaveTransaction(context.Background(), core.Transaction{
		Date: "01/10/2025", Vendor: "Vons", Amount: decimal.NewFromInt(10),
		Category: core.CategoryGroceries, Type: core.TypeExpense,
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	if rec := doRequest(s, http.MethodDelete, "/transactions/"+id, ""); rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", rec.Code)
	}
	if rec := doRequest(s, http.MethodDelete, "/transactions/"+id, ""); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete status = %d, want 404", rec.Code)
	}
}

func TestSummaryAndInvalidation(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodGet, "/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary status = %d", rec.Code)
	}
	var before services.Summary
	decodeBody(t, rec, &before)
	if before.TransactionCount != 0 {
		t.Fatalf("count = %d, want 0", before.TransactionCount)
	}

	// A write must invalidate the cached summary.
	if rec := doRequest(s, http.MethodPost, "/transactions",
		`{"date":"01/15/2025","vendor":"Vons","amount":"10"}`); rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	rec = doRequest(s, http.MethodGet, "/summary", "")
	var after services.Summary
	decodeBody(t, rec, &after)
	if after.TransactionCount != 1 {
		t.Fatalf("count after write = %d, want 1", after.TransactionCount)
	}
}

func TestBudgetRoundTrip(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPut, "/budget", `{"Groceries":"500","Gas/Fuel":"150"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(s, http.MethodGet, "/budget", "")
	var resp struct {
		Budget map[string]decimal.Decimal `json:"budget"`
	}
	decodeBody(t, rec, &resp)
	if !resp.Budget["Groceries"].Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected budget: %v", resp.Budget)
	}

	if rec := doRequest(s, http.MethodPut, "/budget", `{"Nonsense":"500"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown category status = %d, want 400", rec.Code)
	}
	if rec := doRequest(s, http.MethodPut, "/budget", `{"Groceries":"-5"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative limit status = %d, want 400", rec.Code)
	}
}

func TestAlertsEndpoint(t *testing.T) {
	s, st := newTestServer(t)
	ctx := context.Background()

	err := st.SaveBudget(ctx, core.Budget{core.CategoryGroceries: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	_, err = st.SaveTransaction(ctx, core.Transaction{
		Date: core.FormatDate(time.Now()), Vendor: "Vons",
		Amount: decimal.NewFromInt(150), Category: core.CategoryGroceries, Type: core.TypeExpense,
	})
	if err != nil {
		t.Fatalf("seed tx: %v", err)
	}

	rec := doRequest(s, http.MethodGet, "/alerts", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("alerts status = %d", rec.Code)
	}
	var resp struct {
		Alerts []core.Alert `json:"alerts"`
	}
	decodeBody(t, rec, &resp)
	if len(resp.Alerts) != 1 || resp.Alerts[0].Level != core.AlertDanger {
		t.Fatalf("unexpected alerts: %+v", resp.Alerts)
	}
}

func TestImportsEndpointSynchronous(t *testing.T) {
	s, st := newTestServer(t)

	body := `{"account":"credit","extraction":{"inference":{"result":{"fields":{"line_items":{"items":[
		{"fields":{"description":{"value":"VONS #123"},"total_price":{"value":42.50}}},
		{"fields":{"description":{"value":"PAYMENT THANK YOU"},"total_price":{"value":500}}}
	]}}}}}}`
	rec := doRequest(s, http.MethodPost, "/imports", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("imports status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var result services.ImportResult
	decodeBody(t, rec, &result)
	if result.Imported != 1 || result.Excluded != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}

	txs, _ := st.LoadTransactions(context.Background())
	if len(txs) != 1 {
		t.Fatalf("stored = %d, want 1", len(txs))
	}

	if rec := doRequest(s, http.MethodPost, "/imports", `{"account":"credit"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("missing extraction status = %d, want 400", rec.Code)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	s, _ := newTestServer(t)

	rec := doRequest(s, http.MethodPost, "/simulate",
		`{"total_cost":6000,"down_payment":1000,"finance_months":12,"monthly_income":5000,"monthly_budgeted":4000,"net_savings":2000}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("simulate status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report core.ImpactReport
	decodeBody(t, rec, &report)
	if !report.FullyAffordable {
		t.Fatalf("expected affordable, got %+v", report)
	}
	if !report.Remaining.Equal(decimal.NewFromInt(5000)) {
		t.Fatalf("remaining = %s, want 5000", report.Remaining)
	}

	if rec := doRequest(s, http.MethodPost, "/simulate", `{"total_cost":-1}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("negative cost status = %d, want 400", rec.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)

	cases := []struct {
		method, path string
	}{
		{http.MethodDelete, "/summary"},
		{http.MethodPost, "/alerts"},
		{http.MethodPut, "/transactions"},
		{http.MethodGet, "/imports"},
		{http.MethodGet, "/simulate"},
	}
	for _, tc := range cases {
		if rec := doRequest(s, tc.method, tc.path, ""); rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s status = %d, want 405", tc.method, tc.path, rec.Code)
		}
	}
}
