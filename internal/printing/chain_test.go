package printing

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"barberia-backend/internal/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDoc() receipt.Document {
	return receipt.Document{InvoiceNumber: "F-000001", Text: "TICKET", Width: 42}
}

func testClient(baseURL string) *Client {
	return NewClient(baseURL, 200*time.Millisecond, 500*time.Millisecond, 200*time.Millisecond)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOnlineWhenBridgeAnswers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/status", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "online"})
	}))
	defer srv.Close()

	assert.True(t, testClient(srv.URL).Online(context.Background()))
}

func TestOfflineOnErrorStatusOrTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()
	assert.False(t, testClient(srv.URL).Online(context.Background()))

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer slow.Close()
	assert.False(t, testClient(slow.URL).Online(context.Background()))

	dead := httptest.NewServer(nil)
	dead.Close()
	assert.False(t, testClient(dead.URL).Online(context.Background()))
}

func TestChainPrintsThroughBridge(t *testing.T) {
	var got struct {
		Factura receipt.Document `json:"factura"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/print", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}))
	defer srv.Close()

	chain := NewChain(testClient(srv.URL), testLogger())
	res := chain.Deliver(context.Background(), testDoc())

	assert.Equal(t, OutcomePrinted, res.Outcome)
	assert.True(t, res.DrawerHandled, "direct print pulses the drawer; the standalone command must be skipped")
	assert.Empty(t, res.Warning)
	assert.Equal(t, "F-000001", got.Factura.InvoiceNumber)
}

func TestChainFallsBackToDialogWhenBridgeDown(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	chain := NewChain(testClient(srv.URL), testLogger())
	res := chain.Deliver(context.Background(), testDoc())

	assert.Equal(t, OutcomeDownloaded, res.Outcome)
	assert.Equal(t, "os-dialog", res.Via)
	assert.False(t, res.DrawerHandled)
	assert.NotEmpty(t, res.Warning)
}

func TestChainFallsBackWhenBridgeReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]bool{"success": false})
	}))
	defer srv.Close()

	chain := NewChain(testClient(srv.URL), testLogger())
	res := chain.Deliver(context.Background(), testDoc())
	assert.Equal(t, OutcomeDownloaded, res.Outcome)
}

func TestChainManualFallbackWhenAllStrategiesFail(t *testing.T) {
	srv := httptest.NewServer(nil)
	srv.Close()

	failing := &PrintServiceStrategy{Client: testClient(srv.URL)}
	chain := &Chain{Strategies: []Strategy{failing}, Logger: testLogger()}
	res := chain.Deliver(context.Background(), testDoc())

	assert.Equal(t, OutcomeFailed, res.Outcome)
	assert.Equal(t, "manual", res.Via)
	assert.False(t, res.DrawerHandled)
	assert.Contains(t, res.Warning, "cajón")
}

func TestOpenDrawer(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/open-drawer", r.URL.Path)
		called = true
	}))
	defer srv.Close()

	require.NoError(t, testClient(srv.URL).OpenDrawer(context.Background()))
	assert.True(t, called)

	dead := httptest.NewServer(nil)
	dead.Close()
	assert.Error(t, testClient(dead.URL).OpenDrawer(context.Background()))
}
