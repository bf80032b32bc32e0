package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/mefinance/internal/auth"
	"github.com/mmynk/mefinance/internal/ledger"
	"github.com/mmynk/mefinance/internal/middleware"
	"github.com/mmynk/mefinance/internal/storage/sqlite"
	"github.com/mmynk/mefinance/pkg/api"
	"github.com/mmynk/mefinance/pkg/api/apiconnect"
)

type testClients struct {
	auth     apiconnect.AuthServiceClient
	ledger   apiconnect.LedgerServiceClient
	bill     apiconnect.BillServiceClient
	category apiconnect.CategoryServiceClient
}

// setupTestServer serves every service over httptest with the production interceptor chain.
func setupTestServer(t *testing.T) *testClients {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret", "mefinance", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)

	interceptors := connect.WithInterceptors(
		middleware.RequireAuth(jwtManager,
			apiconnect.AuthServiceRegisterProcedure,
			apiconnect.AuthServiceLoginProcedure,
		),
		middleware.LoggingInterceptor(logger),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager, store, logger), interceptors))
	mux.Handle(apiconnect.NewLedgerServiceHandler(NewLedgerService(ledger.New(store)), interceptors))
	mux.Handle(apiconnect.NewBillServiceHandler(NewBillService(store), interceptors))
	mux.Handle(apiconnect.NewCategoryServiceHandler(NewCategoryService(store), interceptors))

	server := httptest.NewServer(mux)
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return &testClients{
		auth:     apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL),
		ledger:   apiconnect.NewLedgerServiceClient(http.DefaultClient, server.URL),
		bill:     apiconnect.NewBillServiceClient(http.DefaultClient, server.URL),
		category: apiconnect.NewCategoryServiceClient(http.DefaultClient, server.URL),
	}
}

// register creates an account and returns its token.
func (c *testClients) register(t *testing.T, username string) string {
	t.Helper()

	resp, err := c.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Username: username,
		Password: "password123",
	}))
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}
	return resp.Msg.Token
}

func authed[T any](token string, msg *T) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func amount(v float64) *float64 { return &v }

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got success", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Fatalf("expected %v, got %v (%v)", want, got, err)
	}
}
