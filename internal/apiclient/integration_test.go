package apiclient_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"festops/internal/api"
	"festops/internal/apiclient"
	"festops/internal/docstore"
	"festops/internal/domain"
	"festops/internal/listview"
	"festops/internal/service"
	"festops/internal/store/memstore"
)

const (
	testEmail    = "admin@festops.dev"
	testPassword = "segredo123"
)

func newBackend(t *testing.T) (*httptest.Server, *memstore.Store) {
	t.Helper()
	ms := memstore.New()

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, ms.CreateUser(context.Background(), domain.User{
		ID:           uuid.NewString(),
		Name:         "Admin",
		Email:        testEmail,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}))

	handler := api.NewHandler(ms, docstore.NewMemory(), service.NewBillingService(ms, ms), time.Hour)
	r := mux.NewRouter()
	handler.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, ms
}

func loggedIn(t *testing.T, srv *httptest.Server) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(srv.URL, 5*time.Second)
	require.NoError(t, err)
	_, err = c.Login(context.Background(), testEmail, testPassword)
	require.NoError(t, err)
	return c
}

func seedClient(t *testing.T, ms *memstore.Store) domain.Client {
	t.Helper()
	cl := domain.Client{
		ID:        uuid.NewString(),
		Name:      "Família Souza",
		Email:     "souza@example.com",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, ms.CreateClient(context.Background(), cl))
	return cl
}

func Test_Unauthenticated_IsValidationKind(t *testing.T) {
	srv, _ := newBackend(t)

	c, err := apiclient.New(srv.URL, 5*time.Second)
	require.NoError(t, err)

	_, err = c.EventsRemote().List(context.Background(), domain.ListQuery{})
	require.Equal(t, listview.KindValidation, listview.KindOf(err))
}

// Drives an optimistic events controller through the whole stack: the HTTP
// client, the router, session auth and the store.
func Test_EventsController_OverHTTP(t *testing.T) {
	srv, ms := newBackend(t)
	cl := seedClient(t, ms)
	c := loggedIn(t, srv)
	ctx := context.Background()

	events := c.Events()
	require.NoError(t, events.Fetch(ctx, domain.ListQuery{}))
	require.Empty(t, events.Items())

	created, err := events.Create(ctx, domain.CreateEventRequest{
		ClientID:   cl.ID,
		Title:      "Festa A",
		Date:       time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC),
		Guests:     40,
		TotalValue: 250000,
	})
	require.NoError(t, err)
	require.Equal(t, domain.EventPending, created.Status)
	require.Len(t, events.Items(), 1)

	// Confirm it; the server representation should flow back into the list.
	status := domain.EventConfirmed
	updated, err := events.Update(ctx, created.ID, domain.UpdateEventRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, domain.EventConfirmed, updated.Status)

	items := events.Items()
	require.Len(t, items, 1)
	require.Equal(t, domain.EventConfirmed, items[0].Status)

	require.NoError(t, events.Delete(ctx, created.ID))
	require.Empty(t, events.Items())

	// The delete really reached the store, not just the local list.
	_, err = ms.GetEvent(ctx, created.ID)
	require.Error(t, err)
}

// A patch the server rejects must leave the list exactly as it was, even
// though the optimistic merge briefly applied it.
func Test_EventsController_RollbackOverHTTP(t *testing.T) {
	srv, ms := newBackend(t)
	cl := seedClient(t, ms)
	c := loggedIn(t, srv)
	ctx := context.Background()

	events := c.Events()
	_, err := events.Create(ctx, domain.CreateEventRequest{
		ClientID:   cl.ID,
		Title:      "Festa A",
		Date:       time.Date(2026, 9, 12, 15, 0, 0, 0, time.UTC),
		TotalValue: 250000,
	})
	require.NoError(t, err)
	before := events.Items()

	bogus := domain.EventStatus("banquet")
	_, err = events.Update(ctx, before[0].ID, domain.UpdateEventRequest{Status: &bogus})
	require.Equal(t, listview.KindValidation, listview.KindOf(err))
	require.Equal(t, before, events.Items())
}

func Test_Me_ReturnsOperator(t *testing.T) {
	srv, _ := newBackend(t)
	c := loggedIn(t, srv)

	user, err := c.Me(context.Background())
	require.NoError(t, err)
	require.Equal(t, testEmail, user.Email)

	require.NoError(t, c.Logout(context.Background()))
	_, err = c.Me(context.Background())
	require.Equal(t, listview.KindValidation, listview.KindOf(err))
}
