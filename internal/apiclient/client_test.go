package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"festops/internal/domain"
	"festops/internal/listview"
)

func Test_ErrorNormalization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/events/bad":
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"error": "unknown status"})
		case "/api/v1/events/boom":
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "storage unavailable"})
		default:
			// Non-JSON error body falls back to status text.
			http.Error(w, "plain text", http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)
	remote := c.EventsRemote()
	ctx := context.Background()

	_, err = remote.Update(ctx, "bad", domain.UpdateEventRequest{})
	var lerr *listview.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, listview.KindValidation, lerr.Kind)
	require.Equal(t, 422, lerr.Status)
	require.Equal(t, "unknown status", lerr.Message)

	_, err = remote.Update(ctx, "boom", domain.UpdateEventRequest{})
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, listview.KindServer, lerr.Kind)

	_, err = remote.Update(ctx, "other", domain.UpdateEventRequest{})
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, listview.KindServer, lerr.Kind)
	require.Equal(t, http.StatusText(http.StatusBadGateway), lerr.Message)
}

func Test_NetworkFailureIsNormalized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse all connections

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	_, err = c.EventsRemote().List(context.Background(), domain.ListQuery{})
	var lerr *listview.Error
	require.ErrorAs(t, err, &lerr)
	require.Equal(t, listview.KindNetwork, lerr.Kind)
	require.Zero(t, lerr.Status)
}

func Test_ListQueryEncoding(t *testing.T) {
	var captured *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		json.NewEncoder(w).Encode(domain.ListResponse[domain.Event]{})
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	q := domain.ListQuery{
		Page:      3,
		Limit:     25,
		SortBy:    "date",
		SortOrder: domain.SortAsc,
		Search:    "festa",
	}.WithFilter(domain.FilterStatus, "confirmed")
	_, err = c.EventsRemote().List(context.Background(), q)
	require.NoError(t, err)

	require.Equal(t, "/api/v1/events", captured.URL.Path)
	values := captured.URL.Query()
	require.Equal(t, "3", values.Get("page"))
	require.Equal(t, "25", values.Get("limit"))
	require.Equal(t, "date", values.Get("sortBy"))
	require.Equal(t, "asc", values.Get("sortOrder"))
	require.Equal(t, "festa", values.Get("search"))
	require.Equal(t, "confirmed", values.Get("status"))
}

func Test_DatesDecodeIntoTime(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(domain.ListResponse[domain.Event]{
			Items: []domain.Event{{
				ID: "e1", Title: "Festa A",
				Date: time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC),
			}},
			Pagination: domain.NewPagination(1, 20, 1),
		})
	}))
	defer srv.Close()

	c, err := New(srv.URL, time.Second)
	require.NoError(t, err)

	resp, err := c.EventsRemote().List(context.Background(), domain.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC), resp.Items[0].Date)
}
