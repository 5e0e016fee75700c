package listview

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"festops/internal/domain"
)

// fakeRemote is a scriptable Remote over domain.Event.
type fakeRemote struct {
	mu sync.Mutex

	listResp   *domain.ListResponse[domain.Event]
	listErr    error
	createResp domain.Event
	createErr  error
	updateResp domain.Event
	updateErr  error
	deleteErr  error

	// updateGate, when non-nil, holds Update open until closed.
	updateGate chan struct{}

	updateCalls []string
	deleteCalls []string
	createCalls int
}

func (f *fakeRemote) List(_ context.Context, _ domain.ListQuery) (*domain.ListResponse[domain.Event], error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResp, nil
}

func (f *fakeRemote) Create(_ context.Context, _ domain.CreateEventRequest) (domain.Event, error) {
	f.mu.Lock()
	f.createCalls++
	resp, err := f.createResp, f.createErr
	f.mu.Unlock()
	if err != nil {
		return domain.Event{}, err
	}
	return resp, nil
}

func (f *fakeRemote) Update(_ context.Context, id string, _ domain.UpdateEventRequest) (domain.Event, error) {
	f.mu.Lock()
	f.updateCalls = append(f.updateCalls, id)
	gate := f.updateGate
	resp, err := f.updateResp, f.updateErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return domain.Event{}, err
	}
	return resp, nil
}

func (f *fakeRemote) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, id)
	return f.deleteErr
}

func mergeEvent(e domain.Event, patch domain.UpdateEventRequest) domain.Event {
	return patch.Apply(e)
}

func testEvents() []domain.Event {
	base := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	return []domain.Event{
		{ID: "e1", ClientID: "c1", Title: "Festa A", Date: base, Status: domain.EventPending, TotalValue: 150000, CreatedAt: base, UpdatedAt: base},
		{ID: "e2", ClientID: "c2", Title: "Festa B", Date: base.AddDate(0, 0, 7), Status: domain.EventConfirmed, TotalValue: 220000, CreatedAt: base, UpdatedAt: base},
		{ID: "e3", ClientID: "c1", Title: "Festa C", Date: base.AddDate(0, 1, 0), Status: domain.EventPending, TotalValue: 98000, CreatedAt: base, UpdatedAt: base},
	}
}

func newTestController(t *testing.T, remote *fakeRemote) *Controller[domain.Event, domain.CreateEventRequest, domain.UpdateEventRequest] {
	t.Helper()
	if remote.listResp == nil {
		items := testEvents()
		remote.listResp = &domain.ListResponse[domain.Event]{
			Items:      items,
			Pagination: domain.NewPagination(1, 20, int64(len(items))),
		}
	}
	ctrl := NewController[domain.Event, domain.CreateEventRequest, domain.UpdateEventRequest](remote, mergeEvent)
	require.NoError(t, ctrl.Fetch(context.Background(), domain.ListQuery{}))
	return ctrl
}

func statusPtr(s domain.EventStatus) *domain.EventStatus { return &s }

func Test_Fetch_InstallsWholePage(t *testing.T) {
	remote := &fakeRemote{}
	ctrl := newTestController(t, remote)

	require.Equal(t, testEvents(), ctrl.Items())
	require.Equal(t, int64(3), ctrl.Pagination().Total)
	require.True(t, ctrl.Fetched())
}

func Test_Fetch_FailureRetainsPreviousState(t *testing.T) {
	remote := &fakeRemote{}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	remote.mu.Lock()
	remote.listErr = StatusError(500, "boom")
	remote.mu.Unlock()

	err := ctrl.Fetch(context.Background(), domain.ListQuery{Page: 2})
	require.Error(t, err)
	require.Equal(t, KindServer, KindOf(err))
	require.Equal(t, before, ctrl.Items())
	require.Equal(t, 1, ctrl.Query().Page, "failed fetch must not install its query")
}

func Test_Fetch_DropsDuplicateIDs(t *testing.T) {
	items := testEvents()
	items = append(items, items[0])
	remote := &fakeRemote{listResp: &domain.ListResponse[domain.Event]{
		Items:      items,
		Pagination: domain.NewPagination(1, 20, 4),
	}}
	ctrl := newTestController(t, remote)

	requireUniqueIDs(t, ctrl.Items())
	require.Len(t, ctrl.Items(), 3)
}

func Test_Create_NothingAddedBeforeConfirmation(t *testing.T) {
	remote := &fakeRemote{createErr: StatusError(422, "title is required")}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	_, err := ctrl.Create(context.Background(), domain.CreateEventRequest{ClientID: "c1"})
	require.Error(t, err)
	require.Equal(t, KindValidation, KindOf(err))
	require.Equal(t, before, ctrl.Items())
}

func Test_Create_PrependsServerItem(t *testing.T) {
	created := domain.Event{ID: "e9", ClientID: "c3", Title: "Festa Nova", Status: domain.EventPending}
	remote := &fakeRemote{createResp: created}
	ctrl := newTestController(t, remote)

	got, err := ctrl.Create(context.Background(), domain.CreateEventRequest{ClientID: "c3", Title: "Festa Nova"})
	require.NoError(t, err)
	require.Equal(t, created, got)

	items := ctrl.Items()
	require.Equal(t, "e9", items[0].ID)
	require.Len(t, items, 4)
	requireUniqueIDs(t, items)
	// Totals are deliberately stale until the next fetch.
	require.Equal(t, int64(3), ctrl.Pagination().Total)
}

func Test_Create_ReplacesExistingID(t *testing.T) {
	created := domain.Event{ID: "e2", Title: "Festa B v2", Status: domain.EventConfirmed}
	remote := &fakeRemote{createResp: created}
	ctrl := newTestController(t, remote)

	_, err := ctrl.Create(context.Background(), domain.CreateEventRequest{ClientID: "c2", Title: "Festa B v2"})
	require.NoError(t, err)

	items := ctrl.Items()
	require.Len(t, items, 3)
	requireUniqueIDs(t, items)
	require.Equal(t, "Festa B v2", items[0].Title)
}

func Test_Update_OptimisticEditVisibleDuringCall(t *testing.T) {
	gate := make(chan struct{})
	remote := &fakeRemote{updateGate: gate}
	ctrl := newTestController(t, remote)

	server := testEvents()[0]
	server.Status = domain.EventConfirmed
	server.UpdatedAt = time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	remote.mu.Lock()
	remote.updateResp = server
	remote.mu.Unlock()

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Update(context.Background(), "e1", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
		done <- err
	}()

	// The merge lands synchronously before the remote call returns; poll
	// only to let the goroutine reach its blocked Update.
	require.Eventually(t, func() bool {
		items := ctrl.Items()
		return items[0].Status == domain.EventConfirmed
	}, time.Second, time.Millisecond)
	require.Equal(t, "Festa A", ctrl.Items()[0].Title, "merge must not touch other fields")

	close(gate)
	require.NoError(t, <-done)
	require.Equal(t, server, ctrl.Items()[0], "server representation wins over local merge")
}

func Test_Update_RollbackRestoresSnapshotExactly(t *testing.T) {
	remote := &fakeRemote{updateErr: StatusError(500, "storage unavailable")}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	_, err := ctrl.Update(context.Background(), "e1", domain.UpdateEventRequest{Status: statusPtr(domain.EventCancelled)})
	require.Error(t, err)
	require.Equal(t, KindServer, KindOf(err))
	require.Equal(t, before, ctrl.Items(), "no leftover optimistic fields after rollback")
}

func Test_Update_MissingIDIsLocalNoOp(t *testing.T) {
	remote := &fakeRemote{updateResp: domain.Event{ID: "ghost"}}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	_, err := ctrl.Update(context.Background(), "ghost", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
	require.NoError(t, err)
	require.Equal(t, before, ctrl.Items())
	require.Equal(t, []string{"ghost"}, remote.updateCalls, "remote call still proceeds")
}

func Test_Update_ReconciliationKeepsSingleEntry(t *testing.T) {
	server := testEvents()[1]
	server.Status = domain.EventCompleted
	server.UpdatedAt = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	remote := &fakeRemote{updateResp: server}
	ctrl := newTestController(t, remote)

	got, err := ctrl.Update(context.Background(), "e2", domain.UpdateEventRequest{Status: statusPtr(domain.EventCompleted)})
	require.NoError(t, err)
	require.Equal(t, server, got)

	items := ctrl.Items()
	requireUniqueIDs(t, items)
	var matches []domain.Event
	for _, it := range items {
		if it.ID == "e2" {
			matches = append(matches, it)
		}
	}
	require.Len(t, matches, 1)
	require.Equal(t, server, matches[0])
}

func Test_Delete_RemovesImmediately(t *testing.T) {
	remote := &fakeRemote{}
	ctrl := newTestController(t, remote)

	require.NoError(t, ctrl.Delete(context.Background(), "e2"))
	items := ctrl.Items()
	require.Len(t, items, 2)
	for _, it := range items {
		require.NotEqual(t, "e2", it.ID)
	}
	require.Equal(t, int64(3), ctrl.Pagination().Total, "totals corrected by the next fetch, not locally")
}

func Test_Delete_RollbackRestoresOriginalPosition(t *testing.T) {
	remote := &fakeRemote{deleteErr: NetworkError(errors.New("connection reset"))}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	err := ctrl.Delete(context.Background(), "e2")
	require.Error(t, err)
	require.Equal(t, KindNetwork, KindOf(err))
	require.Equal(t, before, ctrl.Items(), "item restored at its original index")
}

func Test_Delete_MissingIDIsLocalNoOp(t *testing.T) {
	remote := &fakeRemote{}
	ctrl := newTestController(t, remote)
	before := ctrl.Items()

	require.NoError(t, ctrl.Delete(context.Background(), "ghost"))
	require.Equal(t, before, ctrl.Items())
	require.Equal(t, []string{"ghost"}, remote.deleteCalls)
}

// The literal scenario: pending -> confirmed, success and failure paths.
func Test_Update_ConfirmScenario(t *testing.T) {
	t.Run("success reconciles server timestamp", func(t *testing.T) {
		server := testEvents()[0]
		server.Status = domain.EventConfirmed
		server.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		remote := &fakeRemote{updateResp: server}
		ctrl := newTestController(t, remote)

		_, err := ctrl.Update(context.Background(), "e1", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
		require.NoError(t, err)

		got := ctrl.Items()[0]
		require.Equal(t, domain.EventConfirmed, got.Status)
		require.Equal(t, server.UpdatedAt, got.UpdatedAt)
	})

	t.Run("failure reverts to pending", func(t *testing.T) {
		remote := &fakeRemote{updateErr: StatusError(500, "boom")}
		ctrl := newTestController(t, remote)

		_, err := ctrl.Update(context.Background(), "e1", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
		require.Error(t, err)
		require.Equal(t, domain.EventPending, ctrl.Items()[0].Status)
	})
}

// Sequential mutations compose: each starts from whatever the list currently
// is, and ids stay unique throughout.
func Test_MutationSequenceKeepsIDsUnique(t *testing.T) {
	server := testEvents()[2]
	server.Status = domain.EventConfirmed
	remote := &fakeRemote{
		createResp: domain.Event{ID: "e4", Title: "Festa D", Status: domain.EventPending},
		updateResp: server,
	}
	ctrl := newTestController(t, remote)
	requireUniqueIDs(t, ctrl.Items())

	_, err := ctrl.Create(context.Background(), domain.CreateEventRequest{ClientID: "c1", Title: "Festa D"})
	require.NoError(t, err)
	requireUniqueIDs(t, ctrl.Items())

	_, err = ctrl.Update(context.Background(), "e3", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
	require.NoError(t, err)
	requireUniqueIDs(t, ctrl.Items())

	require.NoError(t, ctrl.Delete(context.Background(), "e1"))
	requireUniqueIDs(t, ctrl.Items())

	require.NoError(t, ctrl.Fetch(context.Background(), domain.ListQuery{}))
	requireUniqueIDs(t, ctrl.Items())
}

// Mutations on distinct items do not interfere: a delete confirmed while an
// update is still in flight survives the update's reconciliation.
func Test_ConcurrentMutationsOnDistinctItems(t *testing.T) {
	gate := make(chan struct{})
	server := testEvents()[0]
	server.Status = domain.EventConfirmed
	remote := &fakeRemote{updateGate: gate, updateResp: server}
	ctrl := newTestController(t, remote)

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Update(context.Background(), "e1", domain.UpdateEventRequest{Status: statusPtr(domain.EventConfirmed)})
		done <- err
	}()

	require.Eventually(t, func() bool {
		remote.mu.Lock()
		defer remote.mu.Unlock()
		return len(remote.updateCalls) == 1
	}, time.Second, time.Millisecond)

	require.NoError(t, ctrl.Delete(context.Background(), "e3"))

	close(gate)
	require.NoError(t, <-done)

	items := ctrl.Items()
	requireUniqueIDs(t, items)
	require.Len(t, items, 2)
	require.Equal(t, server, items[0])
	for _, it := range items {
		require.NotEqual(t, "e3", it.ID)
	}
}

func requireUniqueIDs(t *testing.T, items []domain.Event) {
	t.Helper()
	seen := map[string]bool{}
	for _, it := range items {
		require.False(t, seen[it.ID], "duplicate id %s", it.ID)
		seen[it.ID] = true
	}
}
