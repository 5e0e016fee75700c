// Package listview holds the client-side list state for one entity type and
// applies mutations to it optimistically: the visible effect of an update or
// delete lands synchronously, before the server round-trip, and is rolled
// back to an explicit pre-mutation snapshot if the call fails.
package listview

import (
	"context"
	"slices"
	"sync"

	"festops/internal/domain"
)

// Item is any record with a stable unique identifier.
type Item interface {
	ItemID() string
}

// Remote is the transport behind a controller. Implementations must return
// errors already normalized into *Error (see StatusError/NetworkError) and
// must decode date fields into time.Time before handing items back.
type Remote[T Item, C any, P any] interface {
	List(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[T], error)
	Create(ctx context.Context, input C) (T, error)
	Update(ctx context.Context, id string, patch P) (T, error)
	Delete(ctx context.Context, id string) error
}

// MergeFunc produces the optimistic local guess for an updated item: the
// current item shallow-merged with the patch, with its modification stamp
// refreshed. The server's returned representation replaces the guess on
// success, so derived fields the merge cannot know about are reconciled.
type MergeFunc[T Item, P any] func(item T, patch P) T

// Controller owns the cached page of one entity list. Each instance is
// independent; two views over the same entity get two controllers and cannot
// interfere with each other.
//
// The mutex guards only the synchronous phases (snapshot, optimistic apply,
// reconcile, rollback). Network calls run outside the lock, so the
// optimistic state stays readable for the whole duration of the call and
// mutations on distinct items proceed independently.
type Controller[T Item, C any, P any] struct {
	remote Remote[T, C, P]
	merge  MergeFunc[T, P]

	mu         sync.Mutex
	items      []T
	pagination domain.Pagination
	query      domain.ListQuery
	fetched    bool
}

// NewController creates an empty controller; call Fetch to load the first
// page.
func NewController[T Item, C any, P any](remote Remote[T, C, P], merge MergeFunc[T, P]) *Controller[T, C, P] {
	return &Controller[T, C, P]{remote: remote, merge: merge}
}

// Items returns a copy of the current list. The copy is safe to hold across
// later mutations.
func (c *Controller[T, C, P]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Pagination returns the page metadata from the last successful fetch.
func (c *Controller[T, C, P]) Pagination() domain.Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination
}

// Query returns the parameters of the last successful fetch.
func (c *Controller[T, C, P]) Query() domain.ListQuery {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Fetched reports whether at least one fetch has completed.
func (c *Controller[T, C, P]) Fetched() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetched
}

// Fetch replaces the list wholesale with the server's page. On failure the
// previous state is retained unchanged. A fetch that completes while a
// mutation is still in flight overwrites the optimistic state:
// last-fetch-wins, there is no merging.
func (c *Controller[T, C, P]) Fetch(ctx context.Context, q domain.ListQuery) error {
	q = q.Normalize()
	resp, err := c.remote.List(ctx, q)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = dedupe(resp.Items)
	c.pagination = resp.Pagination
	c.query = q
	c.fetched = true
	c.mu.Unlock()
	return nil
}

// Create sends the creation request and, only after the server confirms,
// inserts the returned item at the head of the list. Nothing is added
// optimistically, so a failed create leaves the list untouched. Pagination
// totals are left stale until the next fetch.
func (c *Controller[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	created, err := c.remote.Create(ctx, input)
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	kept := make([]T, 0, len(c.items)+1)
	kept = append(kept, created)
	for _, it := range c.items {
		if it.ItemID() != created.ItemID() {
			kept = append(kept, it)
		}
	}
	c.items = kept
	c.mu.Unlock()
	return created, nil
}

// Update applies the merged patch to the matching item synchronously, then
// confirms with the server. On success the server's representation replaces
// the local guess; on failure the list is restored to the exact pre-mutation
// snapshot and the error is returned. An id not present locally makes the
// optimistic phase a no-op, but the remote call still proceeds.
func (c *Controller[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	c.mu.Lock()
	snapshot := slices.Clone(c.items)
	next := slices.Clone(c.items)
	for i, it := range next {
		if it.ItemID() == id {
			next[i] = c.merge(it, patch)
			break
		}
	}
	c.items = next
	c.mu.Unlock()

	updated, err := c.remote.Update(ctx, id, patch)
	if err != nil {
		c.mu.Lock()
		c.items = snapshot
		c.mu.Unlock()
		var zero T
		return zero, err
	}

	c.mu.Lock()
	// Reconcile against the items as they are now, not the snapshot: a
	// concurrent mutation on another item must not be undone.
	for i, it := range c.items {
		if it.ItemID() == id {
			c.items[i] = updated
			break
		}
	}
	c.mu.Unlock()
	return updated, nil
}

// Delete removes the matching item synchronously, then confirms with the
// server. On failure the snapshot is restored, putting the item back in its
// original position. On success nothing further happens; pagination totals
// are corrected by the next fetch.
func (c *Controller[T, C, P]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	snapshot := slices.Clone(c.items)
	next := make([]T, 0, len(c.items))
	for _, it := range c.items {
		if it.ItemID() != id {
			next = append(next, it)
		}
	}
	c.items = next
	c.mu.Unlock()

	if err := c.remote.Delete(ctx, id); err != nil {
		c.mu.Lock()
		c.items = snapshot
		c.mu.Unlock()
		return err
	}
	return nil
}

// dedupe drops later entries sharing an id with an earlier one, preserving
// order. Server pages should never contain duplicates; the list invariant
// holds even if one does.
func dedupe[T Item](items []T) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ItemID()]; ok {
			continue
		}
		seen[it.ItemID()] = struct{}{}
		out = append(out, it)
	}
	return out
}
