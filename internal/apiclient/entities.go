package apiclient

import (
	"context"
	"net/http"

	"festops/internal/domain"
	"festops/internal/listview"
)

// resource maps one REST entity onto the listview.Remote contract. Date
// fields decode straight into time.Time via encoding/json, so items are
// ready for the controller the moment they arrive.
type resource[T listview.Item, C any, P any] struct {
	client *Client
	path   string
}

func (r resource[T, C, P]) List(ctx context.Context, q domain.ListQuery) (*domain.ListResponse[T], error) {
	var resp domain.ListResponse[T]
	if err := r.client.do(ctx, http.MethodGet, r.path, encodeListQuery(q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r resource[T, C, P]) Create(ctx context.Context, input C) (T, error) {
	var item T
	if err := r.client.do(ctx, http.MethodPost, r.path, nil, input, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (r resource[T, C, P]) Update(ctx context.Context, id string, patch P) (T, error) {
	var item T
	if err := r.client.do(ctx, http.MethodPatch, r.path+"/"+id, nil, patch, &item); err != nil {
		var zero T
		return zero, err
	}
	return item, nil
}

func (r resource[T, C, P]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.path+"/"+id, nil, nil, nil)
}

// EventsRemote is the raw transport for the events list.
func (c *Client) EventsRemote() listview.Remote[domain.Event, domain.CreateEventRequest, domain.UpdateEventRequest] {
	return resource[domain.Event, domain.CreateEventRequest, domain.UpdateEventRequest]{client: c, path: "/api/v1/events"}
}

// ClientsRemote is the raw transport for the clients list.
func (c *Client) ClientsRemote() listview.Remote[domain.Client, domain.CreateClientRequest, domain.UpdateClientRequest] {
	return resource[domain.Client, domain.CreateClientRequest, domain.UpdateClientRequest]{client: c, path: "/api/v1/clients"}
}

// PaymentsRemote is the raw transport for the payments list.
func (c *Client) PaymentsRemote() listview.Remote[domain.Payment, domain.CreatePaymentRequest, domain.UpdatePaymentRequest] {
	return resource[domain.Payment, domain.CreatePaymentRequest, domain.UpdatePaymentRequest]{client: c, path: "/api/v1/payments"}
}

// Events returns an optimistic list controller over the events API.
func (c *Client) Events() *listview.Controller[domain.Event, domain.CreateEventRequest, domain.UpdateEventRequest] {
	return listview.NewController(c.EventsRemote(), func(e domain.Event, p domain.UpdateEventRequest) domain.Event {
		return p.Apply(e)
	})
}

// Clients returns an optimistic list controller over the clients API.
func (c *Client) Clients() *listview.Controller[domain.Client, domain.CreateClientRequest, domain.UpdateClientRequest] {
	return listview.NewController(c.ClientsRemote(), func(cl domain.Client, p domain.UpdateClientRequest) domain.Client {
		return p.Apply(cl)
	})
}

// Payments returns an optimistic list controller over the payments API.
func (c *Client) Payments() *listview.Controller[domain.Payment, domain.CreatePaymentRequest, domain.UpdatePaymentRequest] {
	return listview.NewController(c.PaymentsRemote(), func(p domain.Payment, patch domain.UpdatePaymentRequest) domain.Payment {
		return patch.Apply(p)
	})
}
