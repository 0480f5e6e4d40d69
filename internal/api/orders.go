package api

import (
	"context"
	"fmt"

	"canteen-client/internal/model"
)

// CreateOrder submits an order. The CSRF handshake runs first when no
// token is held yet.
func (c *Client) CreateOrder(ctx context.Context, r *model.OrderRequest) (*model.Order, error) {
	req, err := c.mutating(ctx)
	if err != nil {
		return nil, err
	}

	var created model.Order
	resp, err := req.SetBody(r).SetResult(&created).Post("/api/orders/")
	if err != nil {
		return nil, c.transportError("create order", err)
	}
	if !resp.IsSuccess() {
		return nil, c.serverError(resp)
	}

	c.logger.Info().Int64("order_id", created.ID).Msg("order created")
	return &created, nil
}

// OrdersTable fetches the server-rendered orders table fragment,
// optionally filtered by status. This is the reconciliation pull: the
// caller replaces its rendered table with the returned fragment.
func (c *Client) OrdersTable(ctx context.Context, status string) (string, error) {
	req := c.http.R().SetContext(ctx).SetHeader("Accept", "text/html")
	if status != "" {
		req.SetQueryParam("status", status)
	}

	resp, err := req.Get("/api/orders/table/")
	if err != nil {
		return "", c.transportError("fetch orders table", err)
	}
	if !resp.IsSuccess() {
		return "", c.serverError(resp)
	}
	return string(resp.Body()), nil
}

// UpdateOrderStatus moves one order to a new status. The local view is
// not updated optimistically; the next reconciliation reflects the
// change.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	if !model.ValidOrderStatus(status) {
		return model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("unknown order status %q", status))
	}

	req, err := c.mutating(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetBody(map[string]string{"status": status}).
		Patch(fmt.Sprintf("/api/orders/%d/", orderID))
	if err != nil {
		return c.transportError("update order status", err)
	}
	if !resp.IsSuccess() {
		return c.serverError(resp)
	}

	c.logger.Info().Int64("order_id", orderID).Str("status", status).Msg("order status updated")
	return nil
}
