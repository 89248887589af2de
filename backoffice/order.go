package backoffice

import (
	"context"
	"errors"
	"net/http"

	"orderdesk-backend/cart"
)

// CreateOrder posts the submission. A flag=false answer becomes a
// *RejectedError carrying the back office's message.
func (c *Client) CreateOrder(ctx context.Context, creds Credentials, sub cart.Submission) (OrderResult, error) {
	const op = "order create"
	if sub.ShopID == 0 {
		sub.ShopID = creds.ShopID
	}

	body, err := c.do(ctx, op, http.MethodPost, "/order", nil, creds, sub)
	if err != nil {
		return OrderResult{}, err
	}

	var resp orderResponse
	if err := decodeObject(body, &resp); err != nil {
		return OrderResult{}, &DecodeError{Op: op, Err: err}
	}
	if !resp.Flag {
		return OrderResult{}, &RejectedError{Message: resp.Msg}
	}
	if resp.OrderID <= 0 {
		return OrderResult{}, &DecodeError{Op: op, Err: errors.New("order_id missing")}
	}
	return OrderResult{OrderID: int(resp.OrderID), Message: resp.Msg, Class: resp.Cls}, nil
}
