package square

import (
	"context"
	"strings"

	sq "github.com/square/square-go-sdk"
)

// SearchCustomerByEmail returns the first customer whose email matches
// exactly, or nil when no record exists.
func (c *Client) SearchCustomerByEmail(ctx context.Context, email string) (*sq.Customer, error) {
	if c == nil {
		return nil, errAccessTokenRequired
	}
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return nil, nil
	}

	req := &sq.SearchCustomersRequest{
		Query: &sq.CustomerQuery{
			Filter: &sq.CustomerFilter{
				EmailAddress: &sq.CustomerTextFilter{Exact: ptrString(trimmed)},
			},
		},
		Limit: int64Ptr(1),
	}
	c.log(ctx, "request", "search_customer", map[string]any{"email": trimmed})

	resp, err := c.sdk.Customers.Search(ctx, req)
	if err != nil {
		c.log(ctx, "error", "search_customer", map[string]any{"error": err.Error()})
		return nil, c.mapSquareError(err, "search customer")
	}

	customers := resp.GetCustomers()
	if len(customers) == 0 {
		c.log(ctx, "response", "search_customer", map[string]any{"found": false})
		return nil, nil
	}
	customer := customers[0]
	c.log(ctx, "response", "search_customer", map[string]any{
		"customer_id": stringValue(customer.GetID()),
	})
	return customer, nil
}

// EnsureCustomer reuses the buyer's existing customer record keyed by email
// and creates one only when the search comes back empty. Checkout supplies an
// email every time, so the search arm always runs.
func (c *Client) EnsureCustomer(ctx context.Context, params CustomerCreateParams) (*sq.Customer, error) {
	if c == nil {
		return nil, errAccessTokenRequired
	}
	customer, err := c.SearchCustomerByEmail(ctx, params.Email)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}
	return c.CreateCustomer(ctx, params)
}
