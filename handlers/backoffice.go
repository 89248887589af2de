package handlers

import (
	"context"

	"orderdesk-backend/backoffice"
	"orderdesk-backend/cart"
)

// Backoffice is the part of the back-office client the handlers use.
type Backoffice interface {
	SearchProducts(ctx context.Context, creds backoffice.Credentials, q backoffice.ProductQuery) (backoffice.ProductPage, error)
	SearchCustomers(ctx context.Context, creds backoffice.Credentials, search string) ([]backoffice.Customer, error)
	PaymentMethods(ctx context.Context, creds backoffice.Credentials) ([]backoffice.PaymentMethod, error)
	CreateOrder(ctx context.Context, creds backoffice.Credentials, sub cart.Submission) (backoffice.OrderResult, error)
}
