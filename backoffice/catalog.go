package backoffice

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"orderdesk-backend/cache"
)

// SearchProducts returns one page of the catalog.
func (c *Client) SearchProducts(ctx context.Context, creds Credentials, q ProductQuery) (ProductPage, error) {
	const op = "product search"
	body, err := c.do(ctx, op, http.MethodGet, "/product", q.values(), creds, nil)
	if err != nil {
		return ProductPage{}, err
	}

	var page ProductPage
	if err := decodeObject(body, &page); err != nil {
		return ProductPage{}, &DecodeError{Op: op, Err: err}
	}
	if page.Data == nil {
		return ProductPage{}, &DecodeError{Op: op, Err: errors.New(`missing "data" list`)}
	}
	for i, p := range page.Data {
		if err := p.validate(); err != nil {
			return ProductPage{}, &DecodeError{Op: op, Err: fmt.Errorf("item %d: %w", i, err)}
		}
	}
	return page, nil
}

// SearchCustomers looks customers up by name or phone. Results are cached
// briefly per shop and search term.
func (c *Client) SearchCustomers(ctx context.Context, creds Credentials, search string) ([]Customer, error) {
	const op = "customer search"
	search = strings.TrimSpace(search)
	key := "customers:" + strconv.Itoa(creds.ShopID) + ":" + strings.ToLower(search)

	return cachedLookup(ctx, c, key, customerCacheTTL, func() ([]Customer, error) {
		query := url.Values{}
		query.Set("search", search)
		body, err := c.do(ctx, op, http.MethodGet, "/customer", query, creds, nil)
		if err != nil {
			return nil, err
		}

		var customers []Customer
		if err := decodeList(body, &customers); err != nil {
			return nil, &DecodeError{Op: op, Err: err}
		}
		for i, cu := range customers {
			if cu.ID <= 0 {
				return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: customer id missing", i)}
			}
		}
		return customers, nil
	})
}

// PaymentMethods lists the shop's payment methods, cached per shop.
func (c *Client) PaymentMethods(ctx context.Context, creds Credentials) ([]PaymentMethod, error) {
	const op = "payment methods"
	key := "payment-methods:" + strconv.Itoa(creds.ShopID)

	return cachedLookup(ctx, c, key, c.cacheTTL, func() ([]PaymentMethod, error) {
		body, err := c.do(ctx, op, http.MethodGet, "/get-payment-methods", nil, creds, nil)
		if err != nil {
			return nil, err
		}
		var methods []PaymentMethod
		if err := decodeList(body, &methods); err != nil {
			return nil, &DecodeError{Op: op, Err: err}
		}
		for i, m := range methods {
			if m.ID <= 0 {
				return nil, &DecodeError{Op: op, Err: fmt.Errorf("item %d: payment method id missing", i)}
			}
		}
		return methods, nil
	})
}

// cachedLookup serves key from the lookup cache, falling back to fetch. Cache
// failures are logged and otherwise ignored.
func cachedLookup[T any](ctx context.Context, c *Client, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if c.cache != nil {
		var cached T
		err := c.cache.Get(ctx, key, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("lookup cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	value, err := fetch()
	if err != nil {
		return value, err
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, value, ttl); err != nil {
			c.log.Warn("lookup cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
