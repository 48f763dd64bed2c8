/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"context"
	"net/http"
	"net/url"
)

// Get sends a GET request to the specified endpoint and returns the response body.
func (c *Communications) Get(ctx context.Context, endpoint string) (int, []byte, error) {
	return c.sendRequest(ctx, http.MethodGet, endpoint, nil)
}

// GetQuery adds the pairs to endpoint as query parameters
func (c *Communications) GetQuery(ctx context.Context, endpoint string, pairs map[string]string) (int, []byte, error) {
	if len(pairs) > 0 {
		query := url.Values{}
		for n, v := range pairs {
			query.Set(n, v)
		}
		endpoint += "?" + query.Encode()
	}
	return c.sendRequest(ctx, http.MethodGet, endpoint, nil)
}

// sendRequest is the (status, body, error) form of Do
func (c *Communications) sendRequest(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	resp, err := c.Do(ctx, NewExchange(method, endpoint, payload))
	if resp == nil {
		return 0, nil, err
	}
	return resp.StatusCode, resp.Body, err
}
