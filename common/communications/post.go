/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Post sends a JSON payload to the specified endpoint and returns the response body.
func (c *Communications) Post(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	jsonData, err := marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	return c.sendRequest(ctx, http.MethodPost, endpoint, jsonData)
}

// Put sends a JSON payload with the PUT method
func (c *Communications) Put(ctx context.Context, endpoint string, payload any) (int, []byte, error) {
	jsonData, err := marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	return c.sendRequest(ctx, http.MethodPut, endpoint, jsonData)
}

// PostJSON posts payload and decodes a 2xx response into out. Options are
// applied to the exchange before it is sent.
func (c *Communications) PostJSON(ctx context.Context, endpoint string, payload any, out any, options ...func(*Exchange)) (int, error) {
	jsonData, err := marshal(payload)
	if err != nil {
		return 0, err
	}

	ex := NewExchange(http.MethodPost, endpoint, jsonData)
	for _, option := range options {
		option(ex)
	}
	return c.doJSON(ctx, ex, out)
}

// GetJSON decodes a 2xx response from endpoint into out
func (c *Communications) GetJSON(ctx context.Context, endpoint string, out any) (int, error) {
	return c.doJSON(ctx, NewExchange(http.MethodGet, endpoint, nil), out)
}

// SkipRefresh keeps the exchange out of the refresh protocol
func SkipRefresh(ex *Exchange) {
	ex.NoRefresh = true
}

func (c *Communications) doJSON(ctx context.Context, ex *Exchange, out any) (int, error) {
	resp, err := c.Do(ctx, ex)
	if err != nil {
		if resp != nil {
			return resp.StatusCode, err
		}
		return 0, err
	}

	if out != nil && len(resp.Body) > 0 {
		if err = json.Unmarshal(resp.Body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to deserialize response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

func marshal(payload any) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize request: %w", err)
	}
	return jsonData, nil
}
