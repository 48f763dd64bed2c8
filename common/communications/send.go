/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package communications

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/UnifyEM/uemauth/common/fields"
	"github.com/UnifyEM/uemauth/common/schema"
)

// Do sends the exchange. A 2xx response is returned untouched; any other
// status is returned together with an *HTTPError. A 401 triggers at most one
// refresh and replay for the exchange.
func (c *Communications) Do(ctx context.Context, ex *Exchange) (*Response, error) {
	if ex == nil {
		return nil, errors.New("exchange is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	resp, err := c.send(ctx, ex)
	return c.afterResponse(ctx, ex, resp, err)
}

// send performs a single attempt
func (c *Communications) send(ctx context.Context, ex *Exchange) (*Response, error) {
	httpReq, err := c.newRequest(ctx, ex)
	if err != nil {
		return nil, err
	}
	ex.sentToken = c.beforeRequest(httpReq)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	// Read the response body
	var responseBody bytes.Buffer
	_, err = responseBody.ReadFrom(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	r := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       responseBody.Bytes(),
	}

	c.logger.Debug(3001, "response received",
		fields.NewFields(
			fields.NewField("method", ex.Method),
			fields.NewField("path", ex.Path),
			fields.NewField("status", resp.StatusCode),
			fields.NewField("retried", ex.retried)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return r, &HTTPError{StatusCode: resp.StatusCode, Body: r.Body}
	}
	return r, nil
}

func (c *Communications) newRequest(ctx context.Context, ex *Exchange) (*http.Request, error) {
	url := ex.Path
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		if c.baseURL == "" {
			return nil, fmt.Errorf("no base URL for relative path %s", ex.Path)
		}
		if !strings.HasPrefix(url, "/") {
			url = "/" + url
		}
		url = c.baseURL + url
	}

	method := ex.Method
	if method == "" {
		method = http.MethodGet
	}

	// A fresh reader each time so the body can be replayed
	var body io.Reader
	if ex.Body != nil {
		body = bytes.NewReader(ex.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for name, values := range ex.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}

	if ex.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		httpReq.Header.Set("User-Agent", c.userAgent)
	}
	return httpReq, nil
}

// beforeRequest attaches the bearer token and returns it. It never fails: a
// store error is logged and the request continues with the default
// authorization, if any.
func (c *Communications) beforeRequest(httpReq *http.Request) string {
	token, err := c.store.Get(schema.AccessTokenName)
	if err != nil {
		c.logger.Warning(3002, "unable to read access token, continuing without it",
			fields.NewFields(fields.NewField("error", err.Error())))
		token = ""
	}

	if token == "" {
		token = c.defaultToken()
	}

	if token != "" {
		httpReq.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	return token
}
