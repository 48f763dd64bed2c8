/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/UnifyEM/uemauth/common/fields"
)

type contextKey int

const (
	authDetailsKey contextKey = iota
	requestIDKey
)

// AuthDetails returns what the route's AuthFunc attached to the request
func AuthDetails(req *http.Request) any {
	return req.Context().Value(authDetailsKey)
}

// RequestID returns the ID assigned to the request by Wrapper
func RequestID(req *http.Request) string {
	id, _ := req.Context().Value(requestIDKey).(string)
	return id
}

// ResponseWriterWrapper wraps a http.ResponseWriter to capture the status code
type ResponseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

// WriteHeader captures the status code
func (rw *ResponseWriterWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Wrapper wraps a http.Handler to add standard headers, logging, and optionally authentication
func (s *HServer) Wrapper(handlerName string, h http.Handler, authFunc AuthFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		startTime := time.Now()
		src := RemoteIP(req)
		requestID := uuid.NewString()

		// Headers must be set before the handler writes the status
		for _, header := range s.Headers {
			w.Header().Set(header.Key, header.Value)
		}
		w.Header().Set("X-Request-ID", requestID)

		// Remove parameters from URI to avoid logging confidential information
		uri := strings.Split(req.RequestURI, "?")[0]

		ctx := context.WithValue(req.Context(), requestIDKey, requestID)

		if authFunc != nil {
			details, fail := authFunc(src, req.Header.Get("Authorization"))
			if fail != nil {
				s.Logger.Warning(s.SEid+12,
					"authentication failure",
					fields.NewFields(
						fields.NewField("src_ip", src),
						fields.NewField("method", req.Method),
						fields.NewField("uri", uri),
						fields.NewField("handler", handlerName),
						fields.NewField("status", fail.Status),
						fields.NewField("request_id", requestID)))

				// Impose a time penalty for failed authentication
				s.PenaltyBox()

				code := fail.Code
				if code == 0 {
					code = http.StatusUnauthorized
				}
				w.Header().Set("Content-Type", "application/json; charset=UTF-8")
				w.WriteHeader(code)
				_ = json.NewEncoder(w).Encode(fail)
				return
			}
			ctx = context.WithValue(ctx, authDetailsKey, details)
		}

		ctx, cancel := context.WithTimeout(ctx, time.Duration(s.HandlerTimeout)*time.Second)
		defer cancel()
		req = req.WithContext(ctx)

		rw := &ResponseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		h.ServeHTTP(rw, req)

		logFields := fields.NewFields(
			fields.NewField("code", rw.statusCode),
			fields.NewField("src_ip", src),
			fields.NewField("method", req.Method),
			fields.NewField("uri", uri),
			fields.NewField("handler", handlerName),
			fields.NewField("request_id", requestID),
			fields.NewField("duration", fmt.Sprintf("%.4f", time.Since(startTime).Seconds())))

		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logFields.Append(fields.NewField("timeout", "true"))
		}

		s.Logger.Info(s.SEid+10, "HTTP", logFields)
	})
}

// RemoteIP returns the remote IP address of the request, excluding the port number.
func RemoteIP(req *http.Request) string {

	// The X-Forwarded-For header can contain multiple IPs, take the first one
	forwarded := req.Header.Get("X-Forwarded-For")
	if forwarded != "" {
		ip := strings.Split(forwarded, ",")[0]
		return strings.TrimSpace(ip)
	}

	ip, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return ip
}
