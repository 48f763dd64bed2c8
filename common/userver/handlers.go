/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package userver

import (
	"net/http"
	"os"
)

// HandlerHealth implements a health check for load balancers, etc.
func (s *HServer) HandlerHealth(_ *http.Request) JResponse {
	if s.DownFile != "" {
		if _, err := os.Stat(s.DownFile); err == nil {
			return Reply(http.StatusServiceUnavailable, "down", "server is shutting down")
		}
	}
	return Reply(http.StatusOK, "ok", "health check ok")
}

func (s *HServer) Handler404(_ *http.Request) JResponse {
	s.PenaltyBox()
	return Reply(http.StatusNotFound, "error", "object does not exist")
}

func (s *HServer) Handler405(_ *http.Request) JResponse {
	s.PenaltyBox()
	return Reply(http.StatusMethodNotAllowed, "error", "method not allowed")
}
