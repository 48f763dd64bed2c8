/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package schema

// APIResponse is the body of every error response and of responses that
// carry no data. Status is one of the APIStatus constants.
type APIResponse struct {
	Status  string `json:"status" example:"error"`
	Code    int    `json:"code" example:"401"`
	Details string `json:"details,omitempty" example:"authentication failed"`
}

// NewAPIResponse is a convenience constructor used by handlers
func NewAPIResponse(status string, code int, details string) APIResponse {
	return APIResponse{Status: status, Code: code, Details: details}
}
