/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

package display

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/UnifyEM/uemauth/common/communications"
)

func TestDescribe(t *testing.T) {
	httpErr := &communications.HTTPError{StatusCode: http.StatusConflict}
	assert.Equal(t, "server returned HTTP 409", Describe(fmt.Errorf("register: %w", httpErr)))

	authErr := &communications.AuthError{Original: httpErr, Refresh: errors.New("rejected")}
	assert.Contains(t, Describe(authErr), "log in again")

	assert.Equal(t, "plain", Describe(errors.New("plain")))
}

func TestPretty(t *testing.T) {
	var buf bytes.Buffer
	old := Out
	Out = &buf
	t.Cleanup(func() { Out = old })

	Pretty(map[string]string{"login": "alice"})
	assert.Contains(t, buf.String(), `"login": "alice"`)
}
