// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holders_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitmark-inc/walletstate/fault"
	"github.com/bitmark-inc/walletstate/holders"
	"github.com/bitmark-inc/walletstate/record"
	"github.com/bitmark-inc/walletstate/signer"
)

func serviceStub(t *testing.T) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/user/wallet/connect":
			var in struct {
				Domain  string        `json:"domain"`
				Address string        `json:"address"`
				Proof   *signer.Proof `json:"proof"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			if nil == in.Proof || "sig" != in.Proof.Signature {
				_, _ = w.Write([]byte(`{"ok":false}`))
				return
			}
			_, _ = w.Write([]byte(`{"ok":true,"token":"tok-` + in.Domain + `"}`))
		case "/v2/account/state":
			switch r.Header.Get("Authorization") {
			case "Bearer good":
				_, _ = w.Write([]byte(`{"state":"ok","accounts":[{"id":"a1","balance":"100","currency":"EUR","cards":[{"id":"c1","status":"active"}]}]}`))
			case "Bearer odd":
				_, _ = w.Write([]byte(`{"state":"sleeping","accounts":[]}`))
			default:
				w.WriteHeader(http.StatusUnauthorized)
			}
		case "/v2/offline/manifest":
			_, _ = w.Write([]byte(`{"version":"v9","files":["index.html"]}`))
		case "/v2/offline/v9/index.html":
			_, _ = w.Write([]byte("<html></html>"))
		case "/v2/offline/v9/limit.js":
			_, _ = w.Write(make([]byte, 32<<20))
		case "/v2/offline/v9/huge.js":
			_, _ = w.Write(make([]byte, 32<<20+1000))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestHTTPAPI(t *testing.T) {
	server := serviceStub(t)
	defer server.Close()

	api, err := holders.NewAPI(logger.New(logCategory), server.URL+"/")
	require.Nil(t, err, "new api")
	ctx := context.Background()
	a := testAddress(3)

	token, err := api.Enroll(ctx, "example", a, &signer.Proof{Signature: "sig"})
	require.Nil(t, err, "enroll")
	assert.Equal(t, "tok-example", token, "wrong token")

	_, err = api.Enroll(ctx, "example", a, &signer.Proof{Signature: "forged"})
	assert.Equal(t, fault.ErrUnauthorised, err, "refused enrolment")

	state, err := api.AccountState(ctx, "good")
	require.Nil(t, err, "state")
	assert.Equal(t, record.HoldersOK, state.State, "wrong state")
	require.Equal(t, 1, len(state.Accounts), "wrong account count")
	assert.Equal(t, "100", state.Accounts[0].Balance.String(), "wrong balance")

	_, err = api.AccountState(ctx, "bad")
	assert.Equal(t, fault.ErrUnauthorised, err, "bad token")

	_, err = api.AccountState(ctx, "odd")
	assert.Equal(t, fault.ErrInvalidPayload, err, "unknown state accepted")

	manifest, err := api.OfflineManifest(ctx)
	require.Nil(t, err, "manifest")
	assert.Equal(t, "v9", manifest.Version, "wrong version")

	data, err := api.Download(ctx, "v9", "index.html")
	require.Nil(t, err, "download")
	assert.Equal(t, "<html></html>", string(data), "wrong data")

	data, err = api.Download(ctx, "v9", "limit.js")
	require.Nil(t, err, "download at the size limit")
	assert.Equal(t, 32<<20, len(data), "wrong size at the limit")

	data, err = api.Download(ctx, "v9", "huge.js")
	assert.Equal(t, fault.ErrInvalidPayload, err, "oversized file accepted")
	assert.Nil(t, data, "oversized file returned data")

	_, err = api.Download(ctx, "v9", "absent.js")
	assert.True(t, fault.IsErrTransient(err), "missing file error: %v", err)

	_, err = holders.NewAPI(logger.New(logCategory), "")
	assert.Equal(t, fault.ErrMissingParameters, err, "empty url accepted")
}

func TestWebSocketWatcher(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if "Bearer good" != r.Header.Get("Authorization") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if nil != err {
			return
		}
		defer conn.Close()
		_ = conn.WriteJSON(map[string]string{"type": "connected"})
		_ = conn.WriteJSON(map[string]string{"type": "ping"})
		_ = conn.WriteJSON(map[string]string{"type": "card_changed"})
		_ = conn.WriteJSON(map[string]string{"type": "account_changed"})
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	watch := holders.WebSocket(logger.New(logCategory), url)

	events := int32(0)
	err := watch(context.Background(), "good", func() { atomic.AddInt32(&events, 1) })
	assert.Nil(t, err, "watch")
	assert.Equal(t, int32(2), atomic.LoadInt32(&events), "wrong event count")

	err = watch(context.Background(), "bad", func() {})
	assert.Equal(t, fault.ErrUnauthorised, err, "bad token")
}
