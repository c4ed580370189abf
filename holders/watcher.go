// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package holders

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/gorilla/websocket"

	"github.com/bitmark-inc/walletstate/fault"
)

// time allowed without any frame from the service
const watchIdle = 90 * time.Second

// WatchFunc - deliver account events until ctx ends
//
// notify is called once per event; a nil return means the service
// closed the stream
type WatchFunc func(ctx context.Context, token string, notify func()) error

type event struct {
	Kind string `json:"type"`
}

// WebSocket - watcher reading events from a websocket endpoint
func WebSocket(log *logger.L, url string) WatchFunc {
	return func(ctx context.Context, token string, notify func()) error {
		header := http.Header{}
		header.Set("Authorization", "Bearer "+token)

		conn, response, err := websocket.DefaultDialer.DialContext(ctx, url, header)
		if nil != err {
			if nil != response && (http.StatusUnauthorized == response.StatusCode || http.StatusForbidden == response.StatusCode) {
				return fault.ErrUnauthorised
			}
			return fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
		}
		defer conn.Close()

		done := make(chan struct{})
		defer close(done)
		go func() {
			select {
			case <-ctx.Done():
				conn.Close()
			case <-done:
			}
		}()

		conn.SetPingHandler(func(data string) error {
			conn.SetReadDeadline(time.Now().Add(watchIdle))
			return conn.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(time.Second))
		})

		log.Debugf("watch: connected: %q", url)

		for {
			conn.SetReadDeadline(time.Now().Add(watchIdle))

			var e event
			err := conn.ReadJSON(&e)
			if nil != ctx.Err() {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			if nil != err {
				return fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
			}

			switch e.Kind {
			case "ping", "connected":
				log.Tracef("watch: %s", e.Kind)
			default:
				log.Debugf("watch: event: %q", e.Kind)
				notify()
			}
		}
	}
}
