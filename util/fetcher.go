// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bitmark-inc/walletstate/fault"
)

// largest reply body accepted
const maximumReplySize = 16 << 20

// Request - one JSON call
type Request struct {
	Method string
	URL    string
	Token  string      // bearer token, optional
	Body   interface{} // encoded as JSON if not nil
}

// FetchJSON - perform a request and decode the JSON reply
//
// returns:
//
//	true, nil   reply was decoded
//	false, nil  the resource does not exist
//	false, err  fault.ErrUnauthorised for 401 and 403,
//	            fault.ErrRemoteUnavailable (wrapped) for 5xx, 429
//	            and transport failures,
//	            fault.ErrInvalidPayload for anything undecodable,
//	            the context error if the context ended
func FetchJSON(ctx context.Context, client *http.Client, r Request, reply interface{}) (bool, error) {
	method := r.Method
	if "" == method {
		method = http.MethodGet
	}

	var body io.Reader
	if nil != r.Body {
		buffer, err := json.Marshal(r.Body)
		if nil != err {
			return false, err
		}
		body = bytes.NewReader(buffer)
	}

	request, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if nil != err {
		return false, err
	}
	request.Header.Set("Accept", "application/json")
	if nil != body {
		request.Header.Set("Content-Type", "application/json")
	}
	if "" != r.Token {
		request.Header.Set("Authorization", "Bearer "+r.Token)
	}

	response, err := client.Do(request)
	if nil != err {
		if nil != ctx.Err() {
			return false, ctx.Err()
		}
		return false, fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
	}
	defer response.Body.Close()

	data, err := io.ReadAll(io.LimitReader(response.Body, maximumReplySize))
	if nil != err {
		return false, fmt.Errorf("%w: %s", fault.ErrRemoteUnavailable, err)
	}

	switch {
	case http.StatusUnauthorized == response.StatusCode, http.StatusForbidden == response.StatusCode:
		return false, fault.ErrUnauthorised
	case http.StatusNotFound == response.StatusCode, http.StatusNoContent == response.StatusCode:
		return false, nil
	case http.StatusTooManyRequests == response.StatusCode, response.StatusCode >= 500:
		return false, fmt.Errorf("%w: status: %d on: %q", fault.ErrRemoteUnavailable, response.StatusCode, r.URL)
	case response.StatusCode < 200 || response.StatusCode > 299:
		return false, fmt.Errorf("%w: status: %d on: %q", fault.ErrInvalidPayload, response.StatusCode, r.URL)
	}

	if nil == reply {
		return true, nil
	}
	err = json.Unmarshal(data, reply)
	if nil != err {
		return false, fmt.Errorf("%w: %s", fault.ErrInvalidPayload, err)
	}
	return true, nil
}
