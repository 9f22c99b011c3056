/*
 * Copyright 2025 InfAI (CC SES)
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	acceptHeaderKey         = "Accept"
	acceptEncodingHeaderKey = "Accept-Encoding"
	contentEncodingKey      = "Content-Encoding"
	appNameHeaderKey        = "Application-Name"
	appVersionHeaderKey     = "Application-Version"
	jsonMediaType           = "application/json"
	supportedEncodings      = "gzip, deflate"
	maxDocumentSize         = 64 << 20
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client retrieves source line documents and decodes compressed responses.
type Client struct {
	httpClient HTTPClient
	appName    string
	appVersion string
}

func New(httpClient HTTPClient, appName, appVersion string) *Client {
	return &Client{
		httpClient: httpClient,
		appName:    appName,
		appVersion: appVersion,
	}
}

func (c *Client) GetDocument(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(acceptHeaderKey, jsonMediaType)
	req.Header.Set(acceptEncodingHeaderKey, supportedEncodings)
	req.Header.Set(appNameHeaderKey, c.appName)
	req.Header.Set(appVersionHeaderKey, c.appVersion)
	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode >= 400 {
		b, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		if err != nil || len(b) == 0 {
			return nil, NewResponseError(res.StatusCode, res.Status)
		}
		return nil, NewResponseError(res.StatusCode, string(b))
	}
	b, err := io.ReadAll(io.LimitReader(res.Body, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxDocumentSize {
		return nil, fmt.Errorf("document exceeds %d bytes", maxDocumentSize)
	}
	return decode(strings.ToLower(strings.TrimSpace(res.Header.Get(contentEncodingKey))), b)
}

func decode(encoding string, b []byte) ([]byte, error) {
	switch encoding {
	case "", "identity":
		return b, nil
	case "gzip", "x-gzip":
		r, err := gzip.NewReader(bytes.NewReader(b))
		if err != nil {
			return nil, err
		}
		defer r.Close()
		return readAll(r)
	case "deflate":
		// servers disagree on whether deflate means zlib-wrapped or raw
		if r, err := zlib.NewReader(bytes.NewReader(b)); err == nil {
			defer r.Close()
			return readAll(r)
		}
		r := flate.NewReader(bytes.NewReader(b))
		defer r.Close()
		return readAll(r)
	default:
		return nil, fmt.Errorf("unsupported content encoding '%s'", encoding)
	}
}

func readAll(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, maxDocumentSize+1))
	if err != nil {
		return nil, err
	}
	if len(b) > maxDocumentSize {
		return nil, fmt.Errorf("decoded document exceeds %d bytes", maxDocumentSize)
	}
	return b, nil
}
