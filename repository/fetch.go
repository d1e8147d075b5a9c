// Copyright 2024 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package repository fetches, caches and resolves Maven artifact
// coordinates against a remote repository.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	retryablehttp "github.com/hashicorp/go-retryablehttp"
	logging "gopkg.in/op/go-logging.v1"
)

var log = logging.MustGetLogger("repository")

// ErrNotFound is returned by a Fetcher when the remote repository answers
// with a 404, or anything else that should be treated identically to one
// (timeouts included).
var ErrNotFound = errors.New("repository: not found")

// Fetcher is the HTTP boundary the resolver depends on: GET a URL, get
// back bytes, a not-found, or an error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// httpFetcher is the default Fetcher, backed by a retrying HTTP client so
// that a single flaky response doesn't fail an entire tree resolve.
type httpFetcher struct {
	client *retryablehttp.Client
}

// NewHTTPFetcher returns a Fetcher that retries transient failures with
// exponential backoff before giving up.
func NewHTTPFetcher() Fetcher {
	client := retryablehttp.NewClient()
	client.Logger = nil
	client.RetryMax = 3
	return &httpFetcher{client: client}
}

func (f *httpFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("repository: build request for %s: %w", url, err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		var netErr net.Error
		if ctx.Err() == nil && errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("repository: fetch %s: unexpected status %s", url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("repository: read body of %s: %w", url, err)
	}
	return data, nil
}
