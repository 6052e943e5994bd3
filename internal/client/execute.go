package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/userhub-io/userhub-client/internal/http"
	"github.com/userhub-io/userhub-client/pkg/userhub"
)

// execute runs one pipeline call and folds every outcome into an Envelope.
// Transport failures, remote error statuses, and undecodable bodies all
// come back as failure envelopes; nothing escapes as a Go error.
func execute[T any](ctx context.Context, httpClient *http.Client, req *http.Request) *userhub.Envelope[T] {
	resp, err := httpClient.Do(ctx, req)
	if err != nil {
		return userhub.Fail[T](asAPIError(err))
	}

	envelope := &userhub.Envelope[T]{
		Success:    true,
		StatusCode: resp.StatusCode,
		Meta:       userhub.ParseListMeta(resp.Headers),
	}

	if len(resp.Body) > 0 {
		var data T
		if err := json.Unmarshal(resp.Body, &data); err != nil {
			return userhub.Fail[T](userhub.NewAPIError(userhub.ErrorCodeUnknown,
				fmt.Sprintf("decoding response body: %v", err), resp.StatusCode, err))
		}

		envelope.Data = &data
	}

	return envelope
}

// executeNoContent is execute for calls whose success carries no payload.
func executeNoContent(ctx context.Context, httpClient *http.Client, req *http.Request) *userhub.Envelope[userhub.NoContent] {
	resp, err := httpClient.Do(ctx, req)
	if err != nil {
		return userhub.Fail[userhub.NoContent](asAPIError(err))
	}

	return &userhub.Envelope[userhub.NoContent]{
		Success:    true,
		StatusCode: resp.StatusCode,
	}
}

// asAPIError normalizes any error crossing the pipeline boundary. The
// pipeline always returns *userhub.APIError; anything else is a programming
// surprise folded into the unknown class.
func asAPIError(err error) *userhub.APIError {
	apiErr := &userhub.APIError{}
	if errors.As(err, &apiErr) {
		return apiErr
	}

	return userhub.NewAPIError(userhub.ErrorCodeUnknown, err.Error(), 0, err)
}
