package router

import (
	"errors"

	"github.com/nftmarket-lab/backend/pkg/errorx"
)

// response is the envelope every endpoint answers with. Code zero means
// success; any other code is an errorx code and Error carries its message.
type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func newErrorResponse(err error) response {
	errx := errorx.Error{}
	if errors.As(err, &errx) {
		return response{Code: int64(errx.Code), Error: errx.Message}
	}

	return response{Code: int64(errorx.Unknown.Code), Error: errorx.Unknown.Message}
}
