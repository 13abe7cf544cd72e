package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nftmarket-lab/backend/pkg/errorx"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name" form:"name"`
	Limit int    `json:"limit" form:"limit"`
}

type echoResponse struct {
	Name  string `json:"name"`
	Limit int    `json:"limit"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func serve(t *testing.T, r *Router, method, target, body string) envelope {
	t.Helper()

	w := httptest.NewRecorder()
	r.Handler().ServeHTTP(w, httptest.NewRequest(method, target, strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func Test_router_bindsQueryAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := New()
	echo := func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{Name: req.Name, Limit: req.Limit}, nil
	}
	GET(r, "/echo", echo)
	POST(r, "/echo", echo)

	resp := serve(t, r, http.MethodGet, "/echo?name=alice&limit=3", "")
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "alice", Limit: 3}, resp.Data)

	resp = serve(t, r, http.MethodPost, "/echo", `{"name":"bob","limit":7}`)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "bob", Limit: 7}, resp.Data)
}

func Test_router_bindFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := New()
	GET(r, "/echo", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return &echoResponse{}, nil
	})

	resp := serve(t, r, http.MethodGet, "/echo?limit=not-a-number", "")
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Cannot bind the request", resp.Error)
}

func Test_router_errorEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := New()
	GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, errorx.New(errorx.NotFound, "Not found item listing")
	})
	GET(r, "/unknown", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, context.DeadlineExceeded
	})

	resp := serve(t, r, http.MethodGet, "/fail", "")
	require.Equal(t, int64(errorx.NotFound), resp.Code)
	require.Equal(t, "Not found item listing", resp.Error)

	// Errors that are not errorx values never leak their message.
	resp = serve(t, r, http.MethodGet, "/unknown", "")
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)
	require.Equal(t, errorx.Unknown.Message, resp.Error)
}

func Test_router_beforeEnrichesContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type key struct{}

	r := New()
	r.Before(func(ctx context.Context) context.Context {
		return context.WithValue(ctx, key{}, "enriched")
	})
	GET(r, "/ctx", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		value, _ := ctx.Value(key{}).(string)
		return &echoResponse{Name: value}, nil
	})

	resp := serve(t, r, http.MethodGet, "/ctx", "")
	require.Equal(t, "enriched", resp.Data.Name)
}
