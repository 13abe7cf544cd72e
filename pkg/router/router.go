package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// BeforeFunc enriches the request context before the handler runs. It is how
// the server injects the database, logger and configs per request.
type BeforeFunc func(ctx context.Context) context.Context

type Router struct {
	Inner   gin.IRouter
	befores []BeforeFunc
}

func New() *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())
	return &Router{Inner: engine}
}

func (r *Router) Before(f BeforeFunc) {
	r.befores = append(r.befores, f)
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}
