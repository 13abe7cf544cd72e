package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nftmarket-lab/backend/pkg/errorx"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gtx *gin.Context) {
		ctx := gtx.Request.Context()
		for _, before := range router.befores {
			ctx = before(ctx)
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gtx.ShouldBindQuery(&req)
		case http.MethodPost:
			err = gtx.ShouldBindJSON(&req)
		}
		if err != nil {
			gtx.JSON(http.StatusOK,
				newErrorResponse(errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			gtx.JSON(http.StatusOK, newErrorResponse(err))
			return
		}

		gtx.JSON(http.StatusOK, newResponse(resp))
	}
}
