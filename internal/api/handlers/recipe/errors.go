package recipe

import (
	"errors"

	"recipe-catalog/internal/core/catalog"
	"recipe-catalog/internal/pkg/common"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// toCustomError 將核心錯誤對應到 API 錯誤
func toCustomError(err error) *common.CustomError {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return common.ErrNotFound.WithCause(err)
	case errors.Is(err, catalog.ErrInvalidArgument):
		return common.ErrInvalidRequest.WithCause(err)
	case errors.Is(err, catalog.ErrParse):
		return common.ErrParse.WithCause(err)
	case errors.Is(err, catalog.ErrPersist):
		return common.ErrPersistFailed.WithCause(err)
	}
	return common.AsCustomError(err)
}

// respondError 寫出錯誤響應
func (h *Handler) respondError(c *gin.Context, err error) {
	ce := toCustomError(err)
	_ = c.Error(err)

	if ce.Status >= 500 {
		common.LogError("request failed",
			zap.String("code", ce.Code),
			zap.String("request_id", requestid.Get(c)),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(ce.Status, ce.Response(h.debug))
}

// badRequest 請求格式錯誤
func (h *Handler) badRequest(c *gin.Context, err error) {
	h.respondError(c, common.ErrInvalidRequest.WithCause(err))
}
