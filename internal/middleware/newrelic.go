package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"

	"triplog/internal/maps"
	"triplog/internal/service"
)

// NewRelicErrorNotice reports server errors and distance resolution failures
// on the New Relic transaction started by nrgin.
func NewRelicErrorNotice() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		txn := nrgin.Transaction(c)
		if txn == nil || len(c.Errors) == 0 {
			return
		}

		txn.AddAttribute("request_id", GetRequestID(c))
		for _, ginErr := range c.Errors {
			err := ginErr.Err

			var resErr *service.ResolutionError
			switch {
			case errors.As(err, &resErr):
				txn.AddAttribute("failure_reason", resErr.Reason)
			case maps.IsResolutionFailure(err):
				txn.AddAttribute("failure_reason", maps.Reason(err))
			case c.Writer.Status() < http.StatusInternalServerError:
				continue
			}
			txn.NoticeError(err)
		}
	}
}
