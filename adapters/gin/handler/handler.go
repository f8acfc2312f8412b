package handler

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Felo0o0/PrimeSecure/adapters/log"
	"github.com/Felo0o0/PrimeSecure/blame"
	"github.com/Felo0o0/PrimeSecure/result"
	"github.com/Felo0o0/PrimeSecure/utils/constant"
	"github.com/Felo0o0/PrimeSecure/utils/helpers"
	"github.com/Felo0o0/PrimeSecure/utils/structures/acknowledgment"
	"github.com/gin-gonic/gin"
)

// RequestHandler handles one request and returns its payload or a blame.
type RequestHandler[T any] func(c *gin.Context) result.Result[T]

// ExecuteControllerHandler adapts a RequestHandler to gin, writing the
// enveloped result. A panic in the handler becomes an InternalServerError.
func ExecuteControllerHandler[T any](logger *log.Log, handler RequestHandler[T]) gin.HandlerFunc {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return func(c *gin.Context) {
		var handlerResult result.Result[T]
		defer func() {
			if exception := recover(); exception != nil {
				handleException(c, logger, exception)
				return
			}
			processResult(c, logger, handlerResult)
		}()

		handlerResult = handler(c)
	}
}

// WriteError sends err as a translated error envelope.
func WriteError(c *gin.Context, logger *log.Log, err error) {
	b := blame.AsBlame(err)
	if b == nil {
		b = blame.InternalServerError(fmt.Errorf("failure without error"))
	}
	status := helpers.FetchHTTPStatusCode(b.FetchResponseType())
	if status >= http.StatusInternalServerError {
		logger.Error(constant.HandlerFailed, log.String("path", c.FullPath()), log.Blame(b))
	} else {
		logger.Warn(constant.HandlerFailed, log.String("path", c.FullPath()), log.Blame(b))
	}
	c.AbortWithStatusJSON(status, acknowledgment.NewAPIResponse(false, RequestID(c),
		b.FetchErrorResponse(blame.WithTranslation())))
}

// RequestID returns the id set by the request id middleware.
func RequestID(c *gin.Context) string {
	return c.GetString(constant.RequestID)
}

// handleException logs the panic and answers with an internal error.
func handleException(c *gin.Context, logger *log.Log, exception any) {
	logger.Error("exception occurred in handler",
		log.Any("error", exception),
		log.String("stack", string(debug.Stack())))
	WriteError(c, logger, blame.InternalServerError(fmt.Errorf("panic: %v", exception)))
}

// processResult writes the result as an APIResponse.
func processResult[T any](c *gin.Context, logger *log.Log, res result.Result[T]) {
	if res == nil {
		WriteError(c, logger, blame.InternalServerError(fmt.Errorf("handler returned no result")))
		return
	}
	if !res.IsSuccess() {
		WriteError(c, logger, res.Error())
		return
	}

	data, _ := res.Value()
	c.JSON(http.StatusOK, acknowledgment.NewAPIResponse(true, RequestID(c), data))
}
