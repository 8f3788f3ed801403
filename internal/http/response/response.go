package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/safar/petshop/internal/database"
	"github.com/safar/petshop/internal/service"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondServiceError maps a domain error to its HTTP status. Errors with no
// known kind become a 500 whose message does not leak internals.
func RespondServiceError(c *gin.Context, err error) {
	_ = c.Error(err)

	status, code := Classify(err)
	if status == http.StatusInternalServerError {
		RespondError(c, status, code, errors.New("internal server error"))
		return
	}
	RespondError(c, status, code, err)
}

var notFound = []error{
	database.ErrUserNotFound,
	database.ErrProductNotFound,
	database.ErrCategoryNotFound,
	database.ErrCartNotFound,
	database.ErrCartItemNotFound,
	database.ErrWishlistNotFound,
	database.ErrOrderNotFound,
}

func Classify(err error) (int, string) {
	for _, target := range notFound {
		if errors.Is(err, target) {
			return http.StatusNotFound, "not_found"
		}
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput), database.IsOutOfRange(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrPermissionDenied):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, database.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, database.ErrCategoryInUse):
		return http.StatusConflict, "category_in_use"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
