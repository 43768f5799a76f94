// Package handler exposes the services over HTTP with gin.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/mkale/splitledger/internal/auth"
	"github.com/mkale/splitledger/internal/service"
)

var validate = validator.New()

// fieldError is one invalid request field.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// bindAndValidate decodes the JSON body into req and runs struct
// validation, writing the 400 response itself on failure.
func bindAndValidate(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return false
	}

	err := validate.Struct(req)
	if err == nil {
		return true
	}

	var details []fieldError
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details = append(details, fieldError{Field: fe.Field(), Message: validationMessage(fe)})
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request data", "details": details})
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "invalid email format"
	case "gt":
		return "value must be greater than " + fe.Param()
	case "min":
		return "value is too short"
	default:
		return "invalid value"
	}
}

// respondError maps service and auth errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var aerr *service.AuthorizationError
	var nerr *service.NotFoundError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Message})
	case errors.As(err, &aerr):
		c.JSON(http.StatusForbidden, gin.H{"message": aerr.Message})
	case errors.As(err, &nerr):
		c.JSON(http.StatusNotFound, gin.H{"message": nerr.Message})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": err.Error()})
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	default:
		slog.Error("request handling failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal server error"})
	}
}
