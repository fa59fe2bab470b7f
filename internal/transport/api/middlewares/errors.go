package middlewares

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func statusErrorText(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "bad request"
	case http.StatusPaymentRequired:
		return "payment required"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "unprocessable entity"
	case http.StatusServiceUnavailable:
		return "service unavailable"
	default:
		return "internal server error"
	}
}

// validationErrorText собирает из ошибок валидатора текст вида "UserID: min=0; Amount: required".
func validationErrorText(errs validator.ValidationErrors) string {
	parts := make([]string, len(errs))
	for i, fieldErr := range errs {
		rule := fieldErr.Tag()
		if fieldErr.Param() != "" {
			rule = fmt.Sprintf("%s=%s", rule, fieldErr.Param())
		}
		parts[i] = fmt.Sprintf("%s: %s", fieldErr.Field(), rule)
	}
	return strings.Join(parts, "; ")
}

func Errors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		// обрабатываем только первую ошибку
		firstErr := c.Errors[0]
		var validationErrs validator.ValidationErrors
		var msg string
		switch {
		case firstErr.IsType(gin.ErrorTypePublic):
			msg = firstErr.Error()
		case firstErr.IsType(gin.ErrorTypeBind) && errors.As(firstErr.Err, &validationErrs):
			msg = validationErrorText(validationErrs)
		default:
			msg = statusErrorText(c.Writer.Status())
		}

		accept := c.GetHeader("Accept")
		contentType := c.GetHeader("Content-Type")
		switch {
		case strings.Contains(accept, "application/json"),
			strings.Contains(contentType, "application/json"):
			c.JSON(c.Writer.Status(), gin.H{"error": msg})
		default:
			c.String(c.Writer.Status(), msg)
		}
		c.Abort()
	}
}
