package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"car_dealership/internal/middleware"
	"car_dealership/internal/model"
	"car_dealership/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	// Report validation failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// success writes a success envelope: {"success": true, ...payload}.
func success(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func failFields(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": fields})
}

// respondError maps service errors to HTTP responses. Unknown errors are logged and
// reported as a generic 500 naming only the failed action.
func respondError(c *gin.Context, err error, action string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		failFields(c, verr.Fields)
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		fail(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrForbidden):
		fail(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrCarNotFound), errors.Is(err, service.ErrMessageNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrAlreadyFavorite), errors.Is(err, service.ErrNotFavorite), errors.Is(err, service.ErrCannotDeleteAdmin):
		fail(c, http.StatusBadRequest, err.Error())
	default:
		log.Printf("Error %s: %v", action, err)
		fail(c, http.StatusInternalServerError, "Failed to "+action)
	}
}

// bindJSON decodes and validates the body into req, writing a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = validationMessage(fe)
		}
		failFields(c, fields)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		failFields(c, map[string]string{typeErr.Field: "invalid type, expected " + typeErr.Type.String()})
	default:
		fail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
	}
	return false
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "max":
		return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return "invalid value"
	}
}

// pathID parses a positive integer path parameter, writing a 400 on failure.
func pathID(c *gin.Context, param, label string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "Invalid "+label+" ID")
		return 0, false
	}
	return id, true
}

// principal returns the authenticated caller; routes using it sit behind JWTAuthMiddleware.
func principal(c *gin.Context) (model.Principal, bool) {
	p, found := middleware.CurrentPrincipal(c)
	if !found {
		fail(c, http.StatusUnauthorized, "Authentication credentials were not provided")
		return model.Principal{}, false
	}
	return p, true
}

// optionalPrincipal returns the caller when a valid token was sent, nil otherwise.
func optionalPrincipal(c *gin.Context) *model.Principal {
	if p, found := middleware.CurrentPrincipal(c); found {
		return &p
	}
	return nil
}
