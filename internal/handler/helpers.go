package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/hercules830/nexa-control-app-sub000/internal/apierror"
	"github.com/hercules830/nexa-control-app-sub000/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails; the
// caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// respondError maps service errors onto the HTTP status space. Unknown
// errors become an opaque 500 through the ErrorHandler middleware.
func respondError(c *gin.Context, err error) {
	var stockErr *service.StockInsuficienteError
	switch {
	case errors.As(err, &stockErr):
		c.JSON(http.StatusConflict, apierror.New(stockErr.Error()))
	case errors.Is(err, service.ErrInsumoNoEncontrado),
		errors.Is(err, service.ErrProductoNoEncontrado),
		errors.Is(err, service.ErrTicketNoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	case errors.Is(err, service.ErrTicketVacio),
		errors.Is(err, service.ErrValidacion):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	default:
		_ = c.Error(err)
	}
}
