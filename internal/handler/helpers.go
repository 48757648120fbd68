package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/apierror"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/middleware"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
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
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON inválido: "+err.Error()))
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

// atorFromClaims builds the acting user from the verified JWT.
func atorFromClaims(c *gin.Context) service.Ator {
	claims := middleware.GetClaims(c)
	id, _ := uuid.Parse(claims.UserID)
	return service.Ator{ID: id, Nome: claims.Nome}
}

// respondServiceError maps typed service errors onto HTTP statuses.
// Anything unrecognized is a 500 with a generic body; the real cause only
// goes to the log.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidacao):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessaoJaFechada),
		errors.Is(err, service.ErrFiadoJaPago):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessaoConflito),
		errors.Is(err, service.ErrSemCaixaAberta):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.Is(err, service.ErrSessaoNaoEncontrada),
		errors.Is(err, service.ErrPedidoNaoEncontrado),
		errors.Is(err, service.ErrFiadoNaoEncontrado):
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
	default:
		log.Error().
			Str("request_id", c.GetString(middleware.RequestIDKey)).
			Str("path", c.FullPath()).
			Err(err).
			Msg("handler: erro não mapeado")
		c.JSON(http.StatusInternalServerError, apierror.New("Erro interno do servidor"))
	}
}
