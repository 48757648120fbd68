package handler

import (
	"net/http"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/apierror"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/dto"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/payment"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FiadoHandler struct{ svc service.FiadoService }

func NewFiadoHandler(svc service.FiadoService) *FiadoHandler { return &FiadoHandler{svc: svc} }

// Criar registers a new customer debt.
func (h *FiadoHandler) Criar(c *gin.Context) {
	var req dto.CriarFiadoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Criar(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Quitar godoc
// @Summary Quita um fiado creditando o caixa aberto
// @Tags fiado
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID do fiado"
// @Param body body dto.QuitarFiadoRequest true "Método de pagamento"
// @Success 200 {object} dto.FiadoResponse
// @Failure 409 {object} apierror.APIError "Sem caixa aberto"
// @Router /v1/fiado/{id}/quitar [post]
func (h *FiadoHandler) Quitar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}

	var req dto.QuitarFiadoRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Quitar(c.Request.Context(), atorFromClaims(c), id, payment.Bucket(req.Metodo))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Listar returns all debts, newest first.
func (h *FiadoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}
