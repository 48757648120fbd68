package handler

import (
	"net/http"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/apierror"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/dto"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CaixaHandler struct{ svc service.CaixaService }

func NewCaixaHandler(svc service.CaixaService) *CaixaHandler { return &CaixaHandler{svc: svc} }

// Abrir godoc
// @Summary Abre uma nova sessão de caixa
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.AbrirCaixaRequest true "Saldo inicial"
// @Success 201 {object} dto.SessaoCaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/abrir [post]
func (h *CaixaHandler) Abrir(c *gin.Context) {
	var req dto.AbrirCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Abrir(c.Request.Context(), atorFromClaims(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Fechar godoc
// @Summary Fecha a sessão com a contagem declarada e calcula a diferença
// @Tags caixa
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.FecharCaixaRequest true "Declaração de fechamento"
// @Success 200 {object} dto.FechamentoResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.APIError
// @Router /v1/caixa/fechar [post]
func (h *CaixaHandler) Fechar(c *gin.Context) {
	var req dto.FecharCaixaRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Fechar(c.Request.Context(), atorFromClaims(c), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Reabrir godoc
// @Summary Reabre uma sessão fechada (somente gerente)
// @Tags caixa
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID da sessão"
// @Success 200 {object} dto.SessaoCaixaResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/caixa/{id}/reabrir [post]
func (h *CaixaHandler) Reabrir(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID inválido"))
		return
	}

	resp, err := h.svc.Reabrir(c.Request.Context(), atorFromClaims(c), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Ativa returns the currently open cash session, if any.
func (h *CaixaHandler) Ativa(c *gin.Context) {
	resp, err := h.svc.SessaoAtiva(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if resp == nil {
		c.JSON(http.StatusNotFound, apierror.New("Sem caixa aberto"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Historico returns sessions opened inside [inicio, fim], newest first.
// Open sessions in range come back with live-computed expected totals.
func (h *CaixaHandler) Historico(c *gin.Context) {
	de, err := parseDataQuery(c.DefaultQuery("inicio", ""), time.Time{})
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parâmetro 'inicio' inválido (use RFC3339 ou AAAA-MM-DD)"))
		return
	}
	ate, err := parseDataQuery(c.DefaultQuery("fim", ""), time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("parâmetro 'fim' inválido (use RFC3339 ou AAAA-MM-DD)"))
		return
	}

	resp, err := h.svc.Historico(c.Request.Context(), de, ate)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseDataQuery(raw string, fallback time.Time) (time.Time, error) {
	if raw == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}
