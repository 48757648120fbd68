package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/dto"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PedidoService is the order collaborator consumed by the cash engine.
// Only the pieces the drawer needs live here: capture, status transitions
// (a late move into ENTREGUE counts toward an open session's totals) and a
// flat listing for the counter screen.
type PedidoService interface {
	Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error)
	AtualizarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error)
	Listar(ctx context.Context, page, limit int) ([]dto.PedidoResponse, error)
}

type pedidoService struct {
	repo repository.PedidoRepository
}

func NewPedidoService(repo repository.PedidoRepository) PedidoService {
	return &pedidoService{repo: repo}
}

func (s *pedidoService) Criar(ctx context.Context, req dto.CriarPedidoRequest) (*dto.PedidoResponse, error) {
	if !req.Total.IsPositive() {
		return nil, fmt.Errorf("%w: total do pedido deve ser positivo", ErrValidacao)
	}
	if req.ValorParcial1 != nil && req.ValorParcial1.IsNegative() {
		return nil, fmt.Errorf("%w: valor_parcial1 negativo", ErrValidacao)
	}

	pedido := &model.Pedido{
		ClienteNome:    req.ClienteNome,
		Endereco:       req.Endereco,
		Status:         model.PedidoPendente,
		Total:          req.Total,
		FormaPagamento: req.FormaPagamento,
		ValorParcial1:  req.ValorParcial1,
	}
	if err := s.repo.Criar(ctx, pedido); err != nil {
		return nil, err
	}

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("total", pedido.Total.String()).
		Str("forma_pagamento", pedido.FormaPagamento).
		Msg("pedido: criado")

	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) AtualizarStatus(ctx context.Context, id uuid.UUID, status string) (*dto.PedidoResponse, error) {
	if !model.StatusPedidoValido(status) {
		return nil, fmt.Errorf("%w: status %q", ErrValidacao, status)
	}

	pedido, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPedidoNaoEncontrado
		}
		return nil, err
	}

	pedido.Status = status
	if err := s.repo.Atualizar(ctx, pedido); err != nil {
		return nil, err
	}

	log.Info().
		Str("pedido_id", pedido.ID.String()).
		Str("status", status).
		Msg("pedido: status atualizado")

	return pedidoToResponse(pedido), nil
}

func (s *pedidoService) Listar(ctx context.Context, page, limit int) ([]dto.PedidoResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	pedidos, err := s.repo.Listar(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PedidoResponse, 0, len(pedidos))
	for i := range pedidos {
		out = append(out, *pedidoToResponse(&pedidos[i]))
	}
	return out, nil
}

func pedidoToResponse(p *model.Pedido) *dto.PedidoResponse {
	return &dto.PedidoResponse{
		ID:             p.ID.String(),
		ClienteNome:    p.ClienteNome,
		Endereco:       p.Endereco,
		Status:         p.Status,
		Total:          p.Total,
		FormaPagamento: p.FormaPagamento,
		ValorParcial1:  p.ValorParcial1,
		CriadoEm:       p.CreatedAt.Format(time.RFC3339),
	}
}
