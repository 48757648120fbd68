package dto

import "github.com/shopspring/decimal"

type CriarPedidoRequest struct {
	ClienteNome    string           `json:"cliente_nome"    validate:"required,min=2"`
	Endereco       *string          `json:"endereco"`
	Total          decimal.Decimal  `json:"total"           validate:"required,gt=0"`
	FormaPagamento string           `json:"forma_pagamento" validate:"required,min=3"`
	ValorParcial1  *decimal.Decimal `json:"valor_parcial1"`
}

type AtualizarStatusPedidoRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDENTE EM_PREPARO SAIU_ENTREGA ENTREGUE CANCELADO"`
}

type PedidoResponse struct {
	ID             string           `json:"id"`
	ClienteNome    string           `json:"cliente_nome"`
	Endereco       *string          `json:"endereco,omitempty"`
	Status         string           `json:"status"`
	Total          decimal.Decimal  `json:"total"`
	FormaPagamento string           `json:"forma_pagamento"`
	ValorParcial1  *decimal.Decimal `json:"valor_parcial1,omitempty"`
	CriadoEm       string           `json:"criado_em"`
}
