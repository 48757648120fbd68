package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCaixaRequest struct {
	SaldoInicial decimal.Decimal `json:"saldo_inicial" validate:"min=0"`
}

// DeclaracaoFechamento carries the operator's counted amounts. Every field is
// a pointer so a missing method is a validation error instead of silently
// defaulting to zero and corrupting the difference calculation.
type DeclaracaoFechamento struct {
	Dinheiro *decimal.Decimal `json:"dinheiro" validate:"required"`
	Pix      *decimal.Decimal `json:"pix"      validate:"required"`
	Credito  *decimal.Decimal `json:"credito"  validate:"required"`
	Debito   *decimal.Decimal `json:"debito"   validate:"required"`
}

type FecharCaixaRequest struct {
	SessaoID    string               `json:"sessao_id"   validate:"required,uuid"`
	Declaracao  DeclaracaoFechamento `json:"declaracao"  validate:"required"`
	Observacoes *string              `json:"observacoes"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type TotaisPorMetodo struct {
	Dinheiro decimal.Decimal `json:"dinheiro"`
	Pix      decimal.Decimal `json:"pix"`
	Credito  decimal.Decimal `json:"credito"`
	Debito   decimal.Decimal `json:"debito"`
	Outros   decimal.Decimal `json:"outros"`
	Total    decimal.Decimal `json:"total"`
}

type FechamentoResponse struct {
	SessaoID    string          `json:"sessao_id"`
	Sistema     TotaisPorMetodo `json:"sistema"`
	Declarado   TotaisPorMetodo `json:"declarado"`
	TotalVendas decimal.Decimal `json:"total_vendas"`
	Diferenca   decimal.Decimal `json:"diferenca"`
	Status      string          `json:"status"`
}

type SessaoCaixaResponse struct {
	SessaoID      string           `json:"sessao_id"`
	AbertaPor     string           `json:"aberta_por"`
	SaldoInicial  decimal.Decimal  `json:"saldo_inicial"`
	Status        string           `json:"status"`
	Sistema       TotaisPorMetodo  `json:"sistema"`
	Declarado     *TotaisPorMetodo `json:"declarado,omitempty"`
	TotalVendas   *decimal.Decimal `json:"total_vendas,omitempty"`
	Diferenca     *decimal.Decimal `json:"diferenca,omitempty"`
	Observacoes   *string          `json:"observacoes,omitempty"`
	FechadaPor    *string          `json:"fechada_por,omitempty"`
	AbertaEm      string           `json:"aberta_em"`
	FechadaEm     *string          `json:"fechada_em,omitempty"`
}
