package dto

import "github.com/shopspring/decimal"

type CriarFiadoRequest struct {
	ClienteNome string          `json:"cliente_nome" validate:"required,min=2"`
	Valor       decimal.Decimal `json:"valor"        validate:"required,gt=0"`
}

// QuitarFiadoRequest settles a debt against the open drawer. The method must
// be one of the concrete drawer buckets — "outros" is not a settlement choice.
type QuitarFiadoRequest struct {
	Metodo string `json:"metodo" validate:"required,oneof=dinheiro pix credito debito"`
}

type FiadoResponse struct {
	ID             string          `json:"id"`
	ClienteNome    string          `json:"cliente_nome"`
	Valor          decimal.Decimal `json:"valor"`
	Status         string          `json:"status"`
	MetodoQuitacao *string         `json:"metodo_quitacao,omitempty"`
	QuitadoEm      *string         `json:"quitado_em,omitempty"`
	CriadoEm       string          `json:"criado_em"`
}
