package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Pedido status values. Only ENTREGUE counts toward drawer reconciliation.
const (
	PedidoPendente   = "PENDENTE"
	PedidoEmPreparo  = "EM_PREPARO"
	PedidoSaiuEntreg = "SAIU_ENTREGA"
	PedidoEntregue   = "ENTREGUE"
	PedidoCancelado  = "CANCELADO"
)

// Pedido is an order as captured at the counter or for delivery.
//
// FormaPagamento is a free-form label, possibly composite
// ("DINHEIRO + PIX"); when composite, ValorParcial1 holds the amount paid
// via the first method and the remainder belongs to the second.
type Pedido struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteNome    string          `gorm:"type:varchar(120);not null"`
	Endereco       *string         `gorm:"type:varchar(255)"`
	Status         string          `gorm:"type:varchar(20);not null;default:'PENDENTE';index"`
	Total          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	FormaPagamento string          `gorm:"type:varchar(60);not null"`
	ValorParcial1  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	CreatedAt      time.Time       `gorm:"index"`
	UpdatedAt      time.Time
}

func (Pedido) TableName() string { return "pedidos" }

// StatusPedidoValido reports whether s is a known order status.
func StatusPedidoValido(s string) bool {
	switch s {
	case PedidoPendente, PedidoEmPreparo, PedidoSaiuEntreg, PedidoEntregue, PedidoCancelado:
		return true
	}
	return false
}
