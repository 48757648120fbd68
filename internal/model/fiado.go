package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	FiadoAberto = "ABERTO"
	FiadoPago   = "PAGO"
)

// Fiado is a customer debt collected outside the normal order-payment flow.
// Settling it credits the currently open cash session directly.
type Fiado struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClienteNome    string          `gorm:"type:varchar(120);not null"`
	Valor          decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status         string          `gorm:"type:varchar(20);not null;default:'ABERTO';index"`
	QuitadoEm      *time.Time
	MetodoQuitacao *string `gorm:"type:varchar(20)"`
	CreatedAt      time.Time
}

func (Fiado) TableName() string { return "fiados" }
