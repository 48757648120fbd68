package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session status values. At most one session is "aberta" system-wide;
// a partial unique index enforces this at the database level.
const (
	SessaoAberta  = "aberta"
	SessaoFechada = "fechada"
)

// SessaoCaixa is one shift's cash drawer record, from open to close.
//
// All close-snapshot fields (FechadaEm through Observacoes) are nil while the
// session is open and are written together in a single atomic update at
// close. Reopen resets them all back to nil; the session row itself is never
// deleted.
type SessaoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AbertaPorID   uuid.UUID       `gorm:"type:uuid;not null"`
	AbertaPorNome string          `gorm:"type:varchar(100);not null"`
	SaldoInicial  decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status        string          `gorm:"type:varchar(20);not null;default:'aberta';index"`
	AbertaEm      time.Time       `gorm:"not null;index"`

	// Close snapshot — populated together or not at all.
	FechadaEm         *time.Time
	FechadaPorID      *uuid.UUID       `gorm:"type:uuid"`
	FechadaPorNome    *string          `gorm:"type:varchar(100)"`
	DeclaradoDinheiro *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeclaradoPix      *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeclaradoCredito  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DeclaradoDebito   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SistemaDinheiro   *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SistemaPix        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SistemaCredito    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SistemaDebito     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SistemaOutros     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	TotalVendas       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Diferenca         *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Observacoes       *string

	Creditos []CreditoCaixa `gorm:"foreignKey:SessaoCaixaID"`
}

func (SessaoCaixa) TableName() string { return "sessoes_caixa" }

// LimparFechamento resets the close snapshot, returning the session to the
// open shape. AbertaEm, AbertaPorID and SaldoInicial are left untouched —
// a reopened shift is continued, not restarted.
func (s *SessaoCaixa) LimparFechamento() {
	s.FechadaEm = nil
	s.FechadaPorID = nil
	s.FechadaPorNome = nil
	s.DeclaradoDinheiro = nil
	s.DeclaradoPix = nil
	s.DeclaradoCredito = nil
	s.DeclaradoDebito = nil
	s.SistemaDinheiro = nil
	s.SistemaPix = nil
	s.SistemaCredito = nil
	s.SistemaDebito = nil
	s.SistemaOutros = nil
	s.TotalVendas = nil
	s.Diferenca = nil
	s.Observacoes = nil
	s.Status = SessaoAberta
}

// CreditoCaixa is an immutable ledger entry crediting the drawer outside the
// normal order flow (today: fiado settlements). Entries are appended, never
// updated — the close-time aggregation sums them alongside order totals.
type CreditoCaixa struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessaoCaixaID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Metodo        string          `gorm:"type:varchar(20);not null"`
	Valor         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DevedorRef    string          `gorm:"type:varchar(120)"`
	AtorID        uuid.UUID       `gorm:"type:uuid;not null"`
	AtorNome      string          `gorm:"type:varchar(100);not null"`
	CreatedAt     time.Time
}

func (CreditoCaixa) TableName() string { return "creditos_caixa" }
