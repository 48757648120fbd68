package repository

import (
	"context"
	"errors"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/payment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CaixaRepository persists cash sessions and their credit ledger.
//
// Methods taking a tx parameter participate in a caller-managed transaction
// when tx is non-nil; otherwise they run against the base connection. The
// close path reads orders, sums credits and updates the session inside one
// transaction so the persisted snapshot matches what was aggregated.
type CaixaRepository interface {
	CriarSessao(ctx context.Context, s *model.SessaoCaixa) error
	BuscarSessao(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*model.SessaoCaixa, error)
	// BuscarSessaoAberta returns (nil, nil) when no session is open.
	BuscarSessaoAberta(ctx context.Context, tx *gorm.DB) (*model.SessaoCaixa, error)
	AtualizarSessao(ctx context.Context, tx *gorm.DB, s *model.SessaoCaixa) error
	ListarSessoes(ctx context.Context, de, ate time.Time) ([]model.SessaoCaixa, error)
	CriarCredito(ctx context.Context, tx *gorm.DB, c *model.CreditoCaixa) error
	SomarCreditos(ctx context.Context, tx *gorm.DB, sessaoID uuid.UUID) (map[payment.Bucket]decimal.Decimal, error)
}

type caixaRepo struct{ db *gorm.DB }

func NewCaixaRepository(db *gorm.DB) CaixaRepository { return &caixaRepo{db: db} }

func (r *caixaRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// CriarSessao creates s while holding a lock over any open session rows.
// The partial unique index on status='aberta' catches the race where two
// transactions pass the existence check simultaneously.
func (r *caixaRepo) CriarSessao(ctx context.Context, s *model.SessaoCaixa) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var abertas []model.SessaoCaixa
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ?", model.SessaoAberta).
			Find(&abertas).Error; err != nil {
			return err
		}
		if len(abertas) > 0 {
			return ErrSessaoAbertaExistente
		}
		if err := tx.Create(s).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrSessaoAbertaExistente
			}
			return err
		}
		return nil
	})
}

func (r *caixaRepo) BuscarSessao(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*model.SessaoCaixa, error) {
	q := r.conn(tx).WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var s model.SessaoCaixa
	if err := q.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *caixaRepo) BuscarSessaoAberta(ctx context.Context, tx *gorm.DB) (*model.SessaoCaixa, error) {
	var sessoes []model.SessaoCaixa
	err := r.conn(tx).WithContext(ctx).
		Where("status = ?", model.SessaoAberta).
		Limit(1).
		Find(&sessoes).Error
	if err != nil {
		return nil, err
	}
	if len(sessoes) == 0 {
		return nil, nil
	}
	return &sessoes[0], nil
}

func (r *caixaRepo) AtualizarSessao(ctx context.Context, tx *gorm.DB, s *model.SessaoCaixa) error {
	return r.conn(tx).WithContext(ctx).Save(s).Error
}

func (r *caixaRepo) ListarSessoes(ctx context.Context, de, ate time.Time) ([]model.SessaoCaixa, error) {
	var sessoes []model.SessaoCaixa
	err := r.db.WithContext(ctx).
		Where("aberta_em BETWEEN ? AND ?", de, ate).
		Order("aberta_em DESC").
		Find(&sessoes).Error
	return sessoes, err
}

func (r *caixaRepo) CriarCredito(ctx context.Context, tx *gorm.DB, c *model.CreditoCaixa) error {
	return r.conn(tx).WithContext(ctx).Create(c).Error
}

func (r *caixaRepo) SomarCreditos(ctx context.Context, tx *gorm.DB, sessaoID uuid.UUID) (map[payment.Bucket]decimal.Decimal, error) {
	type linha struct {
		Metodo string
		Total  decimal.Decimal
	}
	var linhas []linha
	err := r.conn(tx).WithContext(ctx).
		Model(&model.CreditoCaixa{}).
		Select("metodo, COALESCE(SUM(valor), 0) AS total").
		Where("sessao_caixa_id = ?", sessaoID).
		Group("metodo").
		Scan(&linhas).Error
	if err != nil {
		return nil, err
	}

	somas := make(map[payment.Bucket]decimal.Decimal, len(linhas))
	for _, l := range linhas {
		somas[payment.Bucket(l.Metodo)] = l.Total
	}
	return somas, nil
}
