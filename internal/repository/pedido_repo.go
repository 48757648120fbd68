package repository

import (
	"context"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PedidoRepository interface {
	Criar(ctx context.Context, p *model.Pedido) error
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error)
	Atualizar(ctx context.Context, p *model.Pedido) error
	Listar(ctx context.Context, limit, offset int) ([]model.Pedido, error)
	// ListarEntreguesDesde returns delivered orders created at or after desde.
	// Queried live at close time: late transitions into ENTREGUE count,
	// cancellations before close do not.
	ListarEntreguesDesde(ctx context.Context, tx *gorm.DB, desde time.Time) ([]model.Pedido, error)
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) Criar(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *pedidoRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Pedido, error) {
	var p model.Pedido
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) Atualizar(ctx context.Context, p *model.Pedido) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *pedidoRepo) Listar(ctx context.Context, limit, offset int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListarEntreguesDesde(ctx context.Context, tx *gorm.DB, desde time.Time) ([]model.Pedido, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	var pedidos []model.Pedido
	err := db.WithContext(ctx).
		Where("status = ? AND created_at >= ?", model.PedidoEntregue, desde).
		Find(&pedidos).Error
	return pedidos, err
}
