package repository

import (
	"context"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type FiadoRepository interface {
	Criar(ctx context.Context, f *model.Fiado) error
	BuscarPorID(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*model.Fiado, error)
	Atualizar(ctx context.Context, tx *gorm.DB, f *model.Fiado) error
	Listar(ctx context.Context) ([]model.Fiado, error)
}

type fiadoRepo struct{ db *gorm.DB }

func NewFiadoRepository(db *gorm.DB) FiadoRepository { return &fiadoRepo{db: db} }

func (r *fiadoRepo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *fiadoRepo) Criar(ctx context.Context, f *model.Fiado) error {
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *fiadoRepo) BuscarPorID(ctx context.Context, tx *gorm.DB, id uuid.UUID, lock bool) (*model.Fiado, error) {
	q := r.conn(tx).WithContext(ctx)
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var f model.Fiado
	if err := q.First(&f, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *fiadoRepo) Atualizar(ctx context.Context, tx *gorm.DB, f *model.Fiado) error {
	return r.conn(tx).WithContext(ctx).Save(f).Error
}

func (r *fiadoRepo) Listar(ctx context.Context) ([]model.Fiado, error) {
	var fiados []model.Fiado
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&fiados).Error
	return fiados, err
}
