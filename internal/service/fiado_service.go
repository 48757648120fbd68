package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/dto"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/payment"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/repository"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type FiadoService interface {
	Criar(ctx context.Context, req dto.CriarFiadoRequest) (*dto.FiadoResponse, error)
	// Quitar marks the debt paid and credits the open drawer in one
	// transaction: both succeed or both fail. With no open session the debt
	// stays ABERTO and the caller receives ErrSemCaixaAberta.
	Quitar(ctx context.Context, ator Ator, id uuid.UUID, metodo payment.Bucket) (*dto.FiadoResponse, error)
	Listar(ctx context.Context) ([]dto.FiadoResponse, error)
}

type fiadoService struct {
	db         *gorm.DB
	repo       repository.FiadoRepository
	caixa      CaixaService
	dispatcher *worker.Dispatcher
}

func NewFiadoService(db *gorm.DB, repo repository.FiadoRepository, caixa CaixaService, dispatcher *worker.Dispatcher) FiadoService {
	return &fiadoService{db: db, repo: repo, caixa: caixa, dispatcher: dispatcher}
}

func (s *fiadoService) Criar(ctx context.Context, req dto.CriarFiadoRequest) (*dto.FiadoResponse, error) {
	if !req.Valor.IsPositive() {
		return nil, fmt.Errorf("%w: valor do fiado deve ser positivo", ErrValidacao)
	}

	fiado := &model.Fiado{
		ClienteNome: req.ClienteNome,
		Valor:       req.Valor,
		Status:      model.FiadoAberto,
	}
	if err := s.repo.Criar(ctx, fiado); err != nil {
		return nil, err
	}

	log.Info().
		Str("fiado_id", fiado.ID.String()).
		Str("cliente", fiado.ClienteNome).
		Str("valor", fiado.Valor.String()).
		Msg("fiado: registrado")

	return fiadoToResponse(fiado), nil
}

func (s *fiadoService) Quitar(ctx context.Context, ator Ator, id uuid.UUID, metodo payment.Bucket) (*dto.FiadoResponse, error) {
	var fiado *model.Fiado
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		fiado, err = s.repo.BuscarPorID(ctx, tx, id, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrFiadoNaoEncontrado
			}
			return err
		}
		if fiado.Status == model.FiadoPago {
			return ErrFiadoJaPago
		}

		if err := s.caixa.RegistrarQuitacao(ctx, tx, fiado.Valor, metodo, fiado.ClienteNome, ator); err != nil {
			return err
		}

		agora := time.Now().UTC()
		m := string(metodo)
		fiado.Status = model.FiadoPago
		fiado.QuitadoEm = &agora
		fiado.MetodoQuitacao = &m
		return s.repo.Atualizar(ctx, tx, fiado)
	})
	if err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueAuditoria(ctx, worker.AuditoriaJobPayload{
			Evento:    "fiado_quitado",
			AtorID:    ator.ID.String(),
			AtorNome:  ator.Nome,
			Valor:     fiado.Valor.String(),
			Metodo:    string(metodo),
			Referencia: fiado.ClienteNome,
			OcorreuEm: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Error().Err(err).Str("fiado_id", fiado.ID.String()).Msg("fiado: falha ao enfileirar evento de auditoria")
		}
	}

	return fiadoToResponse(fiado), nil
}

func (s *fiadoService) Listar(ctx context.Context) ([]dto.FiadoResponse, error) {
	fiados, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FiadoResponse, 0, len(fiados))
	for i := range fiados {
		out = append(out, *fiadoToResponse(&fiados[i]))
	}
	return out, nil
}

func fiadoToResponse(f *model.Fiado) *dto.FiadoResponse {
	resp := &dto.FiadoResponse{
		ID:             f.ID.String(),
		ClienteNome:    f.ClienteNome,
		Valor:          f.Valor,
		Status:         f.Status,
		MetodoQuitacao: f.MetodoQuitacao,
		CriadoEm:       f.CreatedAt.Format(time.RFC3339),
	}
	if f.QuitadoEm != nil {
		t := f.QuitadoEm.Format(time.RFC3339)
		resp.QuitadoEm = &t
	}
	return resp
}
