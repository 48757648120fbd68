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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ator identifies who performed an operation, captured from the auth layer.
type Ator struct {
	ID   uuid.UUID
	Nome string
}

type CaixaService interface {
	Abrir(ctx context.Context, ator Ator, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error)
	Fechar(ctx context.Context, ator Ator, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error)
	// Reabrir is a privileged transition — the router restricts it to the
	// gerente role. The service itself only exposes the capability.
	Reabrir(ctx context.Context, ator Ator, sessaoID uuid.UUID) (*dto.SessaoCaixaResponse, error)
	// SessaoAtiva returns (nil, nil) when no session is open.
	SessaoAtiva(ctx context.Context) (*dto.SessaoCaixaResponse, error)
	Historico(ctx context.Context, de, ate time.Time) ([]dto.SessaoCaixaResponse, error)
	// RegistrarQuitacao appends a credit to the open session's ledger inside
	// the caller's transaction. Called by FiadoService so the settlement and
	// the drawer credit commit or roll back together.
	RegistrarQuitacao(ctx context.Context, tx *gorm.DB, valor decimal.Decimal, metodo payment.Bucket, devedorRef string, ator Ator) error
}

type caixaService struct {
	db         *gorm.DB
	repo       repository.CaixaRepository
	pedidos    repository.PedidoRepository
	dispatcher *worker.Dispatcher
}

func NewCaixaService(db *gorm.DB, repo repository.CaixaRepository, pedidos repository.PedidoRepository, dispatcher *worker.Dispatcher) CaixaService {
	return &caixaService{db: db, repo: repo, pedidos: pedidos, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *caixaService) Abrir(ctx context.Context, ator Ator, req dto.AbrirCaixaRequest) (*dto.SessaoCaixaResponse, error) {
	if req.SaldoInicial.IsNegative() {
		return nil, fmt.Errorf("%w: saldo inicial negativo", ErrValidacao)
	}

	sessao := &model.SessaoCaixa{
		AbertaPorID:   ator.ID,
		AbertaPorNome: ator.Nome,
		SaldoInicial:  req.SaldoInicial,
		Status:        model.SessaoAberta,
		AbertaEm:      time.Now().UTC(),
	}
	if err := s.repo.CriarSessao(ctx, sessao); err != nil {
		if errors.Is(err, repository.ErrSessaoAbertaExistente) {
			return nil, ErrSessaoConflito
		}
		return nil, err
	}

	log.Info().
		Str("sessao_id", sessao.ID.String()).
		Str("ator", ator.Nome).
		Str("saldo_inicial", req.SaldoInicial.String()).
		Msg("caixa: sessão aberta")

	return s.buildResponse(ctx, sessao)
}

// ── Fechar ────────────────────────────────────────────────────────────────────
// Aggregates the live order set plus the credit ledger, compares against the
// operator declaration and persists the full close snapshot in one
// transaction. A second close of the same session fails with
// ErrSessaoJaFechada and never touches the stored snapshot.

func (s *caixaService) Fechar(ctx context.Context, ator Ator, req dto.FecharCaixaRequest) (*dto.FechamentoResponse, error) {
	sessaoID, err := uuid.Parse(req.SessaoID)
	if err != nil {
		return nil, fmt.Errorf("%w: sessao_id inválido", ErrValidacao)
	}

	declarado, err := validarDeclaracao(req.Declaracao)
	if err != nil {
		return nil, err
	}

	var resp *dto.FechamentoResponse
	err = runTx(ctx, s.db, func(tx *gorm.DB) error {
		sessao, err := s.repo.BuscarSessao(ctx, tx, sessaoID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessaoNaoEncontrada
			}
			return err
		}
		if sessao.Status != model.SessaoAberta {
			return ErrSessaoJaFechada
		}

		sistema, err := s.totaisEsperados(ctx, tx, sessao)
		if err != nil {
			return err
		}

		sistemaTotal := sistema.Total()
		declaradoTotal := declarado.Dinheiro.Add(declarado.Pix).Add(declarado.Credito).Add(declarado.Debito)
		diferenca := declaradoTotal.Sub(sistemaTotal)

		agora := time.Now().UTC()
		nome := ator.Nome
		atorID := ator.ID
		sessao.FechadaEm = &agora
		sessao.FechadaPorID = &atorID
		sessao.FechadaPorNome = &nome
		sessao.DeclaradoDinheiro = ptr(declarado.Dinheiro)
		sessao.DeclaradoPix = ptr(declarado.Pix)
		sessao.DeclaradoCredito = ptr(declarado.Credito)
		sessao.DeclaradoDebito = ptr(declarado.Debito)
		sessao.SistemaDinheiro = ptr(sistema.Dinheiro)
		sessao.SistemaPix = ptr(sistema.Pix)
		sessao.SistemaCredito = ptr(sistema.Credito)
		sessao.SistemaDebito = ptr(sistema.Debito)
		sessao.SistemaOutros = ptr(sistema.Outros)
		sessao.TotalVendas = ptr(sistemaTotal)
		sessao.Diferenca = ptr(diferenca)
		sessao.Observacoes = req.Observacoes
		sessao.Status = model.SessaoFechada

		if err := s.repo.AtualizarSessao(ctx, tx, sessao); err != nil {
			return err
		}

		resp = &dto.FechamentoResponse{
			SessaoID: sessao.ID.String(),
			Sistema:  totaisFromBreakdown(sistema),
			Declarado: dto.TotaisPorMetodo{
				Dinheiro: declarado.Dinheiro,
				Pix:      declarado.Pix,
				Credito:  declarado.Credito,
				Debito:   declarado.Debito,
				Total:    declaradoTotal,
			},
			TotalVendas: sistemaTotal,
			Diferenca:   diferenca,
			Status:      model.SessaoFechada,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sessao_id", resp.SessaoID).
		Str("ator", ator.Nome).
		Str("diferenca", resp.Diferenca.String()).
		Msg("caixa: sessão fechada")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueRelatorio(ctx, worker.RelatorioJobPayload{
			SessaoID:    resp.SessaoID,
			FechadaPor:  ator.Nome,
			TotalVendas: resp.TotalVendas.String(),
			Diferenca:   resp.Diferenca.String(),
			FechadaEm:   time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Error().Err(err).Str("sessao_id", resp.SessaoID).Msg("caixa: falha ao enfileirar relatório de fechamento")
		}
	}

	return resp, nil
}

// ── Reabrir ───────────────────────────────────────────────────────────────────

func (s *caixaService) Reabrir(ctx context.Context, ator Ator, sessaoID uuid.UUID) (*dto.SessaoCaixaResponse, error) {
	var sessao *model.SessaoCaixa
	err := runTx(ctx, s.db, func(tx *gorm.DB) error {
		var err error
		sessao, err = s.repo.BuscarSessao(ctx, tx, sessaoID, true)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSessaoNaoEncontrada
			}
			return err
		}

		// The invariant is global: any open session blocks the reopen,
		// including the target itself still being open.
		aberta, err := s.repo.BuscarSessaoAberta(ctx, tx)
		if err != nil {
			return err
		}
		if aberta != nil {
			return ErrSessaoConflito
		}

		sessao.LimparFechamento()
		return s.repo.AtualizarSessao(ctx, tx, sessao)
	})
	if err != nil {
		return nil, err
	}

	log.Warn().
		Str("sessao_id", sessao.ID.String()).
		Str("ator", ator.Nome).
		Msg("caixa: sessão reaberta")

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueAuditoria(ctx, worker.AuditoriaJobPayload{
			Evento:    "caixa_reaberto",
			SessaoID:  sessao.ID.String(),
			AtorID:    ator.ID.String(),
			AtorNome:  ator.Nome,
			OcorreuEm: time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Error().Err(err).Msg("caixa: falha ao enfileirar evento de auditoria")
		}
	}

	return s.buildResponse(ctx, sessao)
}

// ── SessaoAtiva / Historico ───────────────────────────────────────────────────

func (s *caixaService) SessaoAtiva(ctx context.Context) (*dto.SessaoCaixaResponse, error) {
	sessao, err := s.repo.BuscarSessaoAberta(ctx, nil)
	if err != nil {
		return nil, err
	}
	if sessao == nil {
		return nil, nil
	}
	return s.buildResponse(ctx, sessao)
}

func (s *caixaService) Historico(ctx context.Context, de, ate time.Time) ([]dto.SessaoCaixaResponse, error) {
	sessoes, err := s.repo.ListarSessoes(ctx, de, ate)
	if err != nil {
		return nil, err
	}

	respostas := make([]dto.SessaoCaixaResponse, 0, len(sessoes))
	for i := range sessoes {
		r, err := s.buildResponse(ctx, &sessoes[i])
		if err != nil {
			return nil, err
		}
		respostas = append(respostas, *r)
	}
	return respostas, nil
}

// ── RegistrarQuitacao ─────────────────────────────────────────────────────────

func (s *caixaService) RegistrarQuitacao(ctx context.Context, tx *gorm.DB, valor decimal.Decimal, metodo payment.Bucket, devedorRef string, ator Ator) error {
	if !valor.IsPositive() {
		return fmt.Errorf("%w: valor da quitação deve ser positivo", ErrValidacao)
	}
	if !payment.Valid(metodo) || metodo == payment.BucketOutros {
		return fmt.Errorf("%w: método de pagamento %q", ErrValidacao, metodo)
	}

	sessao, err := s.repo.BuscarSessaoAberta(ctx, tx)
	if err != nil {
		return err
	}
	if sessao == nil {
		return ErrSemCaixaAberta
	}

	credito := &model.CreditoCaixa{
		SessaoCaixaID: sessao.ID,
		Metodo:        string(metodo),
		Valor:         valor,
		DevedorRef:    devedorRef,
		AtorID:        ator.ID,
		AtorNome:      ator.Nome,
	}
	if err := s.repo.CriarCredito(ctx, tx, credito); err != nil {
		return err
	}

	log.Info().
		Str("sessao_id", sessao.ID.String()).
		Str("metodo", string(metodo)).
		Str("valor", valor.String()).
		Str("devedor", devedorRef).
		Str("ator", ator.Nome).
		Msg("caixa: quitação creditada na sessão aberta")
	return nil
}

// ── Agregação ─────────────────────────────────────────────────────────────────

// totaisEsperados derives the expected per-method totals for a session:
// every delivered order created at or after the session opened, run through
// the payment parser, plus every ledger credit attached to the session.
// Inconsistent split data is clamped by the parser and logged here with the
// offending order id.
func (s *caixaService) totaisEsperados(ctx context.Context, tx *gorm.DB, sessao *model.SessaoCaixa) (payment.Breakdown, error) {
	var total payment.Breakdown

	pedidos, err := s.pedidos.ListarEntreguesDesde(ctx, tx, sessao.AbertaEm)
	if err != nil {
		return total, err
	}
	for i := range pedidos {
		p := &pedidos[i]
		b := payment.ParseAllocation(p.FormaPagamento, p.Total, p.ValorParcial1)
		if b.Inconsistent {
			log.Warn().
				Str("pedido_id", p.ID.String()).
				Str("forma_pagamento", p.FormaPagamento).
				Str("total", p.Total.String()).
				Msg("caixa: divisão de pagamento inconsistente — restante negativo zerado")
		}
		total.Merge(b)
	}

	creditos, err := s.repo.SomarCreditos(ctx, tx, sessao.ID)
	if err != nil {
		return total, err
	}
	for metodo, valor := range creditos {
		total.Add(metodo, valor)
	}

	return total, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func validarDeclaracao(d dto.DeclaracaoFechamento) (payment.Breakdown, error) {
	var out payment.Breakdown
	campos := map[string]*decimal.Decimal{
		"dinheiro": d.Dinheiro,
		"pix":      d.Pix,
		"credito":  d.Credito,
		"debito":   d.Debito,
	}
	for nome, valor := range campos {
		if valor == nil {
			return out, fmt.Errorf("%w: valor declarado de %s ausente", ErrValidacao, nome)
		}
		if valor.IsNegative() {
			return out, fmt.Errorf("%w: valor declarado de %s negativo", ErrValidacao, nome)
		}
	}
	out.Dinheiro = *d.Dinheiro
	out.Pix = *d.Pix
	out.Credito = *d.Credito
	out.Debito = *d.Debito
	return out, nil
}

func totaisFromBreakdown(b payment.Breakdown) dto.TotaisPorMetodo {
	return dto.TotaisPorMetodo{
		Dinheiro: b.Dinheiro,
		Pix:      b.Pix,
		Credito:  b.Credito,
		Debito:   b.Debito,
		Outros:   b.Outros,
		Total:    b.Total(),
	}
}

func ptr[T any](v T) *T { return &v }

// buildResponse renders a session for callers. Open sessions get expected
// totals computed live; closed sessions return the stored snapshot.
func (s *caixaService) buildResponse(ctx context.Context, sessao *model.SessaoCaixa) (*dto.SessaoCaixaResponse, error) {
	resp := &dto.SessaoCaixaResponse{
		SessaoID:     sessao.ID.String(),
		AbertaPor:    sessao.AbertaPorNome,
		SaldoInicial: sessao.SaldoInicial,
		Status:       sessao.Status,
		Observacoes:  sessao.Observacoes,
		AbertaEm:     sessao.AbertaEm.Format(time.RFC3339),
	}

	if sessao.Status == model.SessaoAberta {
		sistema, err := s.totaisEsperados(ctx, nil, sessao)
		if err != nil {
			return nil, err
		}
		resp.Sistema = totaisFromBreakdown(sistema)
		return resp, nil
	}

	resp.Sistema = dto.TotaisPorMetodo{
		Dinheiro: derefOuZero(sessao.SistemaDinheiro),
		Pix:      derefOuZero(sessao.SistemaPix),
		Credito:  derefOuZero(sessao.SistemaCredito),
		Debito:   derefOuZero(sessao.SistemaDebito),
		Outros:   derefOuZero(sessao.SistemaOutros),
		Total:    derefOuZero(sessao.TotalVendas),
	}

	declarado := dto.TotaisPorMetodo{
		Dinheiro: derefOuZero(sessao.DeclaradoDinheiro),
		Pix:      derefOuZero(sessao.DeclaradoPix),
		Credito:  derefOuZero(sessao.DeclaradoCredito),
		Debito:   derefOuZero(sessao.DeclaradoDebito),
	}
	declarado.Total = declarado.Dinheiro.Add(declarado.Pix).Add(declarado.Credito).Add(declarado.Debito)
	resp.Declarado = &declarado
	resp.TotalVendas = sessao.TotalVendas
	resp.Diferenca = sessao.Diferenca
	resp.FechadaPor = sessao.FechadaPorNome

	if sessao.FechadaEm != nil {
		t := sessao.FechadaEm.Format(time.RFC3339)
		resp.FechadaEm = &t
	}
	return resp, nil
}

func derefOuZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
