package service_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/dto"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/model"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/payment"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/repository"
	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// ── In-memory CaixaRepository ────────────────────────────────────────────────

type fakeCaixaRepo struct {
	mu       sync.Mutex
	sessoes  map[uuid.UUID]model.SessaoCaixa
	creditos []model.CreditoCaixa
}

func newFakeCaixaRepo() *fakeCaixaRepo {
	return &fakeCaixaRepo{sessoes: make(map[uuid.UUID]model.SessaoCaixa)}
}

func (r *fakeCaixaRepo) CriarSessao(_ context.Context, s *model.SessaoCaixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existente := range r.sessoes {
		if existente.Status == model.SessaoAberta {
			return repository.ErrSessaoAbertaExistente
		}
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.sessoes[s.ID] = *s
	return nil
}

func (r *fakeCaixaRepo) BuscarSessao(_ context.Context, _ *gorm.DB, id uuid.UUID, _ bool) (*model.SessaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessoes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &s, nil
}

func (r *fakeCaixaRepo) BuscarSessaoAberta(_ context.Context, _ *gorm.DB) (*model.SessaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessoes {
		if s.Status == model.SessaoAberta {
			aberta := s
			return &aberta, nil
		}
	}
	return nil, nil
}

func (r *fakeCaixaRepo) AtualizarSessao(_ context.Context, _ *gorm.DB, s *model.SessaoCaixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessoes[s.ID] = *s
	return nil
}

func (r *fakeCaixaRepo) ListarSessoes(_ context.Context, de, ate time.Time) ([]model.SessaoCaixa, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.SessaoCaixa
	for _, s := range r.sessoes {
		if !s.AbertaEm.Before(de) && !s.AbertaEm.After(ate) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbertaEm.After(out[j].AbertaEm) })
	return out, nil
}

func (r *fakeCaixaRepo) CriarCredito(_ context.Context, _ *gorm.DB, c *model.CreditoCaixa) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	r.creditos = append(r.creditos, *c)
	return nil
}

func (r *fakeCaixaRepo) SomarCreditos(_ context.Context, _ *gorm.DB, sessaoID uuid.UUID) (map[payment.Bucket]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	somas := make(map[payment.Bucket]decimal.Decimal)
	for _, c := range r.creditos {
		if c.SessaoCaixaID == sessaoID {
			somas[payment.Bucket(c.Metodo)] = somas[payment.Bucket(c.Metodo)].Add(c.Valor)
		}
	}
	return somas, nil
}

var _ repository.CaixaRepository = (*fakeCaixaRepo)(nil)

// ── In-memory PedidoRepository ───────────────────────────────────────────────

type fakePedidoRepo struct {
	mu      sync.Mutex
	pedidos []model.Pedido
}

func (r *fakePedidoRepo) Criar(_ context.Context, p *model.Pedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.pedidos = append(r.pedidos, *p)
	return nil
}

func (r *fakePedidoRepo) BuscarPorID(_ context.Context, id uuid.UUID) (*model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pedidos {
		if r.pedidos[i].ID == id {
			p := r.pedidos[i]
			return &p, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePedidoRepo) Atualizar(_ context.Context, p *model.Pedido) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.pedidos {
		if r.pedidos[i].ID == p.ID {
			r.pedidos[i] = *p
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *fakePedidoRepo) Listar(_ context.Context, limit, offset int) ([]model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if offset >= len(r.pedidos) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.pedidos) {
		end = len(r.pedidos)
	}
	return append([]model.Pedido(nil), r.pedidos[offset:end]...), nil
}

func (r *fakePedidoRepo) ListarEntreguesDesde(_ context.Context, _ *gorm.DB, desde time.Time) ([]model.Pedido, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Pedido
	for _, p := range r.pedidos {
		if p.Status == model.PedidoEntregue && !p.CreatedAt.Before(desde) {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.PedidoRepository = (*fakePedidoRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func novoAtor() service.Ator {
	return service.Ator{ID: uuid.New(), Nome: "Franklin"}
}

func dec(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func decPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func declaracao(dinheiro, pix, credito, debito string) dto.DeclaracaoFechamento {
	return dto.DeclaracaoFechamento{
		Dinheiro: decPtr(dinheiro),
		Pix:      decPtr(pix),
		Credito:  decPtr(credito),
		Debito:   decPtr(debito),
	}
}

func entregue(repo *fakePedidoRepo, total, forma string, parcial *decimal.Decimal) {
	_ = repo.Criar(context.Background(), &model.Pedido{
		ClienteNome:    "Cliente",
		Status:         model.PedidoEntregue,
		Total:          dec(total),
		FormaPagamento: forma,
		ValorParcial1:  parcial,
	})
}

func setupCaixa(t *testing.T) (service.CaixaService, *fakeCaixaRepo, *fakePedidoRepo) {
	t.Helper()
	caixaRepo := newFakeCaixaRepo()
	pedidoRepo := &fakePedidoRepo{}
	svc := service.NewCaixaService(nil, caixaRepo, pedidoRepo, nil)
	return svc, caixaRepo, pedidoRepo
}

// ── Abrir ────────────────────────────────────────────────────────────────────

func TestAbrirCaixa(t *testing.T) {
	svc, _, _ := setupCaixa(t)

	resp, err := svc.Abrir(context.Background(), novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("150.00")})
	require.NoError(t, err)

	assert.Equal(t, model.SessaoAberta, resp.Status)
	assert.True(t, resp.SaldoInicial.Equal(dec("150.00")))
	assert.Equal(t, "Franklin", resp.AbertaPor)
	assert.Nil(t, resp.Declarado)
}

func TestAbrirCaixaJaAberta(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()

	_, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("50")})
	assert.ErrorIs(t, err, service.ErrSessaoConflito)
}

func TestAbrirCaixaConcorrente(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()

	resultados := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("100")})
			resultados <- err
		}()
	}
	wg.Wait()
	close(resultados)

	sucessos, conflitos := 0, 0
	for err := range resultados {
		switch {
		case err == nil:
			sucessos++
		case errors.Is(err, service.ErrSessaoConflito):
			conflitos++
		default:
			t.Fatalf("erro inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, sucessos)
	assert.Equal(t, 1, conflitos)
}

func TestAbrirCaixaSaldoNegativo(t *testing.T) {
	svc, _, _ := setupCaixa(t)

	_, err := svc.Abrir(context.Background(), novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("-1")})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

// ── Fechar ───────────────────────────────────────────────────────────────────

func TestFecharCaixaReconciliacao(t *testing.T) {
	svc, _, pedidoRepo := setupCaixa(t)
	ctx := context.Background()

	aberta, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	entregue(pedidoRepo, "100", "DINHEIRO", nil)
	entregue(pedidoRepo, "50", "PIX", nil)
	// Cancelled orders never count.
	_ = pedidoRepo.Criar(ctx, &model.Pedido{Status: model.PedidoCancelado, Total: dec("70"), FormaPagamento: "DINHEIRO"})

	resp, err := svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("100", "50", "0", "0"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Sistema.Dinheiro.Equal(dec("100")))
	assert.True(t, resp.Sistema.Pix.Equal(dec("50")))
	assert.True(t, resp.Sistema.Credito.IsZero())
	assert.True(t, resp.Sistema.Debito.IsZero())
	assert.True(t, resp.TotalVendas.Equal(dec("150")))
	assert.True(t, resp.Diferenca.IsZero())
	assert.Equal(t, model.SessaoFechada, resp.Status)
}

func TestFecharCaixaPagamentoComposto(t *testing.T) {
	svc, _, pedidoRepo := setupCaixa(t)
	ctx := context.Background()

	aberta, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	parcial := dec("40")
	entregue(pedidoRepo, "100", "DINHEIRO + PIX", &parcial)

	resp, err := svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("40", "60", "0", "0"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Sistema.Dinheiro.Equal(dec("40")))
	assert.True(t, resp.Sistema.Pix.Equal(dec("60")))
	assert.True(t, resp.Diferenca.IsZero())
}

func TestFecharCaixaDiferenca(t *testing.T) {
	casos := []struct {
		nome      string
		declarado string
		esperado  string
	}{
		{"sobra", "160", "10"},
		{"falta", "140", "-10"},
	}
	for _, tc := range casos {
		t.Run(tc.nome, func(t *testing.T) {
			svc, _, pedidoRepo := setupCaixa(t)
			ctx := context.Background()

			aberta, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
			require.NoError(t, err)
			entregue(pedidoRepo, "150", "DINHEIRO", nil)

			resp, err := svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
				SessaoID:   aberta.SessaoID,
				Declaracao: declaracao(tc.declarado, "0", "0", "0"),
			})
			require.NoError(t, err)
			assert.True(t, resp.Diferenca.Equal(dec(tc.esperado)),
				"diferença esperada %s, obtida %s", tc.esperado, resp.Diferenca)
		})
	}
}

func TestFecharCaixaDuasVezes(t *testing.T) {
	svc, caixaRepo, pedidoRepo := setupCaixa(t)
	ctx := context.Background()

	aberta, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)
	entregue(pedidoRepo, "80", "PIX", nil)

	_, err = svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("0", "80", "0", "0"),
	})
	require.NoError(t, err)

	// Second close must fail and leave the stored snapshot untouched.
	_, err = svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("999", "999", "999", "999"),
	})
	assert.ErrorIs(t, err, service.ErrSessaoJaFechada)

	id := uuid.MustParse(aberta.SessaoID)
	persistida, err := caixaRepo.BuscarSessao(ctx, nil, id, false)
	require.NoError(t, err)
	require.NotNil(t, persistida.DeclaradoPix)
	assert.True(t, persistida.DeclaradoPix.Equal(dec("80")))
	require.NotNil(t, persistida.Diferenca)
	assert.True(t, persistida.Diferenca.IsZero())
}

func TestFecharCaixaDeclaracaoInvalida(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()

	aberta, err := svc.Abrir(ctx, novoAtor(), dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	// Missing field: must reject, never default to zero.
	faltando := declaracao("10", "0", "0", "0")
	faltando.Credito = nil
	_, err = svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{SessaoID: aberta.SessaoID, Declaracao: faltando})
	assert.ErrorIs(t, err, service.ErrValidacao)

	// Negative amount.
	_, err = svc.Fechar(ctx, novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("-5", "0", "0", "0"),
	})
	assert.ErrorIs(t, err, service.ErrValidacao)
}

func TestFecharCaixaInexistente(t *testing.T) {
	svc, _, _ := setupCaixa(t)

	_, err := svc.Fechar(context.Background(), novoAtor(), dto.FecharCaixaRequest{
		SessaoID:   uuid.NewString(),
		Declaracao: declaracao("0", "0", "0", "0"),
	})
	assert.ErrorIs(t, err, service.ErrSessaoNaoEncontrada)
}

// ── Quitação ─────────────────────────────────────────────────────────────────

func TestQuitacaoEntraNoFechamento(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()
	ator := novoAtor()

	aberta, err := svc.Abrir(ctx, ator, dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	err = svc.RegistrarQuitacao(ctx, nil, dec("30"), payment.BucketDinheiro, "Maria Souza", ator)
	require.NoError(t, err)

	resp, err := svc.Fechar(ctx, ator, dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("30", "0", "0", "0"),
	})
	require.NoError(t, err)

	assert.True(t, resp.Sistema.Dinheiro.Equal(dec("30")))
	assert.True(t, resp.Diferenca.IsZero())
}

func TestRegistrarQuitacaoSemCaixa(t *testing.T) {
	svc, _, _ := setupCaixa(t)

	err := svc.RegistrarQuitacao(context.Background(), nil, dec("30"), payment.BucketPix, "Maria Souza", novoAtor())
	assert.ErrorIs(t, err, service.ErrSemCaixaAberta)
}

func TestRegistrarQuitacaoInvalida(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()
	ator := novoAtor()

	_, err := svc.Abrir(ctx, ator, dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.RegistrarQuitacao(ctx, nil, dec("0"), payment.BucketPix, "x", ator), service.ErrValidacao)
	assert.ErrorIs(t, svc.RegistrarQuitacao(ctx, nil, dec("10"), payment.BucketOutros, "x", ator), service.ErrValidacao)
	assert.ErrorIs(t, svc.RegistrarQuitacao(ctx, nil, dec("10"), payment.Bucket("cheque"), "x", ator), service.ErrValidacao)
}

// ── Reabrir ──────────────────────────────────────────────────────────────────

func TestReabrirCaixa(t *testing.T) {
	svc, caixaRepo, pedidoRepo := setupCaixa(t)
	ctx := context.Background()
	ator := novoAtor()

	aberta, err := svc.Abrir(ctx, ator, dto.AbrirCaixaRequest{SaldoInicial: dec("25")})
	require.NoError(t, err)
	entregue(pedidoRepo, "10", "PIX", nil)

	_, err = svc.Fechar(ctx, ator, dto.FecharCaixaRequest{
		SessaoID:   aberta.SessaoID,
		Declaracao: declaracao("0", "10", "0", "0"),
	})
	require.NoError(t, err)

	id := uuid.MustParse(aberta.SessaoID)
	antes, err := caixaRepo.BuscarSessao(ctx, nil, id, false)
	require.NoError(t, err)

	resp, err := svc.Reabrir(ctx, ator, id)
	require.NoError(t, err)
	assert.Equal(t, model.SessaoAberta, resp.Status)
	assert.True(t, resp.SaldoInicial.Equal(dec("25")))

	depois, err := caixaRepo.BuscarSessao(ctx, nil, id, false)
	require.NoError(t, err)
	assert.Equal(t, model.SessaoAberta, depois.Status)
	assert.Nil(t, depois.FechadaEm)
	assert.Nil(t, depois.FechadaPorNome)
	assert.Nil(t, depois.DeclaradoDinheiro)
	assert.Nil(t, depois.DeclaradoPix)
	assert.Nil(t, depois.DeclaradoCredito)
	assert.Nil(t, depois.DeclaradoDebito)
	assert.Nil(t, depois.SistemaDinheiro)
	assert.Nil(t, depois.SistemaPix)
	assert.Nil(t, depois.SistemaCredito)
	assert.Nil(t, depois.SistemaDebito)
	assert.Nil(t, depois.TotalVendas)
	assert.Nil(t, depois.Diferenca)
	assert.Nil(t, depois.Observacoes)
	// The shift continues: opening data is preserved.
	assert.True(t, depois.AbertaEm.Equal(antes.AbertaEm))
	assert.True(t, depois.SaldoInicial.Equal(antes.SaldoInicial))
}

func TestReabrirComOutraSessaoAberta(t *testing.T) {
	svc, _, _ := setupCaixa(t)
	ctx := context.Background()
	ator := novoAtor()

	primeira, err := svc.Abrir(ctx, ator, dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)
	_, err = svc.Fechar(ctx, ator, dto.FecharCaixaRequest{
		SessaoID:   primeira.SessaoID,
		Declaracao: declaracao("0", "0", "0", "0"),
	})
	require.NoError(t, err)

	_, err = svc.Abrir(ctx, ator, dto.AbrirCaixaRequest{SaldoInicial: dec("0")})
	require.NoError(t, err)

	_, err = svc.Reabrir(ctx, ator, uuid.MustParse(primeira.SessaoID))
	assert.ErrorIs(t, err, service.ErrSessaoConflito)
}

// ── Consulta ─────────────────────────────────────────────────────────────────

func TestSessaoAtivaInexistente(t *testing.T) {
	svc, _, _ := setupCaixa(t)

	resp, err := svc.SessaoAtiva(context.Background())
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestHistoricoFiltraPorPeriodo(t *testing.T) {
	svc, caixaRepo, _ := setupCaixa(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, delta := range []time.Duration{0, 24 * time.Hour, 30 * 24 * time.Hour} {
		id := uuid.New()
		caixaRepo.sessoes[id] = model.SessaoCaixa{
			ID:            id,
			AbertaPorID:   uuid.New(),
			AbertaPorNome: "Franklin",
			SaldoInicial:  dec("10"),
			Status:        model.SessaoFechada,
			AbertaEm:      base.Add(delta),
			TotalVendas:   decPtr("0"),
			Diferenca:     decPtr("0"),
		}
	}

	resp, err := svc.Historico(ctx, base.Add(-time.Hour), base.Add(48*time.Hour))
	require.NoError(t, err)
	require.Len(t, resp, 2)
	// Newest first.
	assert.True(t, resp[0].AbertaEm > resp[1].AbertaEm)
}
