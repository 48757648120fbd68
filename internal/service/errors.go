package service

import "errors"

// Typed service errors. Handlers map these onto HTTP statuses; nothing below
// the handler layer formats user-facing responses.
var (
	// ErrSessaoConflito: the single-open-session invariant would be violated
	// (opening while a session is open, or reopening while another is open).
	ErrSessaoConflito = errors.New("já existe uma sessão de caixa aberta")

	// ErrSessaoJaFechada: the operation is not legal for a closed session.
	// A repeated close lands here and leaves the stored snapshot untouched.
	ErrSessaoJaFechada = errors.New("a sessão de caixa já está fechada")

	ErrSessaoNaoEncontrada = errors.New("sessão de caixa não encontrada")

	// ErrSemCaixaAberta: a settlement arrived with no open drawer. The amount
	// is NOT recorded anywhere — surfacing this loudly is the whole point.
	ErrSemCaixaAberta = errors.New("não há caixa aberto para receber o lançamento")

	// ErrValidacao covers malformed monetary input: negative or missing
	// declared amounts, non-positive settlement values.
	ErrValidacao = errors.New("dados inválidos")

	ErrPedidoNaoEncontrado = errors.New("pedido não encontrado")
	ErrFiadoNaoEncontrado  = errors.New("fiado não encontrado")
	ErrFiadoJaPago         = errors.New("fiado já quitado")
)
