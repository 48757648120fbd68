package repository

import "errors"

// ErrSessaoAbertaExistente is returned by CriarSessao when another session is
// already open. The check runs inside a transaction and is backstopped by a
// partial unique index, so concurrent opens cannot both succeed.
var ErrSessaoAbertaExistente = errors.New("já existe uma sessão de caixa aberta")
