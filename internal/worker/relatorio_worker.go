package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FranklinPereira2309/fast-delivery-estavel-sub000/internal/infra"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// RelatorioWorker emails the close summary of a cash session to the
// configured supervisor address. Jobs that fail to send are parked in the
// dead letter queue for manual inspection.
type RelatorioWorker struct {
	mailer  *infra.Mailer
	rdb     *redis.Client
	destino string
}

func NewRelatorioWorker(mailer *infra.Mailer, rdb *redis.Client, destino string) *RelatorioWorker {
	return &RelatorioWorker{mailer: mailer, rdb: rdb, destino: destino}
}

func (w *RelatorioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload RelatorioJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("relatorio_worker: payload inválido")
		return
	}
	if w.destino == "" {
		log.Warn().Str("sessao_id", payload.SessaoID).Msg("relatorio_worker: RELATORIO_EMAIL não configurado — relatório descartado")
		return
	}

	assunto := fmt.Sprintf("Fechamento de caixa %s", payload.SessaoID)
	corpo := fmt.Sprintf(
		"Sessão de caixa fechada.\n\nSessão: %s\nFechada por: %s\nFechada em: %s\nTotal de vendas: R$ %s\nDiferença: R$ %s\n",
		payload.SessaoID, payload.FechadaPor, payload.FechadaEm, payload.TotalVendas, payload.Diferenca,
	)

	if err := w.mailer.SendRelatorio(w.destino, assunto, corpo); err != nil {
		log.Error().Err(err).Str("sessao_id", payload.SessaoID).Msg("relatorio_worker: falha no envio")
		SendToDLQ(ctx, w.rdb, QueueRelatorio, "relatorio_caixa", raw, err.Error(), 1)
		return
	}
	log.Info().Str("sessao_id", payload.SessaoID).Str("para", w.destino).Msg("relatorio_worker: relatório enviado")
}
