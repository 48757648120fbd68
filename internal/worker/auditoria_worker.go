package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuditTrailKey buffers audit events for the external collector to drain.
const AuditTrailKey = "auditoria:eventos"

// AuditoriaWorker forwards drawer audit events. The audit store itself is an
// external system; this worker logs each event and pushes it onto a Redis
// list the collector consumes.
type AuditoriaWorker struct {
	rdb *redis.Client
}

func NewAuditoriaWorker(rdb *redis.Client) *AuditoriaWorker { return &AuditoriaWorker{rdb: rdb} }

func (w *AuditoriaWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload AuditoriaJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("auditoria_worker: payload inválido")
		return
	}

	log.Info().
		Str("evento", payload.Evento).
		Str("ator", payload.AtorNome).
		Str("valor", payload.Valor).
		Str("metodo", payload.Metodo).
		Str("referencia", payload.Referencia).
		Msg("auditoria: evento registrado")

	if err := w.rdb.LPush(ctx, AuditTrailKey, []byte(raw)).Err(); err != nil {
		log.Error().Err(err).Str("evento", payload.Evento).Msg("auditoria_worker: falha ao encaminhar evento")
	}
}
