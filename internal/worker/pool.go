package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// QueueRelatorio carries close-report jobs emitted after a successful
	// drawer close. Delivery failures never affect the close itself.
	QueueRelatorio = "jobs:relatorio_caixa"
	// QueueAuditoria forwards drawer audit events (settlements, reopens)
	// to the external audit collector.
	QueueAuditoria = "jobs:auditoria"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RelatorioJobPayload summarizes a closed session for the supervisor email.
type RelatorioJobPayload struct {
	SessaoID    string `json:"sessao_id"`
	FechadaPor  string `json:"fechada_por"`
	TotalVendas string `json:"total_vendas"`
	Diferenca   string `json:"diferenca"`
	FechadaEm   string `json:"fechada_em"`
}

// AuditoriaJobPayload records who did what against the drawer.
type AuditoriaJobPayload struct {
	Evento     string `json:"evento"`
	SessaoID   string `json:"sessao_id,omitempty"`
	AtorID     string `json:"ator_id"`
	AtorNome   string `json:"ator_nome"`
	Valor      string `json:"valor,omitempty"`
	Metodo     string `json:"metodo,omitempty"`
	Referencia string `json:"referencia,omitempty"`
	OcorreuEm  string `json:"ocorreu_em"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

func (d *Dispatcher) EnqueueRelatorio(ctx context.Context, payload RelatorioJobPayload) error {
	return d.enqueue(ctx, QueueRelatorio, "relatorio_caixa", payload)
}

func (d *Dispatcher) EnqueueAuditoria(ctx context.Context, payload AuditoriaJobPayload) error {
	return d.enqueue(ctx, QueueAuditoria, "auditoria", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// WorkerHandlers groups the per-queue processors wired at the composition root.
type WorkerHandlers struct {
	Relatorio *RelatorioWorker
	Auditoria *AuditoriaWorker
}

// StartWorkerPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool iniciado com %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *WorkerHandlers, id int) {
	queues := []string{QueueRelatorio, QueueAuditoria}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d encerrando", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, handlers *WorkerHandlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("worker: job ilegível")
		return
	}

	switch queue {
	case QueueRelatorio:
		handlers.Relatorio.Process(ctx, job.Payload)
	case QueueAuditoria:
		handlers.Auditoria.Process(ctx, job.Payload)
	default:
		log.Warn().Str("queue", queue).Str("type", job.Type).Msg("worker: fila desconhecida")
	}
}
