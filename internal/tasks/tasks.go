package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/config"
	"github.com/shwetangmahudkar-hub/LiquidSwap-sub000/internal/gateway"
)

// TaskType defines the type of a background task.
const (
	TypeTradeCompleted = "trade:counts"
	TypeOfferSweep     = "offer:sweep"
)

// sweepInterval is the delay between consecutive stale-offer sweeps.
const sweepInterval = 24 * time.Hour

// --- Task Client (Enqueuing tasks) ---

func NewClient(rdb *redis.Client) *asynq.Client {
	clientOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}
	return asynq.NewClient(clientOpt)
}

// Enqueuer wraps the asynq client behind the interface the trade engine
// expects.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	return &Enqueuer{client: client}
}

// TradeCompletedPayload names the two parties whose trade counters get
// bumped.
type TradeCompletedPayload struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
}

func (e *Enqueuer) EnqueueTradeCompleted(ctx context.Context, senderID, receiverID uuid.UUID) error {
	payload, err := json.Marshal(TradeCompletedPayload{
		SenderID:   senderID.String(),
		ReceiverID: receiverID.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal trade-completed payload: %w", err)
	}
	_, err = e.client.EnqueueContext(ctx, asynq.NewTask(TypeTradeCompleted, payload), asynq.MaxRetry(5))
	if err != nil {
		return fmt.Errorf("failed to enqueue trade-completed task: %w", err)
	}
	return nil
}

// EnqueueOfferSweep schedules one sweep of stale pending offers.
func (e *Enqueuer) EnqueueOfferSweep(ctx context.Context, delay time.Duration) error {
	_, err := e.client.EnqueueContext(ctx, asynq.NewTask(TypeOfferSweep, nil), asynq.ProcessIn(delay), asynq.Queue("low"))
	if err != nil {
		return fmt.Errorf("failed to enqueue offer sweep: %w", err)
	}
	return nil
}

// --- Task Server (Processing tasks) ---

// SweepScheduler re-enqueues the periodic offer sweep. *Enqueuer satisfies
// it; tests substitute a mock.
type SweepScheduler interface {
	EnqueueOfferSweep(ctx context.Context, delay time.Duration) error
}

// TaskProcessor handles the processing of tasks. It holds the dependencies
// needed by task handlers.
type TaskProcessor struct {
	cfg       *config.Config
	gw        gateway.Gateway
	scheduler SweepScheduler
}

func NewTaskProcessor(cfg *config.Config, gw gateway.Gateway, scheduler SweepScheduler) *TaskProcessor {
	return &TaskProcessor{
		cfg:       cfg,
		gw:        gw,
		scheduler: scheduler,
	}
}

// SetupServer configures and runs an Asynq server instance. Returns nil in
// API-only mode.
func SetupServer(rdb *redis.Client, processor *TaskProcessor, isBgWorker bool) *asynq.Server {
	if !isBgWorker {
		log.Println("Running in API mode, no task server started.")
		return nil
	}

	serverOpt := asynq.RedisClientOpt{
		Addr:     rdb.Options().Addr,
		Password: rdb.Options().Password,
		DB:       rdb.Options().DB,
	}

	srv := asynq.NewServer(
		serverOpt,
		asynq.Config{
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Asynq Error] Task Type: %s, Payload: %s, Error: %v", task.Type(), string(task.Payload()), err)
			}),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTradeCompleted, processor.HandleTradeCompletedTask)
	mux.HandleFunc(TypeOfferSweep, processor.HandleOfferSweepTask)
	log.Println("Registered background task handlers.")

	if err := srv.Start(mux); err != nil {
		log.Fatalf("Could not start Asynq server: %v", err)
	}
	return srv
}

// --- Task Handlers ---

// HandleTradeCompletedTask bumps the completed-trade counter of both parties.
// A failure on either side retries the whole task, so the handler is not
// strictly idempotent for the first party.
func (p *TaskProcessor) HandleTradeCompletedTask(ctx context.Context, t *asynq.Task) error {
	var payload TradeCompletedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal trade-completed payload: %v: %w", err, asynq.SkipRetry)
	}

	senderID, err := uuid.Parse(payload.SenderID)
	if err != nil {
		return fmt.Errorf("invalid sender ID in payload: %w", asynq.SkipRetry)
	}
	receiverID, err := uuid.Parse(payload.ReceiverID)
	if err != nil {
		return fmt.Errorf("invalid receiver ID in payload: %w", asynq.SkipRetry)
	}

	if err := p.gw.IncrementTradeCount(ctx, senderID); err != nil {
		return fmt.Errorf("failed to bump trade count for %s: %w", senderID, err)
	}
	if err := p.gw.IncrementTradeCount(ctx, receiverID); err != nil {
		return fmt.Errorf("failed to bump trade count for %s: %w", receiverID, err)
	}

	log.Printf("Trade counters bumped for %s and %s", senderID, receiverID)
	return nil
}

// HandleOfferSweepTask rejects pending offers older than the configured
// maximum age, then re-enqueues itself to keep the sweep periodic.
func (p *TaskProcessor) HandleOfferSweepTask(ctx context.Context, t *asynq.Task) error {
	cutoff := time.Now().UTC().Add(-p.cfg.StaleOfferMaxAge)
	expired, err := p.gw.ExpireStaleOffers(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to sweep stale offers: %w", err)
	}
	log.Printf("Offer sweep rejected %d stale offers (cutoff %s)", expired, cutoff.Format(time.RFC3339))

	if err := p.scheduler.EnqueueOfferSweep(ctx, sweepInterval); err != nil {
		log.Printf("ERROR failed to re-enqueue offer sweep task: %v", err)
		return err
	}
	log.Printf("Re-enqueued offer sweep to run in %s.", sweepInterval)
	return nil
}
