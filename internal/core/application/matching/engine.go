package matching

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"
)

const (
	defaultCandidateLimit = 16
	releaseCASAttempts    = 3
)

type attemptOutcome int

const (
	attemptAssigned attemptOutcome = iota + 1
	attemptNoCourier
	attemptIneligible
	attemptFailed
)

func (o attemptOutcome) String() string {
	switch o {
	case attemptAssigned:
		return "assigned"
	case attemptNoCourier:
		return "no_courier"
	case attemptIneligible:
		return "ineligible"
	default:
		return "failed"
	}
}

type pendingEntry struct {
	req PendingRequest
	seq uint64
}

// Engine is the matching engine. Create it with NewEngine; the zero value is not usable.
type Engine struct {
	uowFactory     UoWFactory
	dispatcher     services.OrderDispatcher
	logger         *slog.Logger
	metrics        Metrics
	clock          func() time.Time
	candidateLimit int

	mu       sync.Mutex
	pending  map[kernel.UUID]*pendingEntry
	seq      uint64
	releases map[kernel.UUID]struct{}
	listener AssignmentListener

	cycleMu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, e.g. in tests.
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithMetrics installs a metrics sink.
func WithMetrics(m Metrics) Option {
	return func(e *Engine) {
		if m != nil {
			e.metrics = m
		}
	}
}

// WithCandidateLimit bounds how many Free couriers one attempt loads.
func WithCandidateLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.candidateLimit = n
		}
	}
}

func NewEngine(uowFactory UoWFactory, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		uowFactory:     uowFactory,
		dispatcher:     services.NewOrderDispatcher(),
		logger:         logger.With("component", "matching_engine"),
		metrics:        noopMetrics{},
		clock:          func() time.Time { return time.Now().UTC() },
		candidateLimit: defaultCandidateLimit,
		pending:        make(map[kernel.UUID]*pendingEntry),
		releases:       make(map[kernel.UUID]struct{}),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetListener registers the receiver of assignment events. It replaces any
// previous listener.
func (e *Engine) SetListener(l AssignmentListener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listener = l
}

// RequestMatch registers intent to find a courier for orderID. An order that is
// already pending stays queued without a new attempt. Otherwise the engine tries
// to claim a Free courier right away; when none is free, or the store fails,
// the order joins the pending set and Queued is returned. Store failures are
// logged, not returned. An order that no longer exists or no longer awaits a
// courier yields an error.
func (e *Engine) RequestMatch(ctx context.Context, orderID kernel.UUID) (Result, error) {
	if err := orderID.Validate(); err != nil {
		return Result{}, err
	}

	if e.isPending(orderID) {
		return Result{Outcome: Queued}, nil
	}

	outcome, assignment, err := e.attempt(ctx, orderID)
	switch outcome {
	case attemptAssigned:
		e.emit(ctx, assignment)
		courierID := assignment.CourierID
		return Result{Outcome: Assigned, CourierID: &courierID}, nil
	case attemptIneligible:
		if err == nil {
			err = errs.NewInvalidTransitionError("request match", "order is not awaiting a courier")
		}
		return Result{}, err
	case attemptFailed:
		e.logger.WarnContext(ctx, "immediate claim failed, order queued for retry",
			"order_id", orderID.String(),
			"error", err,
		)
	case attemptNoCourier:
		e.logger.DebugContext(ctx, "no free courier, order queued", "order_id", orderID.String())
	}

	e.enqueue(orderID, e.clock(), 1)
	return Result{Outcome: Queued}, nil
}

// WithdrawMatch removes orderID from the pending set. Withdrawing an order that
// is not pending is a no-op.
func (e *Engine) WithdrawMatch(orderID kernel.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pending[orderID]; ok {
		delete(e.pending, orderID)
		e.metrics.SetPending(len(e.pending))
	}
}

// Pending returns a snapshot of the pending set, oldest first.
func (e *Engine) Pending() []PendingRequest {
	e.mu.Lock()
	entries := make([]*pendingEntry, 0, len(e.pending))
	for _, entry := range e.pending {
		entries = append(entries, entry)
	}
	e.mu.Unlock()

	slices.SortFunc(entries, func(a, b *pendingEntry) int {
		if c := a.req.CreatedAt.Compare(b.req.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})

	out := make([]PendingRequest, 0, len(entries))
	for _, entry := range entries {
		out = append(out, entry.req)
	}
	return out
}

// PendingReleases returns couriers whose release is waiting for a retry.
func (e *Engine) PendingReleases() []kernel.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]kernel.UUID, 0, len(e.releases))
	for id := range e.releases {
		out = append(out, id)
	}
	return out
}

// RunCycle performs one sweep: queued releases are retried, then pending orders
// are attempted oldest-first. The sweep ends early once no courier is free.
// A call made while another cycle is running returns immediately with Skipped set.
func (e *Engine) RunCycle(ctx context.Context) (CycleReport, error) {
	if !e.cycleMu.TryLock() {
		e.logger.DebugContext(ctx, "cycle already running, skipping")
		return CycleReport{Skipped: true}, nil
	}
	defer e.cycleMu.Unlock()

	started := time.Now()
	defer func() {
		e.metrics.ObserveCycle(time.Since(started))
	}()

	report := CycleReport{Released: e.retryReleases(ctx)}

	queue := e.Pending()
	for i, req := range queue {
		if err := ctx.Err(); err != nil {
			report.Remaining += len(queue) - i
			return report, err
		}

		outcome, assignment, err := e.attempt(ctx, req.OrderID)
		switch outcome {
		case attemptAssigned:
			e.WithdrawMatch(req.OrderID)
			report.Assigned++
			e.emit(ctx, assignment)
		case attemptIneligible:
			e.WithdrawMatch(req.OrderID)
			report.Dropped++
			e.logger.DebugContext(ctx, "dropped pending request", "order_id", req.OrderID.String(), "reason", err)
		case attemptNoCourier:
			e.markAttempted(req.OrderID)
			report.Remaining += len(queue) - i
			e.logCycle(ctx, report)
			return report, nil
		case attemptFailed:
			e.markAttempted(req.OrderID)
			report.Failed++
			report.Remaining++
			e.logger.WarnContext(ctx, "claim attempt failed, will retry next cycle",
				"order_id", req.OrderID.String(),
				"error", err,
			)
		}
	}

	e.logCycle(ctx, report)
	return report, nil
}

// Release returns courierID to the pool. Releasing a Free courier is a no-op.
// When the store fails the release is queued and retried by the next cycle;
// the error is still returned so the caller can log it.
func (e *Engine) Release(ctx context.Context, courierID kernel.UUID) error {
	err := e.release(ctx, courierID)
	switch {
	case err == nil:
		e.metrics.ObserveRelease("released")
		return nil
	case errors.Is(err, errs.ErrObjectNotFound):
		e.metrics.ObserveRelease("not_found")
		return err
	default:
		e.mu.Lock()
		e.releases[courierID] = struct{}{}
		e.mu.Unlock()
		e.metrics.ObserveRelease("queued")
		return fmt.Errorf("release courier %s queued for retry: %w", courierID, err)
	}
}

// Restore re-registers every persisted Confirmed order without courier, keyed
// by its confirmation time. Orders already pending are left untouched.
func (e *Engine) Restore(ctx context.Context) (int, error) {
	orders, err := e.uowFactory.Create().OrderRepository().ListAwaitingCourier(ctx)
	if err != nil {
		return 0, errs.WrapStore("list orders awaiting courier", err)
	}

	restored := 0
	for _, o := range orders {
		if e.enqueue(o.ID(), o.UpdatedAt(), 0) {
			restored++
		}
	}

	e.logger.InfoContext(ctx, "pending match requests restored", "count", restored)
	return restored, nil
}

// attempt runs one claim-and-bind transaction for orderID.
func (e *Engine) attempt(ctx context.Context, orderID kernel.UUID) (outcome attemptOutcome, assignment Assignment, err error) {
	defer func() {
		e.metrics.ObserveAttempt(outcome.String())
	}()

	uow := e.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("begin claim", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders := uow.OrderRepository()
	couriers := uow.CourierRepository()

	o, err := orders.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return attemptIneligible, Assignment{}, err
	}
	if err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("get order", err)
	}
	if !o.IsAwaitingCourier() {
		return attemptIneligible, Assignment{}, errs.NewInvalidTransitionError("assign courier", o.Status().String())
	}

	candidates, err := couriers.ListFree(ctx, e.candidateLimit)
	if err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("list free couriers", err)
	}
	if len(candidates) == 0 {
		return attemptNoCourier, Assignment{}, nil
	}

	claimed, err := e.dispatcher.Dispatch(o, candidates, func(c *courier.Courier) error {
		return couriers.Update(ctx, c)
	})
	if errors.Is(err, services.ErrCourierNotFound) {
		return attemptNoCourier, Assignment{}, nil
	}
	if err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("claim courier", err)
	}

	err = orders.Update(ctx, o)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return attemptIneligible, Assignment{}, err
	}
	if err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("bind courier", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return attemptFailed, Assignment{}, errs.WrapStore("commit claim", err)
	}

	return attemptAssigned, Assignment{
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		CourierID:  claimed.ID(),
	}, nil
}

func (e *Engine) release(ctx context.Context, courierID kernel.UUID) error {
	var lastErr error
	for range releaseCASAttempts {
		lastErr = e.releaseOnce(ctx, courierID)
		if !errors.Is(lastErr, errs.ErrConflict) {
			return lastErr
		}
	}
	return lastErr
}

func (e *Engine) releaseOnce(ctx context.Context, courierID kernel.UUID) error {
	uow := e.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin release", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	couriers := uow.CourierRepository()
	c, err := couriers.Get(ctx, courierID)
	if err != nil {
		return errs.WrapStore("get courier", err)
	}
	if c.IsFree() {
		return nil
	}
	if err = c.Release(); err != nil {
		return err
	}
	if err = couriers.Update(ctx, c); err != nil {
		return errs.WrapStore("release courier", err)
	}
	return errs.WrapStore("commit release", uow.Commit(ctx))
}

func (e *Engine) retryReleases(ctx context.Context) int {
	released := 0
	for _, courierID := range e.PendingReleases() {
		err := e.release(ctx, courierID)
		if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			e.logger.WarnContext(ctx, "courier release retry failed",
				"courier_id", courierID.String(),
				"error", err,
			)
			continue
		}
		e.mu.Lock()
		delete(e.releases, courierID)
		e.mu.Unlock()
		if err == nil {
			released++
			e.metrics.ObserveRelease("released")
		}
	}
	return released
}

func (e *Engine) isPending(orderID kernel.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.pending[orderID]
	return ok
}

// enqueue adds orderID unless it is already pending.
func (e *Engine) enqueue(orderID kernel.UUID, createdAt time.Time, attempts int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.pending[orderID]; ok {
		return false
	}

	e.seq++
	req := PendingRequest{OrderID: orderID, CreatedAt: createdAt, Attempts: attempts}
	if attempts > 0 {
		req.LastAttemptAt = createdAt
	}
	e.pending[orderID] = &pendingEntry{req: req, seq: e.seq}
	e.metrics.SetPending(len(e.pending))
	return true
}

func (e *Engine) markAttempted(orderID kernel.UUID) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if entry, ok := e.pending[orderID]; ok {
		entry.req.Attempts++
		entry.req.LastAttemptAt = e.clock()
	}
}

func (e *Engine) emit(ctx context.Context, a Assignment) {
	e.mu.Lock()
	l := e.listener
	e.mu.Unlock()

	e.logger.InfoContext(ctx, "courier assigned",
		"order_id", a.OrderID.String(),
		"courier_id", a.CourierID.String(),
	)
	if l != nil {
		l.OnCourierAssigned(ctx, a)
	}
}

func (e *Engine) logCycle(ctx context.Context, r CycleReport) {
	if r.Assigned == 0 && r.Dropped == 0 && r.Failed == 0 && r.Released == 0 {
		return
	}
	e.logger.InfoContext(ctx, "matching cycle finished",
		"assigned", r.Assigned,
		"dropped", r.Dropped,
		"failed", r.Failed,
		"remaining", r.Remaining,
		"released", r.Released,
	)
}
