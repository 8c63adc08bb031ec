package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/medbook/medbook/internal/platform/clock"
)

// Scheduler advances appointments through their lifecycle purely as a
// function of wall-clock time. It is a reconciliation loop: every pass
// re-derives the desired status from (status, now, scheduledAt), so a
// missed or failed pass is simply retried in full on the next tick.
type Scheduler struct {
	appts       AppointmentRepository
	transfers   TransferCompleter
	clk         clock.Clock
	interval    time.Duration
	passTimeout time.Duration
	log         zerolog.Logger
}

func NewScheduler(appts AppointmentRepository, transfers TransferCompleter, clk clock.Clock,
	interval, passTimeout time.Duration, log zerolog.Logger) *Scheduler {
	if clk == nil {
		clk = clock.System()
	}
	return &Scheduler{
		appts:       appts,
		transfers:   transfers,
		clk:         clk,
		interval:    interval,
		passTimeout: passTimeout,
		log:         log.With().Str("component", "appointment-scheduler").Logger(),
	}
}

// Run executes one pass immediately, then one per tick until ctx is
// canceled. A failed pass is logged and the loop keeps its cadence.
func (s *Scheduler) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Msg("scheduler started")
	s.runPassLogged(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("scheduler stopped")
			return
		case <-ticker.C:
			s.runPassLogged(ctx)
		}
	}
}

func (s *Scheduler) runPassLogged(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.passTimeout)
	defer cancel()
	if err := s.RunPass(passCtx); err != nil {
		s.log.Error().Err(err).Msg("scheduler pass failed, retrying next tick")
	}
}

// RunPass applies every due transition once: booked appointments inside
// the confirmation window become confirmed, and booked or confirmed
// appointments past their scheduled instant become done. Done transitions
// with a linked payment trigger the transfer-completion step. Canceled
// appointments are never considered.
func (s *Scheduler) RunPass(ctx context.Context) error {
	now := s.clk.Now()

	toConfirm, err := s.appts.ListDueForConfirmation(ctx, now)
	if err != nil {
		return fmt.Errorf("list due for confirmation: %w", err)
	}
	toComplete, err := s.appts.ListDueForCompletion(ctx, now)
	if err != nil {
		return fmt.Errorf("list due for completion: %w", err)
	}

	var batch []*Appointment
	confirmed := 0
	for _, a := range toConfirm {
		if !a.DueForConfirmation(now) {
			continue
		}
		a.Status = StatusConfirmed
		a.ConfirmedAt = &now
		batch = append(batch, a)
		confirmed++
	}

	var settled []*Appointment
	completed := 0
	for _, a := range toComplete {
		if !a.DueForCompletion(now) {
			continue
		}
		a.Status = StatusDone
		a.CompletedAt = &now
		batch = append(batch, a)
		completed++
		if a.PaymentID != nil {
			settled = append(settled, a)
		}
	}

	if len(batch) == 0 {
		s.log.Debug().Msg("scheduler pass found nothing due")
		return nil
	}

	if err := s.appts.UpdateStatusBatch(ctx, batch); err != nil {
		return fmt.Errorf("persist transitions: %w", err)
	}

	for _, a := range settled {
		if _, err := s.transfers.CompleteTransfer(ctx, *a.PaymentID); err != nil {
			s.log.Error().Err(err).
				Stringer("appointment_id", a.ID).
				Stringer("payment_id", *a.PaymentID).
				Msg("transfer completion failed")
		}
	}

	s.log.Info().
		Int("confirmed", confirmed).
		Int("completed", completed).
		Msg("scheduler pass applied transitions")
	return nil
}
