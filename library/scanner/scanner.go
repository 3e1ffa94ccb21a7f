package scanner

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/AntonStoeckl/library-lending-go/library/core"
)

const defaultInterval = time.Hour

// ErrSweepInProgress means another instance holds the sweep lock.
var ErrSweepInProgress = errors.New("another sweep is in progress")

// LoanService is what the scanner needs from lending.Service.
type LoanService interface {
	DueLoans(ctx context.Context, now time.Time) ([]core.Loan, error)
	MarkOverdue(ctx context.Context, loanID core.LoanIDString, now time.Time) (bool, error)
}

// SweepLock keeps several instances from sweeping at the same time.
type SweepLock interface {
	// TryLock returns acquired=false without error if the lock is held elsewhere.
	TryLock(ctx context.Context) (release func(context.Context) error, acquired bool, err error)
}

// SweepReport summarizes one sweep.
type SweepReport struct {
	Examined      int
	MarkedOverdue int
	Skipped       int // transitioned concurrently, by a return or another sweep
	Failed        int
}

// Scanner runs the overdue sweep.
type Scanner struct {
	loans    LoanService
	lock     SweepLock
	logger   *slog.Logger
	interval time.Duration
	clock    func() time.Time
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval sets the time between two sweeps.
func WithInterval(interval time.Duration) Option {
	return func(s *Scanner) {
		s.interval = interval
	}
}

// WithLock sets the lock that is held for the duration of a sweep.
func WithLock(lock SweepLock) Option {
	return func(s *Scanner) {
		s.lock = lock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// WithClock replaces time.Now as the reference for due dates.
func WithClock(clock func() time.Time) Option {
	return func(s *Scanner) {
		s.clock = clock
	}
}

// NewScanner creates a Scanner for the loans of the service.
func NewScanner(loans LoanService, opts ...Option) *Scanner {
	scanner := &Scanner{
		loans:    loans,
		logger:   slog.Default(),
		interval: defaultInterval,
		clock:    time.Now,
	}

	for _, opt := range opts {
		opt(scanner)
	}

	return scanner
}

// Start sweeps on every tick until ctx is done.
func (s *Scanner) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("overdue scanner started", slog.Duration("interval", s.interval))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue scanner stopped")
			return

		case <-ticker.C:
			report, err := s.Sweep(ctx)

			switch {
			case errors.Is(err, ErrSweepInProgress):
				s.logger.Debug("overdue sweep skipped, another instance is sweeping")
			case err != nil:
				s.logger.Error("overdue sweep failed", slog.String("error", err.Error()))
			default:
				s.logger.Info("overdue sweep finished",
					slog.Int("examined", report.Examined),
					slog.Int("marked_overdue", report.MarkedOverdue),
					slog.Int("skipped", report.Skipped),
					slog.Int("failed", report.Failed),
				)
			}
		}
	}
}

// Sweep marks all due loans overdue. It only returns an error if the due loans can't be listed,
// the lock is held elsewhere or ctx ends. Failures of single loans are counted and logged.
func (s *Scanner) Sweep(ctx context.Context) (SweepReport, error) {
	if s.lock != nil {
		release, acquired, err := s.lock.TryLock(ctx)
		if err != nil {
			return SweepReport{}, err
		}
		if !acquired {
			return SweepReport{}, ErrSweepInProgress
		}

		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("releasing the sweep lock failed", slog.String("error", err.Error()))
			}
		}()
	}

	now := s.clock()

	due, err := s.loans.DueLoans(ctx, now)
	if err != nil {
		return SweepReport{}, err
	}

	report := SweepReport{}

	for _, loan := range due {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return report, ctxErr
		}

		report.Examined++

		changed, err := s.loans.MarkOverdue(ctx, loan.LoanID, now)

		switch {
		case err != nil:
			report.Failed++
			s.logger.Error("marking loan overdue failed",
				slog.String("loan_id", loan.LoanID),
				slog.String("book_id", loan.BookID),
				slog.String("error", err.Error()),
			)

		case changed:
			report.MarkedOverdue++

		default:
			report.Skipped++
		}
	}

	return report, nil
}
