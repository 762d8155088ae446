package trial

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quicknotehq/entitlementkit/pkg/analytics"
	"github.com/quicknotehq/entitlementkit/pkg/catalog"
	"github.com/quicknotehq/entitlementkit/pkg/kv"
	"github.com/quicknotehq/entitlementkit/pkg/notify"
)

// Keys under which the service persists its state. Owned exclusively by this
// service; no other component may write them.
const (
	currentKey           = "trial:current"
	historyKey           = "trial:history"
	eligibilityKeyPrefix = "trial:eligibility:"
	attemptsKey          = "conversion:attempts"
)

// Service manages the trial lifecycle for a single user: at most one active
// or extended trial at a time, an append-only history of finished trials,
// per-tier standard-trial eligibility, and the conversion-attempt counter
// feeding offer selection.
//
// Mutating operations are expected to run on one control flow per process;
// the internal mutex keeps the service's own bookkeeping consistent but the
// ordering of calls remains the caller's responsibility. Expiration is
// observed lazily: there is no background timer, the clock is checked on
// every trial-reading operation.
type Service struct {
	store    kv.Store
	sink     analytics.Sink
	trials   catalog.TrialCatalog
	log      *slog.Logger
	now      func() time.Time
	notifier *notify.Notifier[Change]

	mu          sync.Mutex
	current     *Record
	history     []Record
	eligibility map[catalog.Tier]bool
	attempts    int64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for degraded-persistence warnings.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock overrides the wall clock. Tests use this to advance simulated
// time; production code never needs it.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTrialCatalog overrides the default trial-offer configuration.
func WithTrialCatalog(tc catalog.TrialCatalog) Option {
	return func(s *Service) { s.trials = tc }
}

// NewService creates a trial service and loads persisted state. A corrupted
// stored record is discarded (treated as absent) rather than failing
// startup; a nil sink falls back to analytics.Noop.
func NewService(ctx context.Context, store kv.Store, sink analytics.Sink, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, ErrMissingDependency
	}
	if sink == nil {
		sink = analytics.Noop{}
	}

	s := &Service{
		store:       store,
		sink:        sink,
		trials:      catalog.DefaultTrialCatalog(),
		log:         slog.Default(),
		now:         func() time.Time { return time.Now().UTC() },
		notifier:    notify.New[Change](),
		eligibility: make(map[catalog.Tier]bool),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.loadState(ctx)
	return s, nil
}

func (s *Service) loadState(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := s.store.Get(ctx, currentKey); err == nil {
		var rec Record
		if jsonErr := json.Unmarshal([]byte(raw), &rec); jsonErr != nil || !rec.State.Valid() {
			s.log.WarnContext(ctx, "discarding corrupted current-trial record", "error", jsonErr)
		} else if rec.State.IsTerminal() {
			// A terminal record must never occupy the slot; drop it.
			s.log.WarnContext(ctx, "discarding terminal record found in current-trial slot", "state", string(rec.State))
		} else {
			s.current = &rec
		}
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		s.log.WarnContext(ctx, "current-trial record unreadable, starting without one", "error", err)
	}

	if raw, err := s.store.Get(ctx, historyKey); err == nil {
		var hist []Record
		if jsonErr := json.Unmarshal([]byte(raw), &hist); jsonErr != nil {
			s.log.WarnContext(ctx, "discarding corrupted trial history", "error", jsonErr)
		} else {
			s.history = hist
		}
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		s.log.WarnContext(ctx, "trial history unreadable, starting empty", "error", err)
	}

	// Eligibility defaults to true per tier until a trial consumes it.
	for _, tier := range catalog.Tiers() {
		s.eligibility[tier] = true
		v, err := s.store.GetBool(ctx, eligibilityKeyPrefix+string(tier))
		switch {
		case err == nil:
			s.eligibility[tier] = v
		case errors.Is(err, kv.ErrKeyNotFound):
		default:
			s.log.WarnContext(ctx, "eligibility flag unreadable, assuming eligible",
				"tier", string(tier), "error", err)
		}
	}

	if n, err := s.store.GetInt(ctx, attemptsKey); err == nil {
		s.attempts = n
	} else if !errors.Is(err, kv.ErrKeyNotFound) {
		s.log.WarnContext(ctx, "conversion-attempt counter unreadable, starting at zero", "error", err)
	}
}

// OnChange registers an observer notified after every successful mutation,
// before the mutating call returns. Observers run outside the service's
// internal lock, so a handler may call the read accessors to pick up the new
// state. The returned function removes the registration.
func (s *Service) OnChange(handler func(Change)) (unsubscribe func()) {
	return s.notifier.Subscribe(handler)
}

// unlockNotify releases the mutex and then delivers the collected change
// notifications. Mutating operations defer this so observers always run
// after the lock is dropped but before the call returns.
func (s *Service) unlockNotify(pending []Change) {
	s.mu.Unlock()
	for _, c := range pending {
		s.notifier.Notify(c)
	}
}

// Start begins a trial from the given offer.
//
// Preconditions: the current-trial slot is empty, the tier's standard trial
// has not been consumed (standard offers only — promotional and win-back
// offers are gated by their own selection rules), and the offer's validity
// window, if any, is still open. A failed precondition returns a sentinel
// error with no mutation and no analytics event.
func (s *Service) Start(ctx context.Context, offer Offer) (*Record, error) {
	if err := offer.validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	if s.current != nil {
		return nil, ErrTrialAlreadyActive
	}
	if offer.Type == OfferStandard && !s.eligibility[offer.Tier] {
		return nil, ErrNotEligible
	}
	if offer.ExpiredAt(now) {
		return nil, ErrOfferExpired
	}

	rec := Record{
		ID:           uuid.New(),
		Tier:         offer.Tier,
		Type:         offer.Type,
		StartedAt:    now,
		ExpiresAt:    now.AddDate(0, 0, offer.DurationDays),
		DurationDays: offer.DurationDays,
		State:        StateActive,
		PromoCode:    offer.PromoCode,
	}
	if offer.Metadata != nil {
		rec.Metadata = make(map[string]any, len(offer.Metadata))
		for k, v := range offer.Metadata {
			rec.Metadata[k] = v
		}
	}

	// In-memory transition commits before any I/O is issued.
	s.current = &rec
	s.eligibility[offer.Tier] = false

	s.persistCurrent(ctx)
	s.persistEligibility(ctx, offer.Tier)

	params := analytics.Params{
		"tier":          string(rec.Tier),
		"trial_type":    string(rec.Type),
		"duration_days": rec.DurationDays,
	}
	if rec.PromoCode != "" {
		params["promo_code"] = rec.PromoCode
	}
	s.sink.Track(ctx, EventTrialStarted, params)

	out := rec.clone()
	pending = append(pending, Change{Op: OpStarted, Record: &out})
	return &out, nil
}

// Extend pushes the current trial's expiry out by days and marks it
// extended. Rejected when no non-terminal trial occupies the slot.
func (s *Service) Extend(ctx context.Context, days int, reason string) error {
	if days <= 0 {
		return ErrInvalidExtension
	}

	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	if s.current == nil {
		return ErrNoActiveTrial
	}

	s.current.ExpiresAt = s.current.ExpiresAt.AddDate(0, 0, days)
	s.current.ExtensionDays += days
	s.current.State = StateExtended

	s.persistCurrent(ctx)

	s.sink.Track(ctx, EventTrialExtended, analytics.Params{
		"tier":            string(s.current.Tier),
		"additional_days": days,
		"reason":          reason,
	})

	out := s.current.clone()
	pending = append(pending, Change{Op: OpExtended, Record: &out})
	return nil
}

// Convert ends the current trial because the user purchased subscribedTier.
// The conversion day is the absolute whole-day distance from trial start to
// the conversion instant.
func (s *Service) Convert(ctx context.Context, subscribedTier catalog.Tier) error {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	if s.current == nil {
		return ErrNoActiveTrial
	}

	rec := s.current
	rec.State = StateConverted
	conversionDay := wholeDays(now.Sub(rec.StartedAt))

	s.retireCurrentLocked(ctx)

	s.sink.Track(ctx, EventTrialConverted, analytics.Params{
		"trial_tier":          string(rec.Tier),
		"subscribed_tier":     string(subscribedTier),
		"trial_duration_days": rec.TotalDurationDays(),
		"conversion_day":      conversionDay,
	})

	out := rec.clone()
	pending = append(pending, Change{Op: OpConverted, Record: &out})
	return nil
}

// Cancel ends the current trial early for the given reason.
func (s *Service) Cancel(ctx context.Context, reason string) error {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	now := s.now()
	if c := s.expireCheckLocked(ctx, now); c != nil {
		pending = append(pending, *c)
	}

	if s.current == nil {
		return ErrNoActiveTrial
	}

	rec := s.current
	rec.State = StateCancelled
	daysUsed := wholeDays(now.Sub(rec.StartedAt))

	s.retireCurrentLocked(ctx)

	s.sink.Track(ctx, EventTrialCancelled, analytics.Params{
		"tier":      string(rec.Tier),
		"reason":    reason,
		"days_used": daysUsed,
	})

	out := rec.clone()
	pending = append(pending, Change{Op: OpCancelled, Record: &out})
	return nil
}

// Current returns a copy of the trial occupying the slot, or nil. Reading
// the slot observes lazy expiration: a trial past its window transitions to
// expired here, exactly once.
func (s *Service) Current(ctx context.Context) *Record {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	if c := s.expireCheckLocked(ctx, s.now()); c != nil {
		pending = append(pending, *c)
	}
	if s.current == nil {
		return nil
	}
	out := s.current.clone()
	return &out
}

// History returns a copy of all finished trials, oldest first.
func (s *Service) History(ctx context.Context) []Record {
	s.mu.Lock()
	var pending []Change
	defer func() { s.unlockNotify(pending) }()

	if c := s.expireCheckLocked(ctx, s.now()); c != nil {
		pending = append(pending, *c)
	}

	out := make([]Record, len(s.history))
	for i, r := range s.history {
		out[i] = r.clone()
	}
	return out
}

// Eligible reports whether the tier's standard trial is still available.
func (s *Service) Eligible(ctx context.Context, tier catalog.Tier) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.eligibility[tier]
}

// ResetEligibility restores a tier's standard-trial eligibility. Eligibility
// is never reset automatically; this exists for admin and developer tooling
// only.
func (s *Service) ResetEligibility(ctx context.Context, tier catalog.Tier) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.eligibility[tier] = true
	s.persistEligibility(ctx, tier)
}

// DaysRemaining returns whole days left on the current trial, zero when no
// trial is active.
func (s *Service) DaysRemaining(ctx context.Context) int {
	if rec := s.Current(ctx); rec != nil {
		return rec.DaysRemainingAt(s.now())
	}
	return 0
}

// Progress returns how far through the current trial the user is, as a
// percentage in [0,100]. Zero when no trial is active.
func (s *Service) Progress(ctx context.Context) float64 {
	if rec := s.Current(ctx); rec != nil {
		return rec.ProgressAt(s.now())
	}
	return 0
}

// IsActive reports whether a trial currently grants access.
func (s *Service) IsActive(ctx context.Context) bool {
	rec := s.Current(ctx)
	return rec != nil && rec.IsActiveAt(s.now())
}

// IsAboutToExpire reports whether the current trial ends within two days.
func (s *Service) IsAboutToExpire(ctx context.Context) bool {
	rec := s.Current(ctx)
	return rec != nil && rec.IsAboutToExpireAt(s.now())
}

// expireCheckLocked retires the current trial when its window has passed.
// Idempotent: once the slot is empty there is nothing left to do, so re-runs
// are no-ops. Callers must hold s.mu and deliver the returned change, if
// any, after releasing it.
func (s *Service) expireCheckLocked(ctx context.Context, now time.Time) *Change {
	if s.current == nil || !s.current.IsExpiredAt(now) {
		return nil
	}

	rec := s.current
	rec.State = StateExpired

	s.retireCurrentLocked(ctx)

	s.sink.Track(ctx, EventTrialExpired, analytics.Params{
		"tier":          string(rec.Tier),
		"trial_type":    string(rec.Type),
		"duration_days": rec.TotalDurationDays(),
	})

	out := rec.clone()
	return &Change{Op: OpExpired, Record: &out}
}

// retireCurrentLocked moves the (already terminal) current record into
// history, clears the slot and persists both. Callers must hold s.mu.
func (s *Service) retireCurrentLocked(ctx context.Context) {
	s.history = append(s.history, *s.current)
	s.current = nil

	if err := s.store.Delete(ctx, currentKey); err != nil {
		s.log.WarnContext(ctx, "failed to clear current-trial record", "error", err)
	}
	s.persistHistory(ctx)
}

func (s *Service) persistCurrent(ctx context.Context) {
	raw, err := json.Marshal(s.current)
	if err != nil {
		s.log.WarnContext(ctx, "failed to encode current-trial record", "error", err)
		return
	}
	if err := s.store.Set(ctx, currentKey, string(raw)); err != nil {
		s.log.WarnContext(ctx, "failed to persist current-trial record", "error", err)
	}
}

func (s *Service) persistHistory(ctx context.Context) {
	raw, err := json.Marshal(s.history)
	if err != nil {
		s.log.WarnContext(ctx, "failed to encode trial history", "error", err)
		return
	}
	if err := s.store.Set(ctx, historyKey, string(raw)); err != nil {
		s.log.WarnContext(ctx, "failed to persist trial history", "error", err)
	}
}

func (s *Service) persistEligibility(ctx context.Context, tier catalog.Tier) {
	if err := s.store.SetBool(ctx, eligibilityKeyPrefix+string(tier), s.eligibility[tier]); err != nil {
		s.log.WarnContext(ctx, "failed to persist eligibility flag",
			"tier", string(tier), "error", err)
	}
}

// wholeDays converts a duration to absolute whole days.
func wholeDays(d time.Duration) int {
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}
