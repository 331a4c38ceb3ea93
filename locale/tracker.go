// SPDX-License-Identifier: GPL-3.0-only

package locale

import (
	"context"
	"errors"
	"locale-tracker/commons"
	"locale-tracker/commons/mccmnc"
	"locale-tracker/telephony"
	"sync"
	"sync/atomic"
	"time"

	"github.com/labstack/gommon/log"
)

var (
	ErrNotStarted = errors.New("locale tracker not started")
	ErrStopped    = errors.New("locale tracker stopped")
)

// Phone is the telephony-state provider the tracker reads cell info from.
// AllCellInfo is called off the worker goroutine and should honour ctx.
type Phone interface {
	PhoneID() int
	AllCellInfo(ctx context.Context) ([]telephony.CellInfo, error)
}

// CountrySetter receives every country change. An empty code clears the
// previously applied country.
type CountrySetter interface {
	SetCountryCode(iso string) error
}

// CountryResolver maps MCCs to lower-case ISO 3166-1 codes.
// *mccmnc.LookupIndex implements it.
type CountryResolver interface {
	CountryCodeForMCCString(mcc string) string
	CountryCodeForNumeric(numeric string) string
}

type Source string

const (
	SourceNone            Source = "NONE"
	SourceOperatorNumeric Source = "OPERATOR_NUMERIC"
	SourceCellInfo        Source = "CELL_INFO"
)

type CountryChange struct {
	PhoneID   int
	Previous  string
	Current   string
	MCC       string
	Source    Source
	ChangedAt time.Time
}

type Listener func(CountryChange)

// Snapshot is a consistent view of the tracker state, published by the
// worker after every processed event.
type Snapshot struct {
	PhoneID           int
	CurrentCountry    string
	CountrySource     Source
	Tracking          bool
	OperatorNumeric   string
	ServiceState      telephony.ServiceState
	ServiceStateKnown bool
	CellCount         int
	FailCount         int
	UpdatedAt         time.Time
}

// state is only touched by the worker goroutine.
type state struct {
	numeric    string
	numericSet bool

	serviceState      telephony.ServiceState
	serviceStateKnown bool

	cells []telephony.CellInfo

	country       string
	countrySet    bool
	countrySource Source

	tracking   bool
	generation uint64
	failCount  int
	pollTimer  *time.Timer
}

type envelope struct {
	event Event
	done  chan struct{}
}

type Tracker struct {
	phone    Phone
	phoneID  int
	setter   CountrySetter
	resolver CountryResolver
	logger   *log.Logger

	pollInterval   time.Duration
	retryMinDelay  time.Duration
	retryMaxDelay  time.Duration
	requestTimeout time.Duration
	queueSize      int
	listeners      []Listener

	queue   chan envelope
	quit    chan struct{}
	stopped chan struct{}
	ctx     context.Context
	cancel  context.CancelFunc
	helpers sync.WaitGroup

	started   atomic.Bool
	startOnce sync.Once
	stopOnce  sync.Once

	st       state
	pending  []CountryChange
	snapshot atomic.Pointer[Snapshot]
	localLog *LocalLog
}

func New(phone Phone, setter CountrySetter, opts ...Option) *Tracker {
	t := &Tracker{
		phone:          phone,
		phoneID:        phone.PhoneID(),
		setter:         setter,
		logger:         commons.Logger,
		pollInterval:   DefaultPollInterval,
		retryMinDelay:  DefaultRetryMinDelay,
		retryMaxDelay:  DefaultRetryMaxDelay,
		requestTimeout: DefaultRequestTimeout,
		queueSize:      DefaultQueueSize,
		quit:           make(chan struct{}),
		stopped:        make(chan struct{}),
		localLog:       NewLocalLog(localLogSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.resolver == nil {
		t.resolver = defaultResolver()
	}
	t.queue = make(chan envelope, t.queueSize)
	t.ctx, t.cancel = context.WithCancel(context.Background())
	t.publish()
	return t
}

var (
	fallbackIndexOnce sync.Once
	fallbackIndex     *mccmnc.LookupIndex
)

func defaultResolver() CountryResolver {
	if commons.MCCMNCIndex != nil {
		return commons.MCCMNCIndex
	}
	fallbackIndexOnce.Do(func() {
		entries, err := mccmnc.Default()
		if err != nil {
			commons.Logger.Errorf("Failed to load built-in MCC table: %v", err)
		}
		fallbackIndex = mccmnc.BuildIndex(entries)
	})
	return fallbackIndex
}

// Start launches the worker goroutine. Calling it more than once is a no-op.
func (t *Tracker) Start() {
	t.startOnce.Do(func() {
		t.started.Store(true)
		go t.run()
		t.logger.Infof("Locale tracker started for phone %d", t.phoneID)
	})
}

// Stop terminates the worker and waits for it and any in-flight cell info
// requests to finish. Events still queued are dropped.
func (t *Tracker) Stop() {
	t.stopOnce.Do(func() {
		close(t.quit)
		t.cancel()
	})
	if !t.started.Load() {
		return
	}
	<-t.stopped
	t.helpers.Wait()
}

func (t *Tracker) run() {
	defer close(t.stopped)
	for {
		select {
		case env := <-t.queue:
			env.event.apply(t)
			t.publish()
			t.notifyListeners()
			if env.done != nil {
				close(env.done)
			}
		case <-t.quit:
			t.cancelPoll()
			t.logger.Infof("Locale tracker stopped for phone %d", t.phoneID)
			return
		}
	}
}

// Submit queues ev and returns a channel closed once ev has been applied.
func (t *Tracker) Submit(ev Event) (<-chan struct{}, error) {
	if !t.started.Load() {
		return nil, ErrNotStarted
	}
	done := make(chan struct{})
	if !t.post(ev, done) {
		return nil, ErrStopped
	}
	return done, nil
}

func (t *Tracker) post(ev Event, done chan struct{}) bool {
	select {
	case <-t.quit:
		return false
	default:
	}
	select {
	case t.queue <- envelope{event: ev, done: done}:
		return true
	case <-t.quit:
		return false
	}
}

func (t *Tracker) submitAndWait(ctx context.Context, ev Event) error {
	done, err := t.Submit(ev)
	if err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-t.stopped:
		select {
		case <-done:
			return nil
		default:
			return ErrStopped
		}
	}
}

// UpdateOperatorNumeric records the MCC+MNC of the registered network. An
// empty numeric means no operator is available.
func (t *Tracker) UpdateOperatorNumeric(ctx context.Context, numeric string) error {
	return t.submitAndWait(ctx, OperatorNumericEvent{Numeric: numeric})
}

func (t *Tracker) NotifyServiceState(ctx context.Context, s telephony.ServiceState) error {
	return t.submitAndWait(ctx, ServiceStateEvent{State: s})
}

// NotifyCellInfo delivers an unsolicited cell info report.
func (t *Tracker) NotifyCellInfo(ctx context.Context, cells []telephony.CellInfo) error {
	return t.submitAndWait(ctx, CellInfoEvent{Cells: cells})
}

// Sync returns once every event submitted before it has been applied.
func (t *Tracker) Sync(ctx context.Context) error {
	return t.submitAndWait(ctx, barrier{})
}

func (t *Tracker) Snapshot() Snapshot {
	return *t.snapshot.Load()
}

func (t *Tracker) CurrentCountry() string {
	return t.snapshot.Load().CurrentCountry
}

func (t *Tracker) IsTracking() bool {
	return t.snapshot.Load().Tracking
}

func (t *Tracker) OperatorNumeric() string {
	return t.snapshot.Load().OperatorNumeric
}

func (t *Tracker) ServiceState() (telephony.ServiceState, bool) {
	s := t.snapshot.Load()
	return s.ServiceState, s.ServiceStateKnown
}

func (t *Tracker) PhoneID() int {
	return t.phoneID
}

// LocalLog returns the most recent tracker decisions, oldest first.
func (t *Tracker) LocalLog() []LogEntry {
	return t.localLog.Entries()
}

func (t *Tracker) publish() {
	t.snapshot.Store(&Snapshot{
		PhoneID:           t.phoneID,
		CurrentCountry:    t.st.country,
		CountrySource:     t.st.countrySource,
		Tracking:          t.st.tracking,
		OperatorNumeric:   t.st.numeric,
		ServiceState:      t.st.serviceState,
		ServiceStateKnown: t.st.serviceStateKnown,
		CellCount:         len(t.st.cells),
		FailCount:         t.st.failCount,
		UpdatedAt:         time.Now(),
	})
}

func (t *Tracker) notifyListeners() {
	if len(t.pending) == 0 {
		return
	}
	changes := t.pending
	t.pending = nil
	for _, change := range changes {
		for _, l := range t.listeners {
			l(change)
		}
	}
}

// updateLocale re-resolves the country and applies it when it changed.
func (t *Tracker) updateLocale() {
	var mcc, iso string
	source := SourceNone

	if t.st.numeric != "" {
		if len(t.st.numeric) >= 3 {
			mcc = t.st.numeric[:3]
		}
		iso = t.resolver.CountryCodeForNumeric(t.st.numeric)
		if iso == "" {
			t.logger.Warnf("updateLocale: can't get country from operator numeric %q", t.st.numeric)
		} else {
			source = SourceOperatorNumeric
		}
	}

	if iso == "" {
		mcc = mostFrequentMCC(t.st.cells)
		iso = t.resolver.CountryCodeForMCCString(mcc)
		if iso != "" {
			source = SourceCellInfo
		}
	}

	t.logger.Debugf("updateLocale: mcc = %s, country = %s", mcc, iso)
	t.st.countrySource = source
	if t.st.countrySet && iso == t.st.country {
		return
	}

	previous := t.st.country
	t.st.country = iso
	t.st.countrySet = true
	t.record("Change the current country to %q (mcc=%s, source=%s)", iso, mcc, source)

	if t.setter != nil {
		if err := t.setter.SetCountryCode(iso); err != nil {
			t.logger.Errorf("Failed to apply country code %q: %v", iso, err)
		}
	}

	t.pending = append(t.pending, CountryChange{
		PhoneID:   t.phoneID,
		Previous:  previous,
		Current:   iso,
		MCC:       mcc,
		Source:    source,
		ChangedAt: time.Now(),
	})
}

func (t *Tracker) shouldTrack() bool {
	if t.st.numeric != "" || !t.st.serviceStateKnown {
		return false
	}
	return t.st.serviceState == telephony.OutOfService || t.st.serviceState == telephony.EmergencyOnly
}

// updateTrackingStatus starts or stops cell info polling. When refresh is
// set and tracking is already active, a new scan is requested immediately.
func (t *Tracker) updateTrackingStatus(refresh bool) {
	if !t.shouldTrack() {
		t.stopTracking()
		return
	}
	if !t.st.tracking {
		t.startTracking()
		return
	}
	if refresh {
		t.cancelPoll()
		t.requestCellInfo()
	}
}

func (t *Tracker) startTracking() {
	t.st.tracking = true
	t.st.generation++
	t.st.failCount = 0
	t.record("Start tracking, service state %s, operator numeric %q", t.st.serviceState, t.st.numeric)
	t.requestCellInfo()
}

func (t *Tracker) stopTracking() {
	if !t.st.tracking {
		return
	}
	t.st.tracking = false
	t.st.generation++
	t.st.failCount = 0
	t.st.cells = nil
	t.cancelPoll()
	t.record("Stop tracking")
}

func (t *Tracker) requestCellInfo() {
	generation := t.st.generation
	ctx, cancel := context.WithTimeout(t.ctx, t.requestTimeout)
	t.helpers.Add(1)
	go func() {
		defer t.helpers.Done()
		defer cancel()
		cells, err := t.phone.AllCellInfo(ctx)
		t.post(cellInfoResponse{generation: generation, cells: cells, err: err}, nil)
	}()
}

func (t *Tracker) schedulePoll(delay time.Duration) {
	t.cancelPoll()
	generation := t.st.generation
	t.st.pollTimer = time.AfterFunc(delay, func() {
		t.post(pollRequest{generation: generation}, nil)
	})
}

func (t *Tracker) cancelPoll() {
	if t.st.pollTimer != nil {
		t.st.pollTimer.Stop()
		t.st.pollTimer = nil
	}
}

func (t *Tracker) record(format string, args ...any) {
	msg := t.localLog.Logf(format, args...)
	t.logger.Info(msg)
}
