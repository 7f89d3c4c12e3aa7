// Package applier coordinates "apply profile X to channel C" requests.
// Requests for the same channel are serialized with a latest-wins pending
// slot: while one apply is in flight, a newer request for that channel
// replaces any queued one, since only the latest desired profile matters.
package applier

import (
	"database/sql"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/db"
	"github.com/coldloop/cooler-controller/internal/datadog"
	"github.com/coldloop/cooler-controller/internal/device"
	"github.com/coldloop/cooler-controller/internal/model"
)

type Applier struct {
	access   device.Access
	dbConn   *sql.DB
	onResult func(model.ApplyResult)

	mu      sync.Mutex
	pending map[model.Channel]*model.SpeedProfile

	wake chan struct{}
	stop chan struct{}
	done chan struct{}
}

// New builds an applier. onResult is invoked once per executed apply, on the
// applier goroutine; callers post it onto their dispatch loop as needed.
func New(access device.Access, dbConn *sql.DB, onResult func(model.ApplyResult)) *Applier {
	return &Applier{
		access:   access,
		dbConn:   dbConn,
		onResult: onResult,
		pending:  make(map[model.Channel]*model.SpeedProfile),
		wake:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

func (a *Applier) Start() {
	go a.run()
}

// Apply queues a profile for a channel. A request queued behind an in-flight
// apply on the same channel is replaced, not stacked. Requests for distinct
// channels never wait on each other's pending slot.
func (a *Applier) Apply(channel model.Channel, profile *model.SpeedProfile) {
	a.mu.Lock()
	if _, replacing := a.pending[channel]; replacing {
		log.Debug().Str("channel", string(channel)).Str("profile", profile.Name).
			Msg("Replacing queued apply request with newer profile")
	}
	a.pending[channel] = profile
	a.mu.Unlock()

	select {
	case a.wake <- struct{}{}:
	default:
	}
}

// ApplyNow performs one apply synchronously, bypassing the queue. Used at
// startup to restore persisted profiles before polling begins.
func (a *Applier) ApplyNow(channel model.Channel, profile *model.SpeedProfile) {
	a.apply(channel, profile)
}

// Close drains queued and in-flight applies, then stops the worker. Safe to
// call while applies are outstanding; they complete or fail first.
func (a *Applier) Close() {
	close(a.stop)
	<-a.done
}

func (a *Applier) run() {
	defer close(a.done)
	for {
		select {
		case <-a.stop:
			a.drain()
			return
		case <-a.wake:
			a.drain()
		}
	}
}

func (a *Applier) drain() {
	for {
		channel, profile, ok := a.take()
		if !ok {
			return
		}
		a.apply(channel, profile)
	}
}

// take pops one pending request in fixed channel order.
func (a *Applier) take() (model.Channel, *model.SpeedProfile, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, channel := range model.Channels {
		if profile, ok := a.pending[channel]; ok {
			delete(a.pending, channel)
			return channel, profile, true
		}
	}
	return "", nil, false
}

func (a *Applier) apply(channel model.Channel, profile *model.SpeedProfile) {
	log.Info().
		Str("channel", string(channel)).
		Str("profile", profile.Name).
		Msg("Applying speed profile")

	if err := a.access.SendProfile(channel, profile.Steps); err != nil {
		log.Error().Err(err).
			Str("channel", string(channel)).
			Str("profile", profile.Name).
			Msg("Failed to apply speed profile")
		datadog.Incr("applier.errors", "channel:"+string(channel))
		a.onResult(model.ApplyResult{Channel: channel, ProfileName: profile.Name, Err: err})
		return
	}

	// The device accepted the curve; only now does the store move.
	if err := db.SetCurrentProfile(a.dbConn, channel, profile.ID); err != nil {
		log.Error().Err(err).
			Str("channel", string(channel)).
			Msg("Profile applied but current-profile record could not be saved")
		a.onResult(model.ApplyResult{Channel: channel, ProfileName: profile.Name, Err: err})
		return
	}

	datadog.Incr("applier.applied", "channel:"+string(channel))
	a.onResult(model.ApplyResult{Channel: channel, ProfileName: profile.Name})
}
