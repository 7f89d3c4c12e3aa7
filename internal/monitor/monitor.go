// Package monitor composes the controller core: it owns the poller, the
// applier and the dispatch loop, restores persisted profiles at startup and
// publishes telemetry and apply outcomes to a Listener.
package monitor

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/db"
	"github.com/coldloop/cooler-controller/internal/applier"
	"github.com/coldloop/cooler-controller/internal/device"
	"github.com/coldloop/cooler-controller/internal/dispatch"
	"github.com/coldloop/cooler-controller/internal/model"
	"github.com/coldloop/cooler-controller/internal/poller"
	"github.com/coldloop/cooler-controller/internal/resolver"
	"github.com/coldloop/cooler-controller/internal/settings"
	"github.com/coldloop/cooler-controller/internal/version"
)

// Listener receives everything the core reports. All callbacks arrive on the
// dispatch loop, one at a time, in order.
type Listener interface {
	OnStatus(model.Status)
	OnApplyResult(model.ApplyResult)
	OnVersionAvailable(version string)

	// OnPollError surfaces a transient fetch failure. Polling continues.
	OnPollError(error)
}

type Monitor struct {
	dbConn   *sql.DB
	settings *settings.Store
	access   device.Access
	listener Listener
	checker  *version.Checker // nil disables the update check

	loop    *dispatch.Loop
	poller  *poller.Poller
	applier *applier.Applier

	// Touched only on the dispatch loop.
	trackFanDuty bool
	fanProfile   *model.SpeedProfile
}

func New(dbConn *sql.DB, access device.Access, listener Listener, checker *version.Checker) *Monitor {
	return &Monitor{
		dbConn:   dbConn,
		settings: settings.NewStore(dbConn),
		access:   access,
		listener: listener,
		checker:  checker,
		loop:     dispatch.NewLoop(),
	}
}

// Start restores persisted profiles (when configured to), then begins
// polling. Restored profiles reach the device before the first status is
// published.
func (m *Monitor) Start() error {
	m.loop.Start()

	m.applier = applier.New(m.access, m.dbConn, func(r model.ApplyResult) {
		m.loop.Post(func() { m.handleApplyResult(r) })
	})
	m.applier.Start()

	loadLast, err := m.settings.GetBool(settings.KeyLoadLastProfile)
	if err != nil {
		return fmt.Errorf("read load_last_profile setting: %w", err)
	}
	if loadLast {
		m.loop.Post(func() { m.trackFanDuty = true })
		if err := m.restoreProfiles(); err != nil {
			return err
		}
	}

	intervalSeconds, err := m.settings.GetInt(settings.KeyRefreshIntervalSeconds)
	if err != nil {
		return fmt.Errorf("read refresh interval setting: %w", err)
	}
	if intervalSeconds < 1 {
		intervalSeconds = 1
	}

	m.poller = poller.New(m.access, time.Duration(intervalSeconds)*time.Second,
		func(status model.Status) {
			m.loop.Post(func() { m.handleStatus(status) })
		},
		func(err error) {
			m.loop.Post(func() { m.listener.OnPollError(err) })
		})
	m.poller.Start()

	m.checkNewVersion()
	return nil
}

// restoreProfiles re-applies whatever was applied before the last shutdown.
// Applies run synchronously so the device is configured before polling.
func (m *Monitor) restoreProfiles() error {
	for _, channel := range model.Channels {
		current, err := db.GetCurrentProfile(m.dbConn, channel)
		if err != nil {
			return fmt.Errorf("load current profile for %s: %w", channel, err)
		}
		if current == nil {
			continue
		}
		log.Info().
			Str("channel", string(channel)).
			Str("profile", current.Name).
			Msg("Restoring last applied profile")
		m.applier.ApplyNow(channel, current)
	}
	return nil
}

// ApplyProfile queues a profile for a channel. Callable from any goroutine.
func (m *Monitor) ApplyProfile(channel model.Channel, profileID int) error {
	profile, err := db.GetProfileByID(m.dbConn, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no profile with id %d", profileID)
	}
	if profile.Channel != channel {
		return fmt.Errorf("profile %s belongs to channel %s, not %s", profile.Name, profile.Channel, channel)
	}
	m.applier.Apply(channel, profile)
	return nil
}

// SetFixedDuty rewrites the duty of a single-step profile. Editing the fan's
// fixed profile stops duty tracking until a profile is applied again, since
// the stored curve no longer matches what the device runs.
func (m *Monitor) SetFixedDuty(profileID int, duty int) error {
	profile, err := db.GetProfileByID(m.dbConn, profileID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no profile with id %d", profileID)
	}
	if err := db.UpdateSingleStepDuty(m.dbConn, profileID, duty); err != nil {
		return err
	}
	if profile.Channel == model.ChannelFan {
		m.loop.Post(func() { m.trackFanDuty = false })
	}
	return nil
}

// Profiles lists the stored profiles for a channel, for presentation.
func (m *Monitor) Profiles(channel model.Channel) ([]model.SpeedProfile, error) {
	return db.GetProfilesByChannel(m.dbConn, channel)
}

// Stop tears the core down in order: no more ticks, in-flight applies finish,
// queued callbacks drain.
func (m *Monitor) Stop() {
	if m.poller != nil {
		m.poller.Stop()
	}
	if m.applier != nil {
		m.applier.Close()
	}
	m.loop.Stop()
}

func (m *Monitor) handleStatus(status model.Status) {
	if m.trackFanDuty && m.fanProfile != nil {
		if duty, ok := resolver.ResolveDuty(m.fanProfile, status.LiquidTemperature); ok {
			// Report the commanded duty instead of the raw reading while a
			// profile is being tracked.
			status.FanSpeed = &duty
		}
	}
	m.listener.OnStatus(status)
}

func (m *Monitor) handleApplyResult(r model.ApplyResult) {
	if r.Err == nil && r.Channel == model.ChannelFan {
		fanProfile, err := db.GetCurrentProfile(m.dbConn, model.ChannelFan)
		if err != nil {
			log.Error().Err(err).Msg("Could not reload current fan profile after apply")
		} else {
			m.fanProfile = fanProfile
			m.trackFanDuty = true
		}
	}
	m.listener.OnApplyResult(r)
}

func (m *Monitor) checkNewVersion() {
	if m.checker == nil {
		return
	}
	check, err := m.settings.GetBool(settings.KeyCheckNewVersion)
	if err != nil || !check {
		return
	}

	go func() {
		latest, err := m.checker.Latest()
		if err != nil {
			log.Warn().Err(err).Msg("New version check failed")
			return
		}
		if version.IsNewer(version.Current, latest) {
			log.Info().Str("latest", latest).Msg("Newer release available")
			m.loop.Post(func() { m.listener.OnVersionAvailable(latest) })
		}
	}()
}
