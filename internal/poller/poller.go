// Package poller periodically fetches a status snapshot from the cooler and
// hands it to callbacks. A failed fetch is reported and the interval keeps
// running: one bad read is transient, not fatal.
package poller

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/internal/datadog"
	"github.com/coldloop/cooler-controller/internal/device"
	"github.com/coldloop/cooler-controller/internal/model"
)

type Poller struct {
	access   device.Access
	interval time.Duration
	onStatus func(model.Status)
	onError  func(error)

	stop chan struct{}
	done chan struct{}
}

// New builds a poller. Callbacks are invoked on the poller goroutine;
// callers that need serialized delivery post them onto their dispatch loop.
func New(access device.Access, interval time.Duration, onStatus func(model.Status), onError func(error)) *Poller {
	return &Poller{
		access:   access,
		interval: interval,
		onStatus: onStatus,
		onError:  onError,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start fires one fetch immediately, then one per interval, until Stop.
func (p *Poller) Start() {
	go func() {
		defer close(p.done)

		log.Info().Dur("interval", p.interval).Msg("Starting status poller")

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.tick()
		for {
			select {
			case <-p.stop:
				return
			case <-ticker.C:
				p.tick()
			}
		}
	}()
}

func (p *Poller) tick() {
	status, err := p.access.FetchStatus()
	if err != nil {
		log.Warn().Err(err).Msg("Status fetch failed, will retry on next tick")
		datadog.Incr("poller.fetch_errors")
		p.onError(err)
		return
	}

	datadog.Gauge("status.liquid_temperature", status.LiquidTemperature)
	if status.FanSpeed != nil {
		datadog.Gauge("status.fan_speed", float64(*status.FanSpeed))
	}
	if status.PumpSpeed != nil {
		datadog.Gauge("status.pump_speed", float64(*status.PumpSpeed))
	}

	p.onStatus(status)
}

// Stop cancels the interval and waits for the poll goroutine to exit. No
// further callbacks fire after Stop returns.
func (p *Poller) Stop() {
	close(p.stop)
	<-p.done
	log.Info().Msg("Status poller stopped")
}
