// Package device defines the contract to the cooler hardware. Implementations
// must serialize their own I/O: callers assume at most one outstanding device
// operation at a time per connection.
package device

import "github.com/coldloop/cooler-controller/internal/model"

type Access interface {
	// FetchStatus reads one telemetry snapshot from the device.
	FetchStatus() (model.Status, error)

	// SendProfile writes a speed curve for one channel to the device.
	SendProfile(channel model.Channel, steps []model.SpeedStep) error
}
