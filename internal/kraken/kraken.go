// Package kraken drives an NZXT Kraken X2 cooler over USB.
package kraken

import (
	"fmt"
	"sync"

	"github.com/google/gousb"
	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/internal/model"
)

// Device implements device.Access for the Kraken X2 family. All USB I/O is
// serialized by one mutex: the hardware does not tolerate interleaved reads
// and writes on its single interface.
type Device struct {
	ctx      *gousb.Context
	dev      *gousb.Device
	intf     *gousb.Interface
	intfDone func()

	inEndpoint  *gousb.InEndpoint
	outEndpoint *gousb.OutEndpoint

	mutex sync.Mutex
}

// Open finds the cooler by VID/PID and claims its default interface.
func Open() (*Device, error) {
	d := &Device{}
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Device) open() (err error) {
	d.ctx = gousb.NewContext()

	d.dev, err = d.ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil || d.dev == nil {
		d.Close()
		return fmt.Errorf("could not open cooler device: %v", err)
	}

	if err = d.dev.SetAutoDetach(true); err != nil {
		d.Close()
		return fmt.Errorf("unable to set autodetach on device: %v", err)
	}

	d.intf, d.intfDone, err = d.dev.DefaultInterface()
	if err != nil {
		d.Close()
		return fmt.Errorf("%s.DefaultInterface(): %v", d.dev, err)
	}

	d.inEndpoint, err = d.intf.InEndpoint(1)
	if err != nil {
		d.Close()
		return fmt.Errorf("%s.InEndpoint(1): %v", d.intf, err)
	}

	d.outEndpoint, err = d.intf.OutEndpoint(1)
	if err != nil {
		d.Close()
		return fmt.Errorf("%s.OutEndpoint(1): %v", d.intf, err)
	}

	log.Info().
		Str("device", d.dev.String()).
		Msg("Cooler device opened")

	return nil
}

// FetchStatus reads one interrupt status report and decodes it.
func (d *Device) FetchStatus() (model.Status, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	size := statusReportLength
	if d.inEndpoint.Desc.MaxPacketSize > size {
		size = d.inEndpoint.Desc.MaxPacketSize
	}
	buf := make([]byte, size)

	readBytes, err := d.inEndpoint.Read(buf)
	if err != nil {
		return model.Status{}, fmt.Errorf("status read failed: %w", err)
	}
	if readBytes < statusReportLength {
		return model.Status{}, fmt.Errorf("status read returned %d bytes", readBytes)
	}

	return parseStatus(buf[:readBytes])
}

// SendProfile writes a speed curve for one channel, one message per step.
func (d *Device) SendProfile(channel model.Channel, steps []model.SpeedStep) error {
	messages, err := encodeSpeedMessages(channel, steps)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()

	for _, msg := range messages {
		written, err := d.outEndpoint.Write(msg)
		if err != nil {
			return fmt.Errorf("speed message write failed: %w", err)
		}
		if written != len(msg) {
			return fmt.Errorf("speed message truncated: wrote %d of %d bytes", written, len(msg))
		}
	}

	log.Debug().
		Str("channel", string(channel)).
		Int("steps", len(steps)).
		Msg("Speed profile sent to device")

	return nil
}

// Close releases the interface and USB context. Safe to call on a partially
// opened device.
func (d *Device) Close() {
	if d.intfDone != nil {
		d.intfDone()
		d.intfDone = nil
	}
	if d.dev != nil {
		d.dev.Close()
		d.dev = nil
	}
	if d.ctx != nil {
		d.ctx.Close()
		d.ctx = nil
	}
}
