package kraken

import (
	"encoding/binary"
	"fmt"

	"github.com/coldloop/cooler-controller/internal/model"
)

// lsusb
// Bus 001 Device 004: ID 1e71:170e NZXT Kraken X (X42, X52, X62 or X72)

const (
	vendorID  = 0x1e71
	productID = 0x170e

	statusReportLength = 64

	// Speed curve message: 0x02 0x4d channel-base+index temperature duty,
	// one message per curve step.
	cmdSetSpeedProfile byte = 0x4d

	fanChannelBase  byte = 0x80
	pumpChannelBase byte = 0xc0

	minTemp = 20
	maxTemp = 60

	maxDuty     = 100
	minFanDuty  = 25
	minPumpDuty = 50

	// The firmware reads curves of exactly this many points.
	curveSteps = 6
)

func channelBase(channel model.Channel) (base byte, minDuty int, err error) {
	switch channel {
	case model.ChannelFan:
		return fanChannelBase, minFanDuty, nil
	case model.ChannelPump:
		return pumpChannelBase, minPumpDuty, nil
	default:
		return 0, 0, fmt.Errorf("unknown channel: %s", channel)
	}
}

// encodeSpeedMessages turns a step table into the per-step wire messages the
// cooler expects. Temperatures and duties are clamped to the ranges the
// firmware accepts.
func encodeSpeedMessages(channel model.Channel, steps []model.SpeedStep) ([][]byte, error) {
	base, minDuty, err := channelBase(channel)
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("empty step table for channel %s", channel)
	}
	if len(steps) > curveSteps {
		return nil, fmt.Errorf("too many steps for channel %s: %d (max %d)", channel, len(steps), curveSteps)
	}

	messages := make([][]byte, 0, len(steps))
	for i, step := range steps {
		messages = append(messages, []byte{
			0x02,
			cmdSetSpeedProfile,
			base + byte(i),
			byte(clamp(step.Temperature, minTemp, maxTemp)),
			byte(clamp(step.Duty, minDuty, maxDuty)),
		})
	}
	return messages, nil
}

// parseStatus decodes one interrupt status report: liquid temperature as
// integer and tenths bytes, big-endian fan and pump RPM, firmware version
// triple.
func parseStatus(buf []byte) (model.Status, error) {
	if len(buf) < statusReportLength {
		return model.Status{}, fmt.Errorf("short status report: %d bytes", len(buf))
	}

	fan := int(binary.BigEndian.Uint16(buf[3:5]))
	pump := int(binary.BigEndian.Uint16(buf[5:7]))

	return model.Status{
		LiquidTemperature: float64(buf[1]) + float64(buf[2])/10,
		FanSpeed:          &fan,
		PumpSpeed:         &pump,
		FirmwareVersion: fmt.Sprintf("%d.%d.%d",
			buf[0x0b], int(buf[0x0c])<<8|int(buf[0x0d]), buf[0x0e]),
	}, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
