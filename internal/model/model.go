package model

// Channel identifies a controllable output on the cooler.
type Channel string

const (
	ChannelFan  Channel = "fan"
	ChannelPump Channel = "pump"
)

// Channels lists every controllable channel. The set is fixed by the hardware.
var Channels = []Channel{ChannelFan, ChannelPump}

func (c Channel) Valid() bool {
	return c == ChannelFan || c == ChannelPump
}

// SpeedStep is one point of a temperature/duty curve.
type SpeedStep struct {
	ID          int
	Temperature int // °C
	Duty        int // percent, 0-100
}

// SpeedProfile is a named duty curve for one channel. Steps are kept sorted
// by temperature ascending; resolution relies on that ordering. SingleStep
// profiles carry exactly one step and mean a fixed duty at any temperature.
type SpeedProfile struct {
	ID         int
	Channel    Channel
	Name       string
	SingleStep bool
	Steps      []SpeedStep
}

// Status is one snapshot of device telemetry. FanSpeed and PumpSpeed are nil
// when the device did not report them on this read.
type Status struct {
	LiquidTemperature float64
	FanSpeed          *int
	PumpSpeed         *int
	FirmwareVersion   string
}

// ApplyResult reports the outcome of applying a profile to a channel.
type ApplyResult struct {
	Channel     Channel
	ProfileName string
	Err         error
}
