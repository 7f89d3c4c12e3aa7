// Package resolver maps a measured liquid temperature onto the duty a speed
// profile commands for it.
package resolver

import "github.com/coldloop/cooler-controller/internal/model"

// ResolveDuty picks, among the profile's steps with temperature at or below
// the measured temperature, the one with the greatest temperature, and
// returns its duty. ok is false when the temperature sits below the lowest
// step, in which case the caller keeps the device-reported value.
//
// Steps are assumed sorted ascending by temperature. Duplicate temperatures
// are not expected; if present, the later step wins.
//
// Single-step profiles are a fixed duty at any temperature.
func ResolveDuty(profile *model.SpeedProfile, temperature float64) (duty int, ok bool) {
	if profile == nil || len(profile.Steps) == 0 {
		return 0, false
	}

	if profile.SingleStep {
		return profile.Steps[0].Duty, true
	}

	for _, step := range profile.Steps {
		if float64(step.Temperature) <= temperature {
			duty = step.Duty
			ok = true
		}
	}
	return duty, ok
}
