package db

import (
	"fmt"

	"github.com/coldloop/cooler-controller/internal/model"
)

func ListProfilesCLI(dbPath string) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	for _, channel := range model.Channels {
		profiles, err := GetProfilesByChannel(dbConn, channel)
		if err != nil {
			return err
		}
		for _, p := range profiles {
			fmt.Printf("[%d] %s/%s single_step=%v steps=%v\n", p.ID, p.Channel, p.Name, p.SingleStep, stepPairs(p.Steps))
		}
	}
	return nil
}

func ShowCurrentCLI(dbPath string, channel model.Channel) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	current, err := GetCurrentProfile(dbConn, channel)
	if err != nil {
		return err
	}
	if current == nil {
		fmt.Printf("No profile currently applied to %s\n", channel)
		return nil
	}
	fmt.Printf("Current %s profile: [%d] %s steps=%v\n", channel, current.ID, current.Name, stepPairs(current.Steps))
	return nil
}

func ClearCurrentCLI(dbPath string, channel model.Channel) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	return ClearCurrentProfile(dbConn, channel)
}

func SetSettingCLI(dbPath, key, value string) error {
	dbConn, err := Open(dbPath)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	return SetSetting(dbConn, key, value)
}

func stepPairs(steps []model.SpeedStep) [][2]int {
	pairs := make([][2]int, 0, len(steps))
	for _, s := range steps {
		pairs = append(pairs, [2]int{s.Temperature, s.Duty})
	}
	return pairs
}
