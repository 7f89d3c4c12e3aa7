package db

import (
	"database/sql"
	"fmt"

	"github.com/coldloop/cooler-controller/internal/model"
)

// GetProfilesByChannel retrieves all profiles for a channel, steps included,
// steps ordered by temperature ascending.
func GetProfilesByChannel(dbConn *sql.DB, channel model.Channel) ([]model.SpeedProfile, error) {
	rows, err := dbConn.Query(`SELECT id, channel, name, single_step FROM speed_profiles WHERE channel = ? ORDER BY id`, string(channel))
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles for %s: %w", channel, err)
	}
	defer rows.Close()

	var profiles []model.SpeedProfile
	for rows.Next() {
		var p model.SpeedProfile
		var ch string
		if err := rows.Scan(&p.ID, &ch, &p.Name, &p.SingleStep); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.Channel = model.Channel(ch)
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	for i := range profiles {
		steps, err := getSteps(dbConn, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		profiles[i].Steps = steps
	}
	return profiles, nil
}

// GetProfileByID retrieves a single profile with its steps. Returns nil
// without error when no profile has the given id.
func GetProfileByID(dbConn *sql.DB, id int) (*model.SpeedProfile, error) {
	var p model.SpeedProfile
	var ch string
	err := dbConn.QueryRow(`SELECT id, channel, name, single_step FROM speed_profiles WHERE id = ?`, id).
		Scan(&p.ID, &ch, &p.Name, &p.SingleStep)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %d: %w", id, err)
	}
	p.Channel = model.Channel(ch)

	p.Steps, err = getSteps(dbConn, p.ID)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetCurrentProfile retrieves the profile currently applied to a channel.
// Returns nil without error when none has been applied yet.
func GetCurrentProfile(dbConn *sql.DB, channel model.Channel) (*model.SpeedProfile, error) {
	var profileID int
	err := dbConn.QueryRow(`SELECT profile_id FROM current_speed_profiles WHERE channel = ?`, string(channel)).Scan(&profileID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get current profile for %s: %w", channel, err)
	}
	return GetProfileByID(dbConn, profileID)
}

// GetSetting retrieves a raw setting value. The second return is false when
// the key has never been written.
func GetSetting(dbConn *sql.DB, key string) (string, bool, error) {
	var value string
	err := dbConn.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// Steps come back ordered by temperature then insertion order; the resolver
// relies on that when breaking duplicate-temperature ties.
func getSteps(dbConn *sql.DB, profileID int) ([]model.SpeedStep, error) {
	rows, err := dbConn.Query(`SELECT id, temperature, duty FROM speed_steps WHERE profile_id = ? ORDER BY temperature, id`, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to query steps for profile %d: %w", profileID, err)
	}
	defer rows.Close()

	var steps []model.SpeedStep
	for rows.Next() {
		var s model.SpeedStep
		if err := rows.Scan(&s.ID, &s.Temperature, &s.Duty); err != nil {
			return nil, fmt.Errorf("failed to scan step: %w", err)
		}
		steps = append(steps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate steps: %w", err)
	}
	return steps, nil
}
