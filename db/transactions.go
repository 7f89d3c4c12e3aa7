package db

import (
	"database/sql"
	"fmt"

	"github.com/coldloop/cooler-controller/internal/model"
)

// CreateProfile inserts a profile and its steps in one transaction and
// returns the new profile id.
func CreateProfile(dbConn *sql.DB, p model.SpeedProfile) (int, error) {
	tx, err := dbConn.Begin()
	if err != nil {
		return 0, fmt.Errorf("start transaction: %w", err)
	}

	res, err := tx.Exec(`INSERT INTO speed_profiles (channel, name, single_step) VALUES (?, ?, ?)`,
		string(p.Channel), p.Name, p.SingleStep)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("insert profile: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("profile id: %w", err)
	}

	for _, s := range p.Steps {
		_, err = tx.Exec(`INSERT INTO speed_steps (profile_id, temperature, duty) VALUES (?, ?, ?)`,
			id, s.Temperature, s.Duty)
		if err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("insert step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit profile: %w", err)
	}
	return int(id), nil
}

// DeleteProfile removes a profile, its steps and any current-profile record
// pointing at it.
func DeleteProfile(dbConn *sql.DB, id int) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM current_speed_profiles WHERE profile_id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete current profile record: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM speed_steps WHERE profile_id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete steps: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM speed_profiles WHERE id = ?`, id); err != nil {
		tx.Rollback()
		return fmt.Errorf("delete profile: %w", err)
	}
	return tx.Commit()
}

// UpdateSingleStepDuty rewrites the duty of a fixed profile's only step.
func UpdateSingleStepDuty(dbConn *sql.DB, profileID int, duty int) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}

	var singleStep bool
	if err := tx.QueryRow(`SELECT single_step FROM speed_profiles WHERE id = ?`, profileID).Scan(&singleStep); err != nil {
		tx.Rollback()
		return fmt.Errorf("look up profile %d: %w", profileID, err)
	}
	if !singleStep {
		tx.Rollback()
		return fmt.Errorf("profile %d is not a fixed profile", profileID)
	}

	if _, err := tx.Exec(`UPDATE speed_steps SET duty = ? WHERE profile_id = ?`, duty, profileID); err != nil {
		tx.Rollback()
		return fmt.Errorf("update step duty: %w", err)
	}
	return tx.Commit()
}

// SetCurrentProfile records a profile as currently applied to a channel.
// Upsert: created on first apply, overwritten on later ones.
func SetCurrentProfile(dbConn *sql.DB, channel model.Channel, profileID int) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO current_speed_profiles (channel, profile_id) VALUES (?, ?)
		ON CONFLICT(channel) DO UPDATE SET profile_id = excluded.profile_id`, string(channel), profileID)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert current profile: %w", err)
	}
	return tx.Commit()
}

// ClearCurrentProfile forgets which profile is applied to a channel.
func ClearCurrentProfile(dbConn *sql.DB, channel model.Channel) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM current_speed_profiles WHERE channel = ?`, string(channel)); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear current profile: %w", err)
	}
	return tx.Commit()
}

// SetSetting upserts a raw setting value.
func SetSetting(dbConn *sql.DB, key, value string) error {
	tx, err := dbConn.Begin()
	if err != nil {
		return fmt.Errorf("start transaction: %w", err)
	}
	_, err = tx.Exec(`INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert setting %s: %w", key, err)
	}
	return tx.Commit()
}
