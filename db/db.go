package db

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/coldloop/cooler-controller/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS speed_profiles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	channel TEXT NOT NULL,
	name TEXT NOT NULL,
	single_step BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE(channel, name)
);
CREATE TABLE IF NOT EXISTS speed_steps (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	profile_id INTEGER NOT NULL REFERENCES speed_profiles(id) ON DELETE CASCADE,
	temperature INTEGER NOT NULL,
	duty INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS current_speed_profiles (
	channel TEXT PRIMARY KEY,
	profile_id INTEGER NOT NULL REFERENCES speed_profiles(id)
);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Open opens the profile database, creating the schema and seeding the
// default profiles on first run.
func Open(dbPath string) (*sql.DB, error) {
	dbConn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a single pooled connection also keeps the
	// foreign-keys pragma and :memory: databases stable across queries.
	dbConn.SetMaxOpenConns(1)

	if _, err := dbConn.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := dbConn.Exec(schema); err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	if err := seedDefaultProfiles(dbConn); err != nil {
		dbConn.Close()
		return nil, err
	}

	return dbConn, nil
}

// defaultProfiles ship with the controller so a fresh install has something
// to apply. Duties stay above the hardware minimums (25% fan, 50% pump).
var defaultProfiles = []model.SpeedProfile{
	{Channel: model.ChannelFan, Name: "Silent", Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 25}, {Temperature: 35, Duty: 25}, {Temperature: 45, Duty: 35},
		{Temperature: 55, Duty: 75}, {Temperature: 60, Duty: 100},
	}},
	{Channel: model.ChannelFan, Name: "Performance", Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 50}, {Temperature: 35, Duty: 50}, {Temperature: 45, Duty: 60},
		{Temperature: 55, Duty: 100}, {Temperature: 60, Duty: 100},
	}},
	{Channel: model.ChannelFan, Name: "Fixed", SingleStep: true, Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 25},
	}},
	{Channel: model.ChannelPump, Name: "Silent", Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 60}, {Temperature: 35, Duty: 60}, {Temperature: 45, Duty: 70},
		{Temperature: 55, Duty: 90}, {Temperature: 60, Duty: 100},
	}},
	{Channel: model.ChannelPump, Name: "Performance", Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 70}, {Temperature: 35, Duty: 70}, {Temperature: 45, Duty: 80},
		{Temperature: 55, Duty: 100}, {Temperature: 60, Duty: 100},
	}},
	{Channel: model.ChannelPump, Name: "Fixed", SingleStep: true, Steps: []model.SpeedStep{
		{Temperature: 20, Duty: 60},
	}},
}

func seedDefaultProfiles(dbConn *sql.DB) error {
	var count int
	if err := dbConn.QueryRow(`SELECT COUNT(*) FROM speed_profiles`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count profiles: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, p := range defaultProfiles {
		if _, err := CreateProfile(dbConn, p); err != nil {
			return fmt.Errorf("failed to seed profile %s/%s: %w", p.Channel, p.Name, err)
		}
	}

	log.Info().Int("profiles", len(defaultProfiles)).Msg("Seeded default speed profiles")
	return nil
}
