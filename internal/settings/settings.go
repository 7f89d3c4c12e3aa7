// Package settings exposes typed accessors over the settings table with
// compiled-in defaults, so callers never see a missing key.
package settings

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/coldloop/cooler-controller/db"
)

const (
	KeyRefreshIntervalSeconds = "refresh_interval_seconds"
	KeyLoadLastProfile        = "load_last_profile"
	KeyCheckNewVersion        = "check_new_version"
)

var defaults = map[string]string{
	KeyRefreshIntervalSeconds: "3",
	KeyLoadLastProfile:        "true",
	KeyCheckNewVersion:        "true",
}

type Store struct {
	dbConn *sql.DB
}

func NewStore(dbConn *sql.DB) *Store {
	return &Store{dbConn: dbConn}
}

func (s *Store) GetInt(key string) (int, error) {
	raw, err := s.get(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("setting %s is not an integer: %w", key, err)
	}
	return value, nil
}

func (s *Store) GetBool(key string) (bool, error) {
	raw, err := s.get(key)
	if err != nil {
		return false, err
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("setting %s is not a boolean: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetInt(key string, value int) error {
	return db.SetSetting(s.dbConn, key, strconv.Itoa(value))
}

func (s *Store) SetBool(key string, value bool) error {
	return db.SetSetting(s.dbConn, key, strconv.FormatBool(value))
}

func (s *Store) get(key string) (string, error) {
	raw, ok, err := db.GetSetting(s.dbConn, key)
	if err != nil {
		return "", err
	}
	if ok {
		return raw, nil
	}
	fallback, ok := defaults[key]
	if !ok {
		return "", fmt.Errorf("unknown setting: %s", key)
	}
	return fallback, nil
}
