package store

import (
	"database/sql"
	"errors"
	"strconv"
)

// Setting keys.
const (
	SettingMode       = "mode"
	SettingIntensity  = "intensity"
	SettingBrightness = "brightness"
	SettingContrast   = "contrast"
	SettingMirror     = "mirror"
	SettingEnabled    = "enabled"
)

// Settings is the persisted user configuration.
type Settings struct {
	Mode       string  `json:"mode"`
	Intensity  float64 `json:"intensity"`
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Mirror     bool    `json:"mirror"`
	Enabled    bool    `json:"enabled"`
}

// DefaultSettings returns the settings used before anything is saved.
func DefaultSettings() Settings {
	return Settings{
		Mode:      "none",
		Intensity: 1,
		Contrast:  1,
		Mirror:    true,
		Enabled:   true,
	}
}

// SettingsRepository reads and writes the settings table.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the raw value of key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores the raw value of key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Load returns the stored settings. Missing or unparseable values keep the
// defaults.
func (r *SettingsRepository) Load() (Settings, error) {
	s := DefaultSettings()

	rows, err := r.db.Query(`SELECT key, value FROM settings`)
	if err != nil {
		return s, err
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return s, err
		}
		switch key {
		case SettingMode:
			s.Mode = value
		case SettingIntensity:
			parseFloat(value, &s.Intensity)
		case SettingBrightness:
			parseFloat(value, &s.Brightness)
		case SettingContrast:
			parseFloat(value, &s.Contrast)
		case SettingMirror:
			parseBool(value, &s.Mirror)
		case SettingEnabled:
			parseBool(value, &s.Enabled)
		}
	}
	return s, rows.Err()
}

// Save stores every field of s in one transaction.
func (r *SettingsRepository) Save(s Settings) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := map[string]string{
		SettingMode:       s.Mode,
		SettingIntensity:  strconv.FormatFloat(s.Intensity, 'g', -1, 64),
		SettingBrightness: strconv.FormatFloat(s.Brightness, 'g', -1, 64),
		SettingContrast:   strconv.FormatFloat(s.Contrast, 'g', -1, 64),
		SettingMirror:     strconv.FormatBool(s.Mirror),
		SettingEnabled:    strconv.FormatBool(s.Enabled),
	}
	for key, value := range values {
		if _, err := stmt.Exec(key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func parseFloat(s string, dst *float64) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		*dst = v
	}
}

func parseBool(s string, dst *bool) {
	if v, err := strconv.ParseBool(s); err == nil {
		*dst = v
	}
}
