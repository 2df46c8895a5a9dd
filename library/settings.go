package library

import (
	"sync"

	"librarydb/schema"
)

// SettingsStore is a process-wide view of the system_settings table: loaded
// once, cached in memory, written through on updates. Reads never touch the
// database after the initial load unless Reload is called.
type SettingsStore struct {
	d *Database

	mu     sync.RWMutex
	values map[string]SystemSetting
}

// Settings loads the system_settings table and returns the cached store.
func (d *Database) Settings() (*SettingsStore, error) {
	s := &SettingsStore{d: d}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the whole table, replacing the cache.
func (s *SettingsStore) Reload() error {
	rows, err := s.d.db.Query(`
        SELECT setting_id, setting_name, COALESCE(setting_value, ''), COALESCE(description, '')
        FROM system_settings`)
	if err != nil {
		return err
	}
	defer rows.Close()

	values := make(map[string]SystemSetting)
	for rows.Next() {
		var st SystemSetting
		if err := rows.Scan(&st.ID, &st.Name, &st.Value, &st.Description); err != nil {
			return err
		}
		values[st.Name] = st
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.values = values
	s.mu.Unlock()
	return nil
}

// Get returns a setting's value from the cache.
func (s *SettingsStore) Get(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.values[name]
	return st.Value, ok
}

// All returns a copy of every cached setting.
func (s *SettingsStore) All() []SystemSetting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SystemSetting, 0, len(s.values))
	for _, st := range s.values {
		out = append(out, st)
	}
	return out
}

// Set upserts a setting by name and refreshes the cached row. setting_name
// is unique, so the insert turns into an update for an existing name.
func (s *SettingsStore) Set(name, value, description string) error {
	var query string
	if s.d.dialect == schema.MySQL {
		query = `
            INSERT INTO system_settings (setting_name, setting_value, description)
            VALUES (?, ?, ?)
            ON DUPLICATE KEY UPDATE setting_value = VALUES(setting_value), description = VALUES(description)`
	} else {
		query = `
            INSERT INTO system_settings (setting_name, setting_value, description)
            VALUES (?, ?, ?)
            ON CONFLICT (setting_name) DO UPDATE SET setting_value = excluded.setting_value, description = excluded.description`
	}
	if _, err := s.d.db.Exec(s.d.q(query), name, value, description); err != nil {
		return err
	}

	var st SystemSetting
	err := s.d.db.QueryRow(s.d.q(`
        SELECT setting_id, setting_name, COALESCE(setting_value, ''), COALESCE(description, '')
        FROM system_settings WHERE setting_name = ?`), name).
		Scan(&st.ID, &st.Name, &st.Value, &st.Description)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.values[st.Name] = st
	s.mu.Unlock()
	return nil
}
