package library

import "testing"

func TestSettingsUpsertAndCache(t *testing.T) {
	db := tempDB(t)

	settings, err := db.Settings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if _, ok := settings.Get("loan_period_days"); ok {
		t.Fatal("fresh database should have no settings")
	}

	if err := settings.Set("loan_period_days", "14", "Default loan length"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if v, ok := settings.Get("loan_period_days"); !ok || v != "14" {
		t.Fatalf("get after set: %q %v", v, ok)
	}

	// Same name updates in place; setting_name is unique.
	if err := settings.Set("loan_period_days", "21", "Extended loan length"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if v, _ := settings.Get("loan_period_days"); v != "21" {
		t.Fatalf("upsert should replace value, got %q", v)
	}

	all := settings.All()
	if len(all) != 1 || all[0].Description != "Extended loan length" {
		t.Fatalf("unexpected settings list: %+v", all)
	}
}

// Reads are served from the cache: a row changed behind the store's back is
// invisible until Reload.
func TestSettingsCacheIsLoadOnce(t *testing.T) {
	db := tempDB(t)

	settings, err := db.Settings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := settings.Set("fine_per_day", "0.25", ""); err != nil {
		t.Fatalf("set: %v", err)
	}

	if _, err := db.db.Exec(`UPDATE system_settings SET setting_value = '0.50' WHERE setting_name = 'fine_per_day'`); err != nil {
		t.Fatalf("out-of-band update: %v", err)
	}

	if v, _ := settings.Get("fine_per_day"); v != "0.25" {
		t.Fatalf("cache should still serve the old value, got %q", v)
	}

	if err := settings.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v, _ := settings.Get("fine_per_day"); v != "0.50" {
		t.Fatalf("reload should pick up the new value, got %q", v)
	}
}

func TestSettingsConcurrentAccess(t *testing.T) {
	db := tempDB(t)

	settings, err := db.Settings()
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if err := settings.Set("max_reservations", "3", ""); err != nil {
		t.Fatalf("set: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			settings.Get("max_reservations")
			settings.All()
		}
	}()
	for i := 0; i < 20; i++ {
		if err := settings.Set("max_reservations", "5", ""); err != nil {
			t.Fatalf("concurrent set: %v", err)
		}
	}
	<-done
}
