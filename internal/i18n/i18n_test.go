package i18n

import (
	"testing"
	"testing/fstest"
)

func newTestManager(t *testing.T, defaultLanguage string) *Manager {
	t.Helper()
	manager, err := NewManager(defaultLanguage, fstest.MapFS{
		"en.json":   {Data: []byte(`{"greeting":"Hello","only.en":"English only","count":"%d items"}`)},
		"ru.json":   {Data: []byte(`{"greeting":"Привет","only.en":" "}`)},
		"notes.txt": {Data: []byte("ignored")},
	})
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	return manager
}

func TestNewManagerRequiresEnglish(t *testing.T) {
	_, err := NewManager(LangEN, fstest.MapFS{
		"ru.json": {Data: []byte(`{"greeting":"Привет"}`)},
	})
	if err == nil {
		t.Fatal("expected error without en locale")
	}
}

func TestNewManagerRejectsEmptyLocale(t *testing.T) {
	_, err := NewManager(LangEN, fstest.MapFS{
		"en.json": {Data: []byte(`{}`)},
	})
	if err == nil {
		t.Fatal("expected error for empty locale")
	}
}

func TestDefaultLanguageFallsBackToEnglish(t *testing.T) {
	manager := newTestManager(t, "de")
	if manager.DefaultLanguage() != LangEN {
		t.Fatalf("DefaultLanguage() = %q, want en", manager.DefaultLanguage())
	}
	if got := newTestManager(t, "ru_RU").DefaultLanguage(); got != LangRU {
		t.Fatalf("DefaultLanguage() = %q, want ru", got)
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager := newTestManager(t, LangEN)

	tests := map[string]string{
		"ru-RU,ru;q=0.9,en;q=0.8": LangRU,
		"de-DE, en-US;q=0.7":      LangEN,
		"fr":                      LangEN,
		"":                        LangEN,
	}
	for header, want := range tests {
		if got := manager.DetectFromAcceptLanguage(header); got != want {
			t.Fatalf("DetectFromAcceptLanguage(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestTranslateFallbacks(t *testing.T) {
	manager := newTestManager(t, LangEN)

	if got := manager.Translate(LangRU, "greeting"); got != "Привет" {
		t.Fatalf("Translate(ru, greeting) = %q", got)
	}
	if got := manager.Translate(LangRU, "only.en"); got != "English only" {
		t.Fatalf("expected blank ru value to fall back to en, got %q", got)
	}
	if got := manager.Translate(LangRU, "missing.key"); got != "missing.key" {
		t.Fatalf("expected missing key echoed back, got %q", got)
	}
	if got := manager.Translatef("xx", "count", 3); got != "3 items" {
		t.Fatalf("Translatef() = %q", got)
	}
}

func TestTranslateFields(t *testing.T) {
	manager := newTestManager(t, LangEN)

	fields := manager.TranslateFields(LangRU, map[string]string{"name": "greeting"})
	if fields["name"] != "Привет" {
		t.Fatalf("TranslateFields() = %v", fields)
	}
}
