package i18n

import (
	"testing"
	"time"
)

func TestT(t *testing.T) {
	tests := []struct {
		lang string
		key  string
		want string
	}{
		{LangEnglish, "time", "Time"},
		{LangSpanish, "time", "Hora"},
		{LangCatalan, "schedule_date_label", "Anar a la data"},
		// Unknown language falls back to English.
		{"de", "time", "Time"},
		// Unknown key falls back to the key itself.
		{LangEnglish, "no_such_key", "no_such_key"},
	}

	for _, tt := range tests {
		if got := T(tt.lang, tt.key); got != tt.want {
			t.Errorf("T(%q, %q) = %q, want %q", tt.lang, tt.key, got, tt.want)
		}
	}
}

func TestWeekday(t *testing.T) {
	if got := Weekday(LangSpanish, time.Wednesday); got != "Miércoles" {
		t.Errorf("Weekday(es, Wednesday) = %q", got)
	}
	if got := Weekday(LangEnglish, time.Monday); got != "Monday" {
		t.Errorf("Weekday(en, Monday) = %q", got)
	}
}

func TestWhatsAppMessage(t *testing.T) {
	got := WhatsAppMessage(LangEnglish, "Yoga Flow", "Alice Smith", "Wednesday, 06 March 2024", "09:00")
	want := "Hi! I would like to book the class 'Yoga Flow' with Alice Smith on Wednesday, 06 March 2024 at 09:00."
	if got != want {
		t.Errorf("WhatsAppMessage = %q, want %q", got, want)
	}
}

func TestAllLanguagesCoverEnglishKeys(t *testing.T) {
	loadOnce.Do(load)
	if loadErr != nil {
		t.Fatal(loadErr)
	}
	for _, lang := range Languages() {
		for key := range tables[DefaultLang] {
			if _, ok := tables[lang][key]; !ok {
				t.Errorf("language %q missing key %q", lang, key)
			}
		}
	}
}
