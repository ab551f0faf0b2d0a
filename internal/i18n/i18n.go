package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Supported languages. The renderer never hardcodes user-facing
// strings; everything user-visible comes through this package.
const (
	LangEnglish = "en"
	LangSpanish = "es"
	LangCatalan = "cat"

	DefaultLang = LangEnglish
)

//go:embed locales/*.json
var localeFS embed.FS

var (
	loadOnce sync.Once
	loadErr  error

	tables = make(map[string]map[string]string)
)

// load parses the embedded locale files. Called lazily so importing
// the package has no cost.
func load() {
	for _, lang := range []string{LangEnglish, LangSpanish, LangCatalan} {
		data, err := localeFS.ReadFile("locales/" + lang + ".json")
		if err != nil {
			loadErr = fmt.Errorf("i18n: read %s: %w", lang, err)
			return
		}
		table := make(map[string]string)
		if err := json.Unmarshal(data, &table); err != nil {
			loadErr = fmt.Errorf("i18n: parse %s: %w", lang, err)
			return
		}
		tables[lang] = table
	}
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{LangEnglish, LangSpanish, LangCatalan}
}

// Supported reports whether lang has a translation table.
func Supported(lang string) bool {
	switch lang {
	case LangEnglish, LangSpanish, LangCatalan:
		return true
	}
	return false
}

// T returns the translation for key in lang, falling back to English
// and finally to the key itself so a missing translation is visible
// rather than fatal.
func T(lang, key string) string {
	loadOnce.Do(load)
	if loadErr != nil {
		return key
	}
	if table, ok := tables[lang]; ok {
		if v, ok := table[key]; ok {
			return v
		}
	}
	if v, ok := tables[DefaultLang][key]; ok {
		return v
	}
	return key
}

// Weekday returns the localized weekday name.
func Weekday(lang string, wd time.Weekday) string {
	return T(lang, "week_days."+strings.ToLower(wd.String()))
}

// WhatsAppMessage formats the booking message for a class. The
// template uses {class_name}, {instructor}, {date} and {time}
// placeholders, matching the schedule documents studios already have.
func WhatsAppMessage(lang, className, instructor, date, timeOfDay string) string {
	r := strings.NewReplacer(
		"{class_name}", className,
		"{instructor}", instructor,
		"{date}", date,
		"{time}", timeOfDay,
	)
	return r.Replace(T(lang, "whatsapp_message"))
}
