package i18n

import (
	"encoding/json"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLocaleKeysParity(t *testing.T) {
	es := mustLoadLocaleMessages(t, LangES)
	en := mustLoadLocaleMessages(t, LangEN)

	if missing := missingKeys(es, en); len(missing) > 0 {
		t.Errorf("keys missing in en locale: %s", strings.Join(missing, ", "))
	}
	if missing := missingKeys(en, es); len(missing) > 0 {
		t.Errorf("keys missing in es locale: %s", strings.Join(missing, ", "))
	}
}

func TestNewManagerRequiresSpanishAndEnglish(t *testing.T) {
	locales := fstest.MapFS{
		"en.json": {Data: []byte(`{"app.name":"SaludBoard"}`)},
	}
	if _, err := NewManager(LangEN, locales); err == nil {
		t.Fatal("expected missing es locale to fail")
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager, err := NewManager("es", EmbeddedLocales())
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}

	tests := []struct {
		header string
		want   string
	}{
		{header: "en-US,en;q=0.9", want: LangEN},
		{header: "fr-FR,en;q=0.5,es;q=0.8", want: LangES},
		{header: "de-DE", want: LangES},
		{header: "", want: LangES},
		{header: ";;;", want: LangES},
	}
	for _, test := range tests {
		if got := manager.DetectFromAcceptLanguage(test.header); got != test.want {
			t.Fatalf("DetectFromAcceptLanguage(%q) = %q, want %q", test.header, got, test.want)
		}
	}
}

func TestTranslateFallsBackToDefaultThenKey(t *testing.T) {
	locales := fstest.MapFS{
		"es.json": {Data: []byte(`{"footer.next":"Continuar","only.es":"solo"}`)},
		"en.json": {Data: []byte(`{"footer.next":"Continue"}`)},
	}
	manager, err := NewManager("es-AR", locales)
	if err != nil {
		t.Fatalf("NewManager() unexpected error: %v", err)
	}
	if manager.DefaultLanguage() != LangES {
		t.Fatalf("expected default es, got %q", manager.DefaultLanguage())
	}
	if got := manager.Translate("en_GB", "footer.next"); got != "Continue" {
		t.Fatalf("expected English label, got %q", got)
	}
	if got := manager.Translate(LangEN, "only.es"); got != "solo" {
		t.Fatalf("expected default language fallback, got %q", got)
	}
	if got := manager.Translate(LangEN, "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func mustLoadLocaleMessages(t *testing.T, lang string) map[string]string {
	t.Helper()

	content, err := fs.ReadFile(EmbeddedLocales(), lang+".json")
	if err != nil {
		t.Fatalf("read locale %q: %v", lang, err)
	}

	messages := map[string]string{}
	if err := json.Unmarshal(content, &messages); err != nil {
		t.Fatalf("parse locale %q: %v", lang, err)
	}
	if len(messages) == 0 {
		t.Fatalf("locale %q is empty", lang)
	}
	return messages
}

func missingKeys(source map[string]string, target map[string]string) []string {
	missing := make([]string, 0)
	for key := range source {
		if _, ok := target[key]; !ok {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	return missing
}
