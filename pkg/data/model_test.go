package data

import "testing"

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()

	if prefs.TranslationEnabled || prefs.ColorizationEnabled {
		t.Error("Expected overlays to be disabled by default")
	}
	if prefs.SourceLanguage != "ja" {
		t.Errorf("Expected SourceLanguage 'ja', got '%s'", prefs.SourceLanguage)
	}
	if prefs.TargetLanguage != "en" {
		t.Errorf("Expected TargetLanguage 'en', got '%s'", prefs.TargetLanguage)
	}
	if prefs.ModelSettings.Quality != QualityMedium {
		t.Errorf("Expected Quality 'medium', got '%s'", prefs.ModelSettings.Quality)
	}
	if prefs.ModelSettings.TranslationModel != "gpt-4" {
		t.Errorf("Expected TranslationModel 'gpt-4', got '%s'", prefs.ModelSettings.TranslationModel)
	}
}

func TestPreferencesMergeKeepsOmittedFields(t *testing.T) {
	key := "secret-key-123"
	prefs := DefaultPreferences().Merge(PreferencesPatch{APIKey: &key})

	if prefs.APIKey != key {
		t.Errorf("Expected APIKey '%s', got '%s'", key, prefs.APIKey)
	}
	if prefs.SourceLanguage != "ja" {
		t.Errorf("Expected SourceLanguage to be retained, got '%s'", prefs.SourceLanguage)
	}
	if prefs.ModelSettings.ColorizationModel != "stable-diffusion" {
		t.Errorf("Expected ModelSettings to be retained, got %+v", prefs.ModelSettings)
	}
}

func TestPreferencesMergeReplacesModelSettingsWholesale(t *testing.T) {
	prefs := DefaultPreferences().Merge(PreferencesPatch{
		ModelSettings: &ModelSettings{Quality: QualityHigh},
	})

	if prefs.ModelSettings.Quality != QualityHigh {
		t.Errorf("Expected Quality 'high', got '%s'", prefs.ModelSettings.Quality)
	}
	if prefs.ModelSettings.TranslationModel != "" {
		t.Errorf("Expected TranslationModel to be replaced, got '%s'", prefs.ModelSettings.TranslationModel)
	}
}

func TestChapterClone(t *testing.T) {
	chapter := &Chapter{ID: "ch-1", Pages: []Page{{ID: "p1", ImageURL: "a.png"}}}
	clone := chapter.Clone()
	clone.Pages[0].ImageURL = "b.png"

	if chapter.Pages[0].ImageURL != "a.png" {
		t.Errorf("Expected original page to be untouched, got '%s'", chapter.Pages[0].ImageURL)
	}

	var nilChapter *Chapter
	if nilChapter.Clone() != nil {
		t.Error("Expected clone of nil chapter to be nil")
	}
}

func TestQualityCycle(t *testing.T) {
	if got := QualityLow.Next(); got != QualityMedium {
		t.Errorf("Expected medium after low, got '%s'", got)
	}
	if got := QualityHigh.Next(); got != QualityLow {
		t.Errorf("Expected low after high, got '%s'", got)
	}
	if Quality("ultra").Valid() {
		t.Error("Expected 'ultra' to be invalid")
	}
}

func TestOptionCycling(t *testing.T) {
	if got := NextLanguage("pt"); got != "en" {
		t.Errorf("Expected wrap to 'en', got '%s'", got)
	}
	if got := NextLanguage("xx"); got != "en" {
		t.Errorf("Expected unknown code to restart at 'en', got '%s'", got)
	}
	if !KnownLanguage("de") || KnownLanguage("xx") {
		t.Error("Expected de to be known and xx unknown")
	}
	if got := LanguageName("ko"); got != "Korean" {
		t.Errorf("Expected 'Korean', got '%s'", got)
	}
	if got := NextModel(TranslationModels, "claude-3"); got != "gpt-4" {
		t.Errorf("Expected wrap to 'gpt-4', got '%s'", got)
	}
}
