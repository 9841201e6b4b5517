package data

type Language struct {
	Code string
	Name string
}

type ModelOption struct {
	Value string
	Label string
}

var Languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "ja", Name: "Japanese"},
	{Code: "ko", Name: "Korean"},
	{Code: "zh", Name: "Chinese"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "pt", Name: "Portuguese"},
}

var TranslationModels = []ModelOption{
	{Value: "gpt-4", Label: "GPT-4"},
	{Value: "gpt-3.5-turbo", Label: "GPT-3.5 Turbo"},
	{Value: "claude-3", Label: "Claude 3"},
}

var ColorizationModels = []ModelOption{
	{Value: "stable-diffusion", Label: "Stable Diffusion"},
	{Value: "midjourney", Label: "Midjourney"},
	{Value: "dall-e-3", Label: "DALL-E 3"},
}

// LanguageName returns the display name for code, or code itself if unknown.
func LanguageName(code string) string {
	for _, l := range Languages {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}

func KnownLanguage(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// NextLanguage returns the language after code in Languages, wrapping around.
func NextLanguage(code string) string {
	for i, l := range Languages {
		if l.Code == code {
			return Languages[(i+1)%len(Languages)].Code
		}
	}
	return Languages[0].Code
}

// NextModel cycles through options starting after value.
func NextModel(options []ModelOption, value string) string {
	if len(options) == 0 {
		return value
	}
	for i, o := range options {
		if o.Value == value {
			return options[(i+1)%len(options)].Value
		}
	}
	return options[0].Value
}
