package data

// Quality selects how much effort the colorization model spends on a page.
type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
)

// Valid reports whether q is one of the known quality levels.
func (q Quality) Valid() bool {
	switch q {
	case QualityLow, QualityMedium, QualityHigh:
		return true
	}
	return false
}

// Next cycles low -> medium -> high -> low.
func (q Quality) Next() Quality {
	switch q {
	case QualityLow:
		return QualityMedium
	case QualityMedium:
		return QualityHigh
	default:
		return QualityLow
	}
}

type Page struct {
	ID           string
	ImageURL     string
	Number       int
	IsTranslated bool
	IsColorized  bool
}

type Chapter struct {
	ID     string
	Title  string
	Number int
	Pages  []Page
	URL    string
}

// Clone returns a copy whose page slice can be modified without touching c.
func (c *Chapter) Clone() *Chapter {
	if c == nil {
		return nil
	}
	out := *c
	out.Pages = append([]Page(nil), c.Pages...)
	return &out
}

type ModelSettings struct {
	TranslationModel  string
	ColorizationModel string
	Quality           Quality
}

type Preferences struct {
	TranslationEnabled  bool
	ColorizationEnabled bool
	SourceLanguage      string
	TargetLanguage      string
	APIKey              string
	ModelSettings       ModelSettings
	ClipboardURL        string // empty until a page URL has been copied
}

// PreferencesPatch is a partial Preferences: nil fields are left untouched
// when merged. ModelSettings is replaced as a whole when present.
type PreferencesPatch struct {
	TranslationEnabled  *bool
	ColorizationEnabled *bool
	SourceLanguage      *string
	TargetLanguage      *string
	APIKey              *string
	ModelSettings       *ModelSettings
	ClipboardURL        *string
}

// Merge applies the set fields of patch on top of p, last write wins.
func (p Preferences) Merge(patch PreferencesPatch) Preferences {
	if patch.TranslationEnabled != nil {
		p.TranslationEnabled = *patch.TranslationEnabled
	}
	if patch.ColorizationEnabled != nil {
		p.ColorizationEnabled = *patch.ColorizationEnabled
	}
	if patch.SourceLanguage != nil {
		p.SourceLanguage = *patch.SourceLanguage
	}
	if patch.TargetLanguage != nil {
		p.TargetLanguage = *patch.TargetLanguage
	}
	if patch.APIKey != nil {
		p.APIKey = *patch.APIKey
	}
	if patch.ModelSettings != nil {
		p.ModelSettings = *patch.ModelSettings
	}
	if patch.ClipboardURL != nil {
		p.ClipboardURL = *patch.ClipboardURL
	}
	return p
}

func DefaultPreferences() Preferences {
	return Preferences{
		SourceLanguage: "ja",
		TargetLanguage: "en",
		ModelSettings: ModelSettings{
			TranslationModel:  "gpt-4",
			ColorizationModel: "stable-diffusion",
			Quality:           QualityMedium,
		},
	}
}
