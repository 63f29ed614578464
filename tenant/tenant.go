package tenant

// Config describes one tenant: branding, color tokens and feature flags.
type Config struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Tagline            string   `json:"tagline,omitempty"`
	LogoURL            string   `json:"logoUrl,omitempty"`
	LoginBackgroundURL string   `json:"loginBackgroundUrl,omitempty"`
	Colors             Colors   `json:"colors"`
	Features           Features `json:"features"`
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	c.Features = c.Features.Clone()
	return c
}

// Colors holds the seven named color tokens projected into the style namespace.
type Colors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Background string `json:"background"`
	Surface    string `json:"surface"`
	Text       string `json:"text"`
	TextMuted  string `json:"textMuted"`
	Border     string `json:"border"`
}

// Token names, in projection order.
const (
	TokenPrimary    = "primary"
	TokenSecondary  = "secondary"
	TokenBackground = "background"
	TokenSurface    = "surface"
	TokenText       = "text"
	TokenTextMuted  = "textMuted"
	TokenBorder     = "border"
)

// Token is a single named color value.
type Token struct {
	Name  string
	Value string
}

// Tokens returns the seven tokens in a fixed order.
func (c Colors) Tokens() []Token {
	return []Token{
		{Name: TokenPrimary, Value: c.Primary},
		{Name: TokenSecondary, Value: c.Secondary},
		{Name: TokenBackground, Value: c.Background},
		{Name: TokenSurface, Value: c.Surface},
		{Name: TokenText, Value: c.Text},
		{Name: TokenTextMuted, Value: c.TextMuted},
		{Name: TokenBorder, Value: c.Border},
	}
}

// Token returns the value for a token name.
func (c Colors) Token(name string) (string, bool) {
	for _, token := range c.Tokens() {
		if token.Name == name {
			return token.Value, true
		}
	}
	return "", false
}

// IsZero reports whether every token is empty.
func (c Colors) IsZero() bool {
	return c == Colors{}
}

// Features holds the tenant capability switches. Optional flags are pointers;
// nil reads as false.
type Features struct {
	SSO           bool          `json:"sso"`
	LOA           bool          `json:"loa"`
	Queue         bool          `json:"queue"`
	Appointments  bool          `json:"appointments"`
	MultiLocation *bool         `json:"multiLocation,omitempty"`
	Admissions    *bool         `json:"admissions,omitempty"`
	CDSS          *bool         `json:"cdss,omitempty"`
	AIAssistant   *bool         `json:"aiAssistant,omitempty"`
	Visits        VisitFeatures `json:"visits"`
}

// VisitFeatures groups the visit mode switches. The teleconsult sub-modes are
// stored as given even when TeleconsultEnabled is false; read them through
// IsVisitModeAvailable.
type VisitFeatures struct {
	TeleconsultEnabled          bool `json:"teleconsultEnabled"`
	TeleconsultNowEnabled       bool `json:"teleconsultNowEnabled"`
	TeleconsultLaterEnabled     bool `json:"teleconsultLaterEnabled"`
	ClinicVisitEnabled          bool `json:"clinicVisitEnabled"`
	ClinicF2FSchedulingEnabled  bool `json:"clinicF2fSchedulingEnabled"`
	ClinicLabFulfillmentEnabled bool `json:"clinicLabFulfillmentEnabled"`
}

// HasMultiLocation reports the optional multi location flag.
func (f Features) HasMultiLocation() bool { return flag(f.MultiLocation) }

// HasAdmissions reports the optional admissions flag.
func (f Features) HasAdmissions() bool { return flag(f.Admissions) }

// HasCDSS reports the optional clinical decision support flag.
func (f Features) HasCDSS() bool { return flag(f.CDSS) }

// HasAIAssistant reports the optional AI assistant flag.
func (f Features) HasAIAssistant() bool { return flag(f.AIAssistant) }

// Clone copies the optional flags so the result never aliases f.
func (f Features) Clone() Features {
	f.MultiLocation = clonePtr(f.MultiLocation)
	f.Admissions = clonePtr(f.Admissions)
	f.CDSS = clonePtr(f.CDSS)
	f.AIAssistant = clonePtr(f.AIAssistant)
	return f
}

// Bool returns a pointer to value, for optional feature flags.
func Bool(value bool) *bool {
	return &value
}

func flag(value *bool) bool {
	return value != nil && *value
}

func clonePtr(value *bool) *bool {
	if value == nil {
		return nil
	}
	out := *value
	return &out
}
