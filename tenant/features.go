package tenant

import (
	"sort"
	"strings"
)

// VisitMode selects a teleconsult sub-mode.
type VisitMode string

const (
	VisitModeNow   VisitMode = "now"
	VisitModeLater VisitMode = "later"
)

// IsVisitModeAvailable returns the sub-mode flag gated by TeleconsultEnabled.
// Unknown modes are unavailable.
func IsVisitModeAvailable(features Features, mode VisitMode) bool {
	visits := features.Visits
	if !visits.TeleconsultEnabled {
		return false
	}
	switch mode {
	case VisitModeNow:
		return visits.TeleconsultNowEnabled
	case VisitModeLater:
		return visits.TeleconsultLaterEnabled
	default:
		return false
	}
}

// HasAnyVisitCapability reports whether teleconsult or clinic visits are enabled.
func HasAnyVisitCapability(features Features) bool {
	return features.Visits.TeleconsultEnabled || features.Visits.ClinicVisitEnabled
}

// Capability is a flat key for one projected feature.
type Capability string

const (
	CapabilitySSO                  Capability = "sso"
	CapabilityLOA                  Capability = "loa"
	CapabilityQueue                Capability = "queue"
	CapabilityAppointments         Capability = "appointments"
	CapabilityMultiLocation        Capability = "multi_location"
	CapabilityAdmissions           Capability = "admissions"
	CapabilityCDSS                 Capability = "cdss"
	CapabilityAIAssistant          Capability = "ai_assistant"
	CapabilityTeleconsult          Capability = "visits.teleconsult"
	CapabilityTeleconsultNow       Capability = "visits.teleconsult_now"
	CapabilityTeleconsultLater     Capability = "visits.teleconsult_later"
	CapabilityClinicVisit          Capability = "visits.clinic"
	CapabilityClinicF2FScheduling  Capability = "visits.clinic_f2f_scheduling"
	CapabilityClinicLabFulfillment Capability = "visits.clinic_lab_fulfillment"
	CapabilityAnyVisit             Capability = "visits.any"
)

var capabilityAliases = map[string]Capability{
	"multilocation":                      CapabilityMultiLocation,
	"aiassistant":                        CapabilityAIAssistant,
	"teleconsult":                        CapabilityTeleconsult,
	"teleconsultenabled":                 CapabilityTeleconsult,
	"visits.teleconsultenabled":          CapabilityTeleconsult,
	"teleconsultnowenabled":              CapabilityTeleconsultNow,
	"visits.teleconsultnowenabled":       CapabilityTeleconsultNow,
	"teleconsultlaterenabled":            CapabilityTeleconsultLater,
	"visits.teleconsultlaterenabled":     CapabilityTeleconsultLater,
	"clinicvisitenabled":                 CapabilityClinicVisit,
	"visits.clinicvisitenabled":          CapabilityClinicVisit,
	"clinicf2fschedulingenabled":         CapabilityClinicF2FScheduling,
	"visits.clinicf2fschedulingenabled":  CapabilityClinicF2FScheduling,
	"cliniclabfulfillmentenabled":        CapabilityClinicLabFulfillment,
	"visits.cliniclabfulfillmentenabled": CapabilityClinicLabFulfillment,
}

// NormalizeCapability trims whitespace, lowercases and resolves aliases such as
// the camelCase flag names used in tenant configs.
func NormalizeCapability(key string) Capability {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return ""
	}
	if alias, ok := capabilityAliases[key]; ok {
		return alias
	}
	return Capability(key)
}

// Capabilities is the flat projection of a Features value.
type Capabilities map[Capability]bool

// Enabled reports a capability value. Unknown keys are false.
func (c Capabilities) Enabled(key Capability) bool {
	if c == nil {
		return false
	}
	return c[NormalizeCapability(string(key))]
}

// Keys returns the capability keys in sorted order.
func (c Capabilities) Keys() []Capability {
	keys := make([]Capability, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Project flattens nested features into capabilities, applying the parent
// gating for teleconsult sub-modes.
func Project(features Features) Capabilities {
	visits := features.Visits
	return Capabilities{
		CapabilitySSO:                  features.SSO,
		CapabilityLOA:                  features.LOA,
		CapabilityQueue:                features.Queue,
		CapabilityAppointments:         features.Appointments,
		CapabilityMultiLocation:        features.HasMultiLocation(),
		CapabilityAdmissions:           features.HasAdmissions(),
		CapabilityCDSS:                 features.HasCDSS(),
		CapabilityAIAssistant:          features.HasAIAssistant(),
		CapabilityTeleconsult:          visits.TeleconsultEnabled,
		CapabilityTeleconsultNow:       IsVisitModeAvailable(features, VisitModeNow),
		CapabilityTeleconsultLater:     IsVisitModeAvailable(features, VisitModeLater),
		CapabilityClinicVisit:          visits.ClinicVisitEnabled,
		CapabilityClinicF2FScheduling:  visits.ClinicF2FSchedulingEnabled,
		CapabilityClinicLabFulfillment: visits.ClinicLabFulfillmentEnabled,
		CapabilityAnyVisit:             HasAnyVisitCapability(features),
	}
}

// KnownCapabilities lists every capability Project produces.
func KnownCapabilities() []Capability {
	return Project(Features{}).Keys()
}

// IsKnownCapability reports whether key names a projected capability.
func IsKnownCapability(key Capability) bool {
	_, ok := Project(Features{})[NormalizeCapability(string(key))]
	return ok
}

// Flag returns the stored value of the switch behind key, without parent
// gating. Derived capabilities such as visits.any report false, false.
func (f Features) Flag(key Capability) (bool, bool) {
	ptr := f.flagRef(NormalizeCapability(string(key)))
	if ptr == nil {
		return false, false
	}
	return *ptr, true
}

// SetFlag stores value for the switch behind key. Derived or unknown
// capabilities are rejected.
func (f *Features) SetFlag(key Capability, value bool) bool {
	if f == nil {
		return false
	}
	switch NormalizeCapability(string(key)) {
	case CapabilityMultiLocation:
		f.MultiLocation = Bool(value)
		return true
	case CapabilityAdmissions:
		f.Admissions = Bool(value)
		return true
	case CapabilityCDSS:
		f.CDSS = Bool(value)
		return true
	case CapabilityAIAssistant:
		f.AIAssistant = Bool(value)
		return true
	}
	ptr := f.boolRef(NormalizeCapability(string(key)))
	if ptr == nil {
		return false
	}
	*ptr = value
	return true
}

func (f Features) flagRef(key Capability) *bool {
	switch key {
	case CapabilityMultiLocation:
		return Bool(f.HasMultiLocation())
	case CapabilityAdmissions:
		return Bool(f.HasAdmissions())
	case CapabilityCDSS:
		return Bool(f.HasCDSS())
	case CapabilityAIAssistant:
		return Bool(f.HasAIAssistant())
	}
	return f.boolRef(key)
}

func (f *Features) boolRef(key Capability) *bool {
	switch key {
	case CapabilitySSO:
		return &f.SSO
	case CapabilityLOA:
		return &f.LOA
	case CapabilityQueue:
		return &f.Queue
	case CapabilityAppointments:
		return &f.Appointments
	case CapabilityTeleconsult:
		return &f.Visits.TeleconsultEnabled
	case CapabilityTeleconsultNow:
		return &f.Visits.TeleconsultNowEnabled
	case CapabilityTeleconsultLater:
		return &f.Visits.TeleconsultLaterEnabled
	case CapabilityClinicVisit:
		return &f.Visits.ClinicVisitEnabled
	case CapabilityClinicF2FScheduling:
		return &f.Visits.ClinicF2FSchedulingEnabled
	case CapabilityClinicLabFulfillment:
		return &f.Visits.ClinicLabFulfillmentEnabled
	}
	return nil
}
