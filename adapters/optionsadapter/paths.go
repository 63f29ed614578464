package optionsadapter

import (
	"fmt"
	"strings"

	"github.com/normanwashere/patient-portal-prototype-sub001/ferrors"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// storedCapabilities are the switches persisted in a feature document.
// Derived capabilities are never written.
var storedCapabilities = []tenant.Capability{
	tenant.CapabilitySSO,
	tenant.CapabilityLOA,
	tenant.CapabilityQueue,
	tenant.CapabilityAppointments,
	tenant.CapabilityMultiLocation,
	tenant.CapabilityAdmissions,
	tenant.CapabilityCDSS,
	tenant.CapabilityAIAssistant,
	tenant.CapabilityTeleconsult,
	tenant.CapabilityTeleconsultNow,
	tenant.CapabilityTeleconsultLater,
	tenant.CapabilityClinicVisit,
	tenant.CapabilityClinicF2FScheduling,
	tenant.CapabilityClinicLabFulfillment,
}

// encodeFeatures builds a nested document such as
// {"queue": true, "visits": {"teleconsult": false}}. Absent optional flags
// are left out so a lower scope can still supply them.
func encodeFeatures(features tenant.Features) (map[string]any, error) {
	doc := map[string]any{}
	for _, capability := range storedCapabilities {
		if optionalAbsent(features, capability) {
			continue
		}
		value, ok := features.Flag(capability)
		if !ok {
			continue
		}
		if err := setPath(doc, string(capability), value); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

// decodeFeatures applies every flag in doc onto features.
func decodeFeatures(doc map[string]any, features *tenant.Features) error {
	flat := map[string]any{}
	flattenMap("", doc, flat)
	for path, raw := range flat {
		value, ok := raw.(bool)
		if !ok {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, fmt.Sprintf("optionsadapter: feature %q is %T, not bool", path, raw), map[string]any{
				ferrors.MetaPath: path,
			})
		}
		if !features.SetFlag(tenant.NormalizeCapability(path), value) {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, "optionsadapter: unknown feature", map[string]any{
				ferrors.MetaPath: path,
			})
		}
	}
	return nil
}

func optionalAbsent(features tenant.Features, capability tenant.Capability) bool {
	switch capability {
	case tenant.CapabilityMultiLocation:
		return features.MultiLocation == nil
	case tenant.CapabilityAdmissions:
		return features.Admissions == nil
	case tenant.CapabilityCDSS:
		return features.CDSS == nil
	case tenant.CapabilityAIAssistant:
		return features.AIAssistant == nil
	default:
		return false
	}
}

func splitPath(path string) []string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}
	parts := strings.Split(trimmed, ".")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func setPath(doc map[string]any, path string, value any) error {
	segments := splitPath(path)
	if len(segments) == 0 {
		return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, "optionsadapter: feature path is empty", map[string]any{
			ferrors.MetaPath: path,
		})
	}
	current := doc
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment]
		if !ok {
			child := map[string]any{}
			current[segment] = child
			current = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotInvalid, "optionsadapter: feature group is not a map", map[string]any{
				ferrors.MetaPath: segment,
			})
		}
		current = child
	}
	current[segments[len(segments)-1]] = value
	return nil
}

func flattenMap(prefix string, data map[string]any, out map[string]any) {
	if len(data) == 0 {
		return
	}
	for key, value := range data {
		if key == "" {
			continue
		}
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		child, ok := value.(map[string]any)
		if ok {
			flattenMap(path, child, out)
			continue
		}
		out[path] = value
	}
}
