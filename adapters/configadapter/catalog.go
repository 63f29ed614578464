package configadapter

import (
	"strings"

	"github.com/normanwashere/patient-portal-prototype-sub001/catalog"
	"github.com/normanwashere/patient-portal-prototype-sub001/tenant"
)

// NewCatalog builds a capability catalog from a nested map. A leaf is either
// a description string or a map with label, description, group and parent
// fields. Keys that are not tenant capabilities are dropped.
func NewCatalog(data map[string]any, opts ...Option) *catalog.StaticCatalog {
	cfg := newConfigOptions(opts)
	defs := map[string]catalog.CapabilityDefinition{}
	flattenCatalog("", data, cfg.delimiter, defs)
	return catalog.NewStatic(defs)
}

func flattenCatalog(prefix string, data map[string]any, delim string, out map[string]catalog.CapabilityDefinition) {
	if len(data) == 0 {
		return
	}
	for key, value := range data {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		path := trimmedKey
		if prefix != "" {
			path = prefix + delim + trimmedKey
		}

		switch typed := value.(type) {
		case map[string]any:
			if def, ok := definitionFromMap(typed); ok {
				defsAdd(out, path, delim, def)
				continue
			}
			flattenCatalog(path, typed, delim, out)
		case map[string]string:
			raw := map[string]any{}
			for k, v := range typed {
				raw[k] = v
			}
			if def, ok := definitionFromMap(raw); ok {
				defsAdd(out, path, delim, def)
			}
		default:
			if msg, ok := messageFromValue(value); ok {
				defsAdd(out, path, delim, catalog.CapabilityDefinition{Description: msg})
			}
		}
	}
}

func defsAdd(out map[string]catalog.CapabilityDefinition, path, delim string, def catalog.CapabilityDefinition) {
	normalized := tenant.NormalizeCapability(strings.ReplaceAll(path, delim, "."))
	if normalized == "" {
		return
	}
	def.Key = normalized
	out[string(normalized)] = def
}

func definitionFromMap(data map[string]any) (catalog.CapabilityDefinition, bool) {
	def := catalog.CapabilityDefinition{}
	found := false
	if msg, ok := messageFromValue(data["label"]); ok {
		def.Label = msg
		found = true
	}
	if msg, ok := messageFromValue(data["description"]); ok {
		def.Description = msg
		found = true
	} else {
		var msg catalog.Message
		if val, ok := data["description_key"].(string); ok && strings.TrimSpace(val) != "" {
			msg.Key = strings.TrimSpace(val)
		}
		if val, ok := data["description_text"].(string); ok && strings.TrimSpace(val) != "" {
			msg.Text = strings.TrimSpace(val)
		}
		if msg.Key != "" || msg.Text != "" {
			def.Description = msg
			found = true
		}
	}
	if !found {
		return catalog.CapabilityDefinition{}, false
	}
	if group, ok := data["group"].(string); ok {
		def.Group = strings.TrimSpace(group)
	}
	if parent, ok := data["parent"].(string); ok {
		def.Parent = tenant.NormalizeCapability(parent)
	}
	return def, true
}

func messageFromValue(value any) (catalog.Message, bool) {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return catalog.Message{}, false
		}
		return catalog.Message{Text: trimmed}, true
	case map[string]any:
		return messageFromMap(typed)
	case map[string]string:
		raw := map[string]any{}
		for key, val := range typed {
			raw[key] = val
		}
		return messageFromMap(raw)
	default:
		return catalog.Message{}, false
	}
}

func messageFromMap(data map[string]any) (catalog.Message, bool) {
	if len(data) == 0 {
		return catalog.Message{}, false
	}
	msg := catalog.Message{}
	if val, ok := data["key"].(string); ok {
		msg.Key = strings.TrimSpace(val)
	}
	if val, ok := data["text"].(string); ok {
		msg.Text = strings.TrimSpace(val)
	}
	if args, ok := data["args"].(map[string]any); ok && len(args) > 0 {
		msg.Args = args
	} else if args, ok := data["args"].(map[string]string); ok && len(args) > 0 {
		msg.Args = make(map[string]any, len(args))
		for key, val := range args {
			msg.Args[key] = val
		}
	}
	if msg.Key == "" && msg.Text == "" {
		return catalog.Message{}, false
	}
	if len(msg.Args) == 0 {
		msg.Args = nil
	}
	return msg, true
}
