// pattern: Functional Core

package telemetry

import "fmt"

// Flatten converts every leaf value in a settings mapping to its string
// form, recursing through nested mappings. The device settings tree mixes
// numbers, bools and enums; the collection endpoint only accepts strings.
// A nested mapping that is not string-keyed is a malformed snapshot and is
// rejected rather than coerced.
func Flatten(settings map[string]any) (map[string]any, error) {
	converted := make(map[string]any, len(settings))
	for key, value := range settings {
		switch v := value.(type) {
		case map[string]any:
			nested, err := Flatten(v)
			if err != nil {
				return nil, fmt.Errorf("section %q: %w", key, err)
			}
			converted[key] = nested
		case map[any]any:
			return nil, fmt.Errorf("section %q: mapping is not string-keyed", key)
		default:
			converted[key] = fmt.Sprint(v)
		}
	}
	return converted, nil
}

// DeviceUUID extracts the reporting identifier from a settings snapshot,
// stored by the device under system_info.uuid.
func DeviceUUID(settings map[string]any) (string, error) {
	systemInfo, ok := settings["system_info"].(map[string]any)
	if !ok {
		return "", fmt.Errorf("settings have no system_info section")
	}
	id, ok := systemInfo["uuid"].(string)
	if !ok {
		return "", fmt.Errorf("system_info.uuid is not a string")
	}
	return id, nil
}
