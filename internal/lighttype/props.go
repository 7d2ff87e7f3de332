package lighttype

import (
	"fmt"
	"strconv"
	"strings"
)

// Material property keys read and written by the pipeline.
const (
	PropLightType       = "i3d_light_type"
	PropLightRole       = "i3d_light_role"
	PropIntensity       = "customTexture_lightsIntensity"
	PropBitmask         = "customParameter_lightTypeBitMask"
	PropCustomShader    = "customShader"
	PropShaderVariation = "customShaderVariation"
	PropShadingRate     = "shadingRate"
)

// Values the exporter expects on static-light materials.
const (
	RequiredCustomShader = "$data/shaders/vehicleShader.xml"
	RequiredVariation    = "staticLight"
	RequiredShadingRate  = "1x1"
)

// TurnSignalBitmask is the lightTypeBitMask value for turn signals.
const TurnSignalBitmask = 20480.0

// Resolve returns the light type stored in props. The current key wins over
// the legacy role key. ok is false when neither is set.
func Resolve(props map[string]string) (ID, bool) {
	raw := strings.TrimSpace(props[PropLightType])
	if raw == "" {
		raw = strings.TrimSpace(props[PropLightRole])
	}
	if raw == "" {
		return "", false
	}
	return Normalize(raw), true
}

// RequiredProps returns the exporter properties every light material needs.
func RequiredProps() map[string]string {
	return map[string]string{
		PropCustomShader:    RequiredCustomShader,
		PropShaderVariation: RequiredVariation,
		PropShadingRate:     RequiredShadingRate,
	}
}

// ApplyRequiredProps writes the exporter properties for id into props,
// including the turn-signal bitmask when id needs it.
func ApplyRequiredProps(props map[string]string, id ID) {
	for k, v := range RequiredProps() {
		props[k] = v
	}
	props[PropLightType] = string(id)
	if IsTurnSignal(id) {
		props[PropBitmask] = FormatTurnSignalBitmask()
	}
}

// FormatTurnSignalBitmask returns the bitmask parameter string for turn signals.
func FormatTurnSignalBitmask() string {
	return FormatBitmask([4]float64{TurnSignalBitmask, 0, 0, 0})
}

// FormatBitmask formats a four-component custom parameter with one decimal.
func FormatBitmask(v [4]float64) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strings.Join(parts, " ")
}

// ParseBitmask parses a four-component parameter string. Fields may be
// separated by spaces or commas.
func ParseBitmask(s string) ([4]float64, error) {
	var out [4]float64
	fields := strings.Fields(strings.ReplaceAll(s, ",", " "))
	if len(fields) != len(out) {
		return out, fmt.Errorf("lighttype: bitmask %q: want 4 fields, got %d", s, len(fields))
	}
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return out, fmt.Errorf("lighttype: bitmask %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// IsTurnSignalBitmask reports whether s is a well-formed turn-signal bitmask.
func IsTurnSignalBitmask(s string) bool {
	v, err := ParseBitmask(s)
	return err == nil && v[0] == TurnSignalBitmask
}
