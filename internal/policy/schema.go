package policy

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// dobISOPattern matches the YYYY-MM-DD shape; real-calendar-date checking is
// done by the dob field check, not the schema.
const dobISOPattern = `^\d{4}-\d{2}-\d{2}$`

// BuildSchema derives a JSON Schema document from the policy's declared
// knobs. A business field appears in the schema only when some knob governs
// it; metadata is always permitted as a free-form object; everything else at
// the top level is forbidden (additionalProperties: false), so payload keys
// unknown to the policy surface as SCHEMA_INVALID.
func BuildSchema(pol *Policy) map[string]any {
	props := map[string]any{
		FieldMetadata: map[string]any{"type": "object"},
	}

	if pol.governsName() {
		nameSchema := map[string]any{"type": "string"}
		if pol.NameMinLen != nil {
			nameSchema["minLength"] = *pol.NameMinLen
		}
		if pol.NameMaxLen != nil {
			nameSchema["maxLength"] = *pol.NameMaxLen
		}
		props[FieldName] = nameSchema
	}

	if pol.governsDOB() {
		props[FieldDOB] = map[string]any{"type": "string", "pattern": dobISOPattern}
	}

	if pol.governsID() {
		idSchema := map[string]any{"type": "string"}
		if pol.IDMinLen != nil {
			idSchema["minLength"] = *pol.IDMinLen
		}
		if pol.IDMaxLen != nil {
			idSchema["maxLength"] = *pol.IDMaxLen
		}
		props[FieldIDNumber] = idSchema
	}

	if pol.governsAddress() {
		props[FieldAddress] = map[string]any{"type": "string"}
	}

	if pol.governsEmail() {
		props[FieldEmail] = map[string]any{"type": "string"}
	}

	if pol.governsFacePhoto() {
		props[FieldFacePhoto] = map[string]any{"type": "boolean"}
	}

	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
}

// CheckSchema validates payload against the schema derived from pol and
// returns at most one SCHEMA_INVALID violation. Schema failure is non-fatal:
// the engine keeps running field checks against whatever is present.
func CheckSchema(pol *Policy, payload map[string]any) []Violation {
	schema := BuildSchema(pol)

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schema),
		gojsonschema.NewGoLoader(payload),
	)
	if err != nil {
		return []Violation{{
			Code:     CodeSchemaInvalid,
			Text:     fmt.Sprintf("schema validation failed: %v", err),
			Citation: "schema",
		}}
	}
	if result.Valid() {
		return nil
	}

	descs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		descs = append(descs, e.String())
	}
	return []Violation{{
		Code:     CodeSchemaInvalid,
		Text:     strings.Join(descs, "; "),
		Citation: "schema",
	}}
}
