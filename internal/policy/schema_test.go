package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool    { return &b }
func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func TestBuildSchemaOnlyGovernedFields(t *testing.T) {
	pol := &Policy{
		RequireName: boolPtr(true),
		NameMinLen:  intPtr(2),
		NameMaxLen:  intPtr(80),
	}
	schema := BuildSchema(pol)

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, FieldName)
	assert.Contains(t, props, FieldMetadata)
	assert.NotContains(t, props, FieldEmail)
	assert.NotContains(t, props, FieldDOB)
	assert.Equal(t, false, schema["additionalProperties"])

	nameSchema := props[FieldName].(map[string]any)
	assert.Equal(t, 2, nameSchema["minLength"])
	assert.Equal(t, 80, nameSchema["maxLength"])
}

func TestCheckSchemaUnknownFieldRejected(t *testing.T) {
	pol := &Policy{RequireName: boolPtr(true)}

	violations := CheckSchema(pol, map[string]any{
		"name":   "Tan Wei Ming",
		"weight": 48,
	})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSchemaInvalid, violations[0].Code)
	assert.Equal(t, "schema", violations[0].Citation)
	assert.Contains(t, violations[0].Text, "weight")
}

func TestCheckSchemaUngovernedBusinessFieldRejected(t *testing.T) {
	// The policy only governs name, so a supplied email is an unknown key.
	pol := &Policy{RequireName: boolPtr(true)}

	violations := CheckSchema(pol, map[string]any{
		"name":  "Tan Wei Ming",
		"email": "tan@example.com",
	})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSchemaInvalid, violations[0].Code)
}

func TestCheckSchemaMetadataAlwaysAllowed(t *testing.T) {
	pol := &Policy{RequireName: boolPtr(true)}

	violations := CheckSchema(pol, map[string]any{
		"name":     "Tan Wei Ming",
		"metadata": map[string]any{"batch": "b-42", "anything": 1},
	})
	assert.Empty(t, violations)
}

func TestCheckSchemaMultipleErrorsSingleViolation(t *testing.T) {
	pol := &Policy{
		RequireName: boolPtr(true),
		NameMinLen:  intPtr(5),
	}

	violations := CheckSchema(pol, map[string]any{
		"name":    "ab",
		"unknown": true,
		"extra":   1,
	})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSchemaInvalid, violations[0].Code)
}

func TestCheckSchemaWrongType(t *testing.T) {
	pol := &Policy{RequireName: boolPtr(true)}

	violations := CheckSchema(pol, map[string]any{"name": 42})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSchemaInvalid, violations[0].Code)
}

func TestCheckSchemaDOBPattern(t *testing.T) {
	pol := &Policy{RequireDOB: boolPtr(true)}

	assert.Empty(t, CheckSchema(pol, map[string]any{"dob": "1999-02-14"}))

	violations := CheckSchema(pol, map[string]any{"dob": "14/02/1999"})
	require.Len(t, violations, 1)
	assert.Equal(t, CodeSchemaInvalid, violations[0].Code)
}
