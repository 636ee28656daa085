package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "root": { "type": "string" },
    "retries": { "type": "integer" },
    "apps": { "type": "array", "items": { "type": "object", "properties": { "name": { "type": "string" } } } }
  }
}`

func TestValidateYAMLValid(t *testing.T) {
	require.NoError(t, ValidateYAML("test.yaml", []byte(testSchema), []byte("root: C:\\portablesource\nretries: 3\n")))
}

func TestValidateYAMLInvalidType(t *testing.T) {
	err := ValidateYAML("test.yaml", []byte(testSchema), []byte("retries: lots\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "retries", verr.Field)
	require.Equal(t, "must be a integer", verr.Detail)
	require.Contains(t, err.Error(), "test.yaml")
}

func TestValidateYAMLNestedField(t *testing.T) {
	err := ValidateYAML("catalog.yaml", []byte(testSchema), []byte("apps:\n  - name: 3\n"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, "apps.0.name", verr.Field)
	require.Equal(t, "must be a string", verr.Detail)
}

func TestValidateYAMLUnknownProperty(t *testing.T) {
	err := ValidateYAML("test.yaml", []byte(testSchema), []byte("colour: blue\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "colour")
}

func TestValidateYAMLParseError(t *testing.T) {
	err := ValidateYAML("test.yaml", []byte(testSchema), []byte("root: [unterminated\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "Failed to parse test.yaml")
}

func TestHumanReadableType(t *testing.T) {
	require.Equal(t, "mapping", humanReadableType("object"))
	require.Equal(t, "list", humanReadableType("array"))
	require.Equal(t, "string or list", humanReadableType("[string,array]"))
}
