// Package schema validates YAML documents against embedded JSON schemas.
package schema

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"sigs.k8s.io/yaml"
)

const (
	jsonschemaOneOf = "number_one_of"
	jsonschemaAnyOf = "number_any_of"
)

// ValidationError describes the most specific schema violation in a document.
type ValidationError struct {
	// Document names the file being validated, e.g. "portablesource.yaml".
	Document string
	Field    string
	Detail   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" || e.Field == "(root)" {
		return fmt.Sprintf("There is a problem in %s: %s", e.Document, e.Detail)
	}
	return fmt.Sprintf("There is a problem in %s: %s %s", e.Document, e.Field, e.Detail)
}

// ValidateYAML converts a YAML document to JSON and validates it against schema.
func ValidateYAML(document string, schema []byte, contents []byte) error {
	j, err := yaml.YAMLToJSON(contents)
	if err != nil {
		return fmt.Errorf("Failed to parse %s: %w", document, err)
	}
	return Validate(document, gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(j))
}

func Validate(document string, schemaLoader, dataLoader gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return err
	}
	if result.Valid() {
		return nil
	}
	return toError(document, result.Errors())
}

/*
The below code was adopted from docker-ce validator code.
https://github.com/docker/docker-ce/blob/f76280404059080d79fcda620caf8cef5a4a22f7/components/cli/cli/compose/schema/schema.go
Which is available under Apache v2 license: https://github.com/docker/docker-ce/blob/master/LICENSE
*/

func toError(document string, errors []gojsonschema.ResultError) error {
	parent, child := mostSpecific(errors)
	return &ValidationError{
		Document: document,
		Field:    parent.Field(),
		Detail:   description(parent, child),
	}
}

func description(parent, child gojsonschema.ResultError) string {
	switch parent.Type() {
	case "invalid_type":
		if expectedType, ok := parent.Details()["expected"].(string); ok {
			return fmt.Sprintf("must be a %s", humanReadableType(expectedType))
		}
	case jsonschemaOneOf, jsonschemaAnyOf:
		if child != nil {
			return child.Description()
		}
	}
	return parent.Description()
}

func humanReadableType(definition string) string {
	if definition[0:1] == "[" {
		allTypes := strings.Split(definition[1:len(definition)-1], ",")
		for i, t := range allTypes {
			allTypes[i] = humanReadableType(t)
		}
		return fmt.Sprintf(
			"%s or %s",
			strings.Join(allTypes[0:len(allTypes)-1], ", "),
			allTypes[len(allTypes)-1],
		)
	}
	switch definition {
	case "object":
		return "mapping"
	case "array":
		return "list"
	}
	return definition
}

func mostSpecific(errors []gojsonschema.ResultError) (parent, child gojsonschema.ResultError) {
	best := 0
	for i, err := range errors {
		if specificity(err) > specificity(errors[best]) {
			best = i
			continue
		}
		// Invalid type errors win in a tie-breaker for most specific field name
		if specificity(err) == specificity(errors[best]) &&
			err.Type() == "invalid_type" && errors[best].Type() != "invalid_type" {
			best = i
		}
	}

	if best+1 < len(errors) {
		switch errors[best].Type() {
		case jsonschemaOneOf, jsonschemaAnyOf:
			return errors[best], errors[best+1]
		}
	}
	return errors[best], nil
}

func specificity(err gojsonschema.ResultError) int {
	return len(strings.Split(err.Field(), "."))
}
