package server

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

func compileValidator(raw []byte) (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
}

func validateArguments(v *gojsonschema.Schema, args map[string]interface{}) error {
	result, err := v.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return fmt.Errorf("validating arguments: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("invalid arguments: %s", strings.Join(msgs, "; "))
}
