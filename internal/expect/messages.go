package expect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer is a default English printer for localized engine messages.
var printer = message.NewPrinter(language.English)

// validationMessages extracts human-readable messages from a schema
// engine error, deduplicated per instance path.
func validationMessages(err error) []string {
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{err.Error()}
	}

	byPath := make(map[string][]string)
	var order []string
	collectMessages(validationErr, byPath, &order)

	var result []string
	for _, path := range order {
		seen := make(map[string]bool)
		for _, msg := range byPath[path] {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	return result
}

// collectMessages gathers leaf errors; schema-reference chatter is
// dropped.
func collectMessages(err *jsonschema.ValidationError, byPath map[string][]string, order *[]string) {
	path := ""
	if len(err.InstanceLocation) > 0 {
		path = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		msg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(msg, "$ref ") && !strings.HasPrefix(msg, "doesn't validate with") {
			if _, ok := byPath[path]; !ok {
				*order = append(*order, path)
			}
			byPath[path] = append(byPath[path], msg)
		}
	}

	for _, cause := range err.Causes {
		collectMessages(cause, byPath, order)
	}
}
