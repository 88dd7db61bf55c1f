package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// a stored or original file reference: an opaque name, no path traversal
	fileRefValidRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9 +\-_.()]*$`)

	// OBD-II trouble codes such as P0420 or U1234
	dtcCodeValidRegex = regexp.MustCompile(`^[PCBU][0-9A-F]{4}$`)
)

func fileRefValidator(fl validator.FieldLevel) bool {
	val, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}

	if strings.Contains(val, "..") {
		return false
	}

	return fileRefValidRegex.MatchString(val)
}

func dtcCodesValidator(fl validator.FieldLevel) bool {
	codes, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}

	for _, code := range codes {
		if !dtcCodeValidRegex.MatchString(strings.ToUpper(code)) {
			return false
		}
	}
	return true
}
