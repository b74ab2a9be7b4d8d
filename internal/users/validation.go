package users

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxSimilarity = 0.7

// commonPasswords is a short list of frequently leaked passwords rejected at signup.
var commonPasswords = map[string]struct{}{}

func init() {
	for _, pw := range strings.Fields(`
		password password1 password123 passw0rd 12345678 123456789 1234567890
		qwertyuiop qwerty123 1q2w3e4r 1qaz2wsx zaq12wsx abc12345 abcd1234
		iloveyou sunshine princess football baseball superman batman
		trustno1 letmein1 welcome1 welcome123 admin123 administrator
		monkey123 dragon123 starwars whatever computer internet michael1
		jennifer1 11111111 00000000 88888888 87654321 asdfghjkl
		qazwsxedc changeme secret123 master123 shadow123 p@ssw0rd
		football1 baseball1 mustang1 access14 charlie1 password!`) {
		commonPasswords[pw] = struct{}{}
	}
}

var nonWord = regexp.MustCompile(`\W+`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	err := v.RegisterValidation("password_policy", func(fl validator.FieldLevel) bool {
		return checkPassword(fl.Field().String(), userAttributes(fl.Parent())) == nil
	})
	if err != nil {
		panic(fmt.Sprintf("register password_policy: %v", err))
	}
	return v
}

// userAttributes collects the attributes a password must not resemble.
func userAttributes(parent reflect.Value) map[string]string {
	attrs := map[string]string{}
	if parent.Kind() == reflect.Pointer {
		parent = parent.Elem()
	}
	if parent.Kind() != reflect.Struct {
		return attrs
	}
	for field, label := range map[string]string{"Email": "email", "FirstName": "first name", "LastName": "last name"} {
		if f := parent.FieldByName(field); f.IsValid() && f.Kind() == reflect.String {
			attrs[label] = f.String()
		}
	}
	return attrs
}

// checkPassword applies the password strength policy.
func checkPassword(password string, attrs map[string]string) error {
	if password == "" {
		return nil
	}
	if isNumeric(password) {
		return errors.New("This password is entirely numeric.")
	}
	if _, ok := commonPasswords[strings.ToLower(password)]; ok {
		return errors.New("This password is too common.")
	}
	lower := strings.ToLower(password)
	for _, label := range []string{"email", "first name", "last name"} {
		value := strings.ToLower(strings.TrimSpace(attrs[label]))
		if value == "" {
			continue
		}
		parts := append([]string{value}, nonWord.Split(value, -1)...)
		for _, part := range parts {
			if len(part) < 3 {
				continue
			}
			if similarity(lower, part) >= maxSimilarity {
				return fmt.Errorf("The password is too similar to the %s.", label)
			}
		}
	}
	return nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// similarity is 2*M/T where M counts shared characters (as a multiset) and T is the combined length.
func similarity(a, b string) float64 {
	total := len([]rune(a)) + len([]rune(b))
	if total == 0 {
		return 0
	}
	avail := map[rune]int{}
	for _, r := range b {
		avail[r]++
	}
	matches := 0
	for _, r := range a {
		if avail[r] > 0 {
			avail[r]--
			matches++
		}
	}
	return 2 * float64(matches) / float64(total)
}

// fieldErrors flattens validator errors into one message per JSON field.
func fieldErrors(err error, req any) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"non_field_errors": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; seen {
			continue
		}
		out[fe.Field()] = messageFor(fe, req)
	}
	return out
}

func messageFor(fe validator.FieldError, req any) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "password_policy":
		if r, ok := req.(*SignupRequest); ok {
			if err := checkPassword(r.Password, userAttributes(reflect.ValueOf(r))); err != nil {
				return err.Error()
			}
		}
		return "This password is too weak."
	default:
		return "Invalid value."
	}
}
