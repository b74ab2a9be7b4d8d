package resumes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"
)

// contentSchema only pins the top level: content is an open document.
const contentSchema = `{"type": "object"}`

var contentSchemaLoader = gojsonschema.NewStringLoader(contentSchema)

// Input is the writable subset of a resume. Nil fields were not sent.
// id, user, score, created_at and updated_at are never read from clients.
type Input struct {
	Title    *string        `json:"title" validate:"omitempty,max=255"`
	Template *string        `json:"template" validate:"omitempty,max=100"`
	Status   *string        `json:"status" validate:"omitempty,oneof=draft completed"`
	Content  map[string]any `json:"-"`
	// HasContent records that content was sent, even as {}.
	HasContent bool `json:"-"`
}

// ValidationError carries one message per offending request field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+": "+v)
	}
	return "invalid resume: " + strings.Join(parts, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeInput parses a request body. Unknown and read-only keys are ignored.
func DecodeInput(body []byte) (Input, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return Input{}, &ValidationError{Fields: map[string]string{"non_field_errors": "Invalid data. Expected a dictionary."}}
	}

	var in Input
	fields := map[string]string{}
	for key, dst := range map[string]**string{"title": &in.Title, "template": &in.Template, "status": &in.Status} {
		msg, ok := raw[key]
		if !ok {
			continue
		}
		if isNull(msg) {
			fields[key] = "This field may not be null."
			continue
		}
		var s string
		if err := json.Unmarshal(msg, &s); err != nil {
			fields[key] = "Not a valid string."
			continue
		}
		s = strings.TrimSpace(s)
		*dst = &s
	}

	if msg, ok := raw["content"]; ok {
		in.HasContent = true
		content, errMsg := decodeContentField(msg)
		if errMsg != "" {
			fields["content"] = errMsg
		}
		in.Content = content
	}

	if len(fields) > 0 {
		return Input{}, &ValidationError{Fields: fields}
	}
	return in, nil
}

func decodeContentField(msg json.RawMessage) (map[string]any, string) {
	if isNull(msg) {
		return nil, "This field may not be null."
	}
	res, err := gojsonschema.Validate(contentSchemaLoader, gojsonschema.NewBytesLoader(msg))
	if err != nil {
		return nil, "Value must be valid JSON."
	}
	if !res.Valid() {
		return nil, "Value must be a JSON object."
	}
	content, err := DecodeContent(msg)
	if err != nil {
		return nil, "Value must be valid JSON."
	}
	return content, ""
}

// Validate checks field constraints. Full writes (create, PUT) require a title.
func (in Input) Validate(partial bool) error {
	fields := map[string]string{}
	if err := validate.Struct(in); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields[fe.Field()] = in.message(fe)
			}
		} else {
			return err
		}
	}
	if !partial && in.Title == nil {
		fields["title"] = "This field is required."
	}
	for key, val := range map[string]*string{"title": in.Title, "template": in.Template} {
		if val != nil && *val == "" {
			fields[key] = "This field may not be blank."
		}
	}
	if in.Status != nil && !Status(*in.Status).Valid() {
		fields["status"] = fmt.Sprintf("%q is not a valid choice.", *in.Status)
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func (in Input) message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "oneof":
		if in.Status != nil {
			return fmt.Sprintf("%q is not a valid choice.", *in.Status)
		}
		return "Not a valid choice."
	default:
		return "Invalid value."
	}
}

func isNull(msg json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(msg), []byte("null"))
}

// DecodeContent parses a stored content document, keeping numbers exact.
func DecodeContent(raw []byte) (map[string]any, error) {
	content := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return content, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&content); err != nil {
		return nil, err
	}
	if content == nil {
		content = map[string]any{}
	}
	return content, nil
}

// EncodeContent serializes content for storage.
func EncodeContent(content map[string]any) ([]byte, error) {
	if content == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(content)
}

// cloneContent deep-copies content so callers never share maps.
func cloneContent(content map[string]any) map[string]any {
	raw, err := EncodeContent(content)
	if err != nil {
		return map[string]any{}
	}
	out, err := DecodeContent(raw)
	if err != nil {
		return map[string]any{}
	}
	return out
}
