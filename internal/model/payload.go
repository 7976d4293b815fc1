package model

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// payloadValidator checks presence and range of request fields. Rules that
// need trimming live in the setters so they also guard non-HTTP callers.
var payloadValidator = newPayloadValidator()

// newPayloadValidator reports fields by their JSON name (scientist_id,
// not ScientistID).
func newPayloadValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ------------------------------------------------------------

// ListPayload is bound by the list endpoints; they take no input.
type ListPayload struct{}

func (p *ListPayload) Validate() error {
	return nil
}

// ------------------------------------------------------------

// ScientistIDPayload carries the raw {id} path segment.
//
// The segment is kept as a string so a non-numeric id resolves to the
// "Scientist not found" response instead of a bind error.
type ScientistIDPayload struct {
	RawID string `param:"id" json:"-"`
}

func (p *ScientistIDPayload) Validate() error {
	return nil
}

// ID parses the path segment. ok is false for anything that cannot be a
// stored id.
func (p *ScientistIDPayload) ID() (int64, bool) {
	return parseID(p.RawID)
}

// ------------------------------------------------------------

type CreateScientistPayload struct {
	Name         *string `json:"name" validate:"required"`
	FieldOfStudy *string `json:"field_of_study" validate:"required"`
}

func (p *CreateScientistPayload) Validate() error {
	return payloadValidator.Struct(p)
}

// ------------------------------------------------------------

// UpdateScientistPayload binds only the {id} path segment of a PATCH. The
// body is decoded into ScientistChangesPayload once the scientist is
// known to exist, so an unknown id reports 404 whatever the body holds.
type UpdateScientistPayload struct {
	RawID string `param:"id" json:"-"`
}

func (p *UpdateScientistPayload) Validate() error {
	return nil
}

// BindsPathOnly keeps the body unread during request binding.
func (p *UpdateScientistPayload) BindsPathOnly() bool {
	return true
}

func (p *UpdateScientistPayload) ID() (int64, bool) {
	return parseID(p.RawID)
}

// Optional records whether a JSON key was present. A present null leaves
// Value at its zero value with Set true.
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// ScientistChangesPayload is the PATCH body. Absent keys are left as they
// are; present keys, null included, go through the setters.
type ScientistChangesPayload struct {
	Name         Optional[string] `json:"name"`
	FieldOfStudy Optional[string] `json:"field_of_study"`
}

func (p *ScientistChangesPayload) Validate() error {
	return nil
}

// ------------------------------------------------------------

type CreateMissionPayload struct {
	Name        *string `json:"name" validate:"required"`
	ScientistID *int64  `json:"scientist_id" validate:"required,gt=0"`
	PlanetID    *int64  `json:"planet_id" validate:"required,gt=0"`
}

func (p *CreateMissionPayload) Validate() error {
	return payloadValidator.Struct(p)
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
