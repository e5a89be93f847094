// Admissions - Clinical Admission Reporting API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/admissions

package api

import (
	"errors"
	"reflect"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/admissions/internal/models"
	"github.com/tomtom215/admissions/internal/validation"
)

// CreateAdmissionRequest is the body of POST /api/data/add/.
//
// Every field is a pointer so a missing key fails "required" while an
// explicit false or 0 passes. Strings must be non-empty and fit their
// column. Values are stored as sent, without case normalization.
type CreateAdmissionRequest struct {
	AdmissionDate  *string `json:"admission_date" validate:"required,datetime=2006-01-02"`
	Race           *string `json:"race" validate:"required,min=1,max=20"`
	Sex            *string `json:"sex" validate:"required,min=1,max=10"`
	AgeGroup       *string `json:"age_group" validate:"required,min=1,max=20"`
	HospitalStay   *int    `json:"hospital_stay" validate:"required,gte=0"`
	HbA1c          *string `json:"hba1c" validate:"required,min=1,max=20"`
	DiabetesMed    *bool   `json:"diabetes_med" validate:"required"`
	AdmitSource    *string `json:"admit_source" validate:"required,min=1,max=20"`
	PatientVisits  *int    `json:"patient_visits" validate:"required,gte=0"`
	NumMedications *int    `json:"num_medications" validate:"required,gte=0"`
	NumDiagnosis   *int    `json:"num_diagnosis" validate:"required,gte=0"`
	InsulinLevel   *string `json:"insulin_level" validate:"required,min=1,max=20"`
	Readmitted     *bool   `json:"readmitted" validate:"required"`
}

// validateRequest runs the struct tags and returns the API error body, or
// nil when the request is valid.
func validateRequest(v any) *validation.APIError {
	if err := validation.ValidateStruct(v); err != nil {
		return err.ToAPIError()
	}
	return nil
}

// toAdmission converts a validated request. The date has already passed
// the datetime tag.
func (req *CreateAdmissionRequest) toAdmission() (models.Admission, error) {
	date, err := models.ParseDate(*req.AdmissionDate)
	if err != nil {
		return models.Admission{}, err
	}
	return models.Admission{
		AdmissionDate:  date,
		Race:           *req.Race,
		Sex:            *req.Sex,
		AgeGroup:       *req.AgeGroup,
		HospitalStay:   *req.HospitalStay,
		HbA1c:          *req.HbA1c,
		DiabetesMed:    *req.DiabetesMed,
		AdmitSource:    *req.AdmitSource,
		PatientVisits:  *req.PatientVisits,
		NumMedications: *req.NumMedications,
		NumDiagnosis:   *req.NumDiagnosis,
		InsulinLevel:   *req.InsulinLevel,
		Readmitted:     *req.Readmitted,
	}, nil
}

// fieldTypeErrors names the fields of a create body whose JSON type does
// not fit, one entry per field. It returns nil when the body is not a JSON
// object, so the caller falls back to the generic message.
func fieldTypeErrors(body []byte, decodeErr error) *validation.RequestValidationError {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil
	}

	var verr *validation.RequestValidationError
	add := func(name string, typ reflect.Type) {
		msg := name + " must be " + typeLabel(typ)
		if verr == nil {
			verr = validation.NewFieldError(name, msg)
			return
		}
		verr.AddFieldError(name, msg)
	}

	typ := reflect.TypeOf(CreateAdmissionRequest{})
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name := jsonName(field)
		value, ok := raw[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(value, reflect.New(field.Type).Interface()); err != nil {
			add(name, field.Type)
		}
	}

	// The decoder reports the Go field name.
	var typeErr *json.UnmarshalTypeError
	if verr == nil && errors.As(decodeErr, &typeErr) {
		if field, ok := typ.FieldByName(typeErr.Field); ok {
			add(jsonName(field), field.Type)
		}
	}
	return verr
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" {
		return field.Name
	}
	return name
}

func typeLabel(typ reflect.Type) string {
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	switch typ.Kind() {
	case reflect.Int, reflect.Int64:
		return "an integer"
	case reflect.Bool:
		return "true or false"
	default:
		return "a string"
	}
}
