// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Reunite Contributors

// Package errors defines the machine-readable error taxonomy for the
// matching engine. Codes are dotted paths whose last segment carries the
// failure reason; callers classify errors with the Is* predicates rather
// than by matching message text.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/samber/oops"
)

// Code is the machine-readable identifier for an error.
type Code string

const (
	CodeVectorDimensionMismatch Code = "vector.dimension.mismatch"
	CodeVectorComponentInvalid  Code = "vector.component.invalid_value"
	CodeVectorNotFound          Code = "store.vector.get.not_found"

	CodeThresholdInvalid    Code = "search.threshold.invalid_value"
	CodeSimilarityUndefined Code = "search.similarity.undefined"

	CodeCaseNotFound         Code = "store.case.get.not_found"
	CodeNotificationNotFound Code = "store.notification.get.not_found"

	CodeStoreUnavailable        Code = "store.database.unavailable"
	CodeStoreDatabaseFailure    Code = "store.database.failure"
	CodeStoreInvalidInput       Code = "store.invalid_input"
	CodeStoreBackendUnsupported Code = "store.backend.unsupported"

	CodeConfigLoadReadFailure      Code = "config.load.read.failure"
	CodeConfigValidateInvalidValue Code = "config.validate.invalid_value"

	CodeEngineInternalFailure Code = "engine.internal.failure"
)

// Attr is a structured key/value context attached to an error.
type Attr struct {
	Key   string
	Value any
}

// Field creates a structured error field.
func Field(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

func FieldCaseID(value int64) Attr {
	return Field("case_id", value)
}

func FieldUserID(value int64) Attr {
	return Field("user_id", value)
}

func FieldNotificationID(value int64) Attr {
	return Field("notification_id", value)
}

func FieldDimension(value int) Attr {
	return Field("dimension", value)
}

func New(code Code, msg string, fields ...Attr) error {
	return oops.Code(code).With(flatten(fields)...).New(msg)
}

func Errorf(code Code, format string, args ...any) error {
	return oops.Code(code).Errorf(format, args...)
}

func Wrap(err error, code Code, msg string, fields ...Attr) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).With(flatten(fields)...).Wrapf(err, "%s", msg)
}

func Wrapf(err error, code Code, format string, args ...any) error {
	if err == nil {
		return nil
	}

	return oops.Code(code).Wrapf(err, format, args...)
}

// With adds structured fields to an existing error chain.
func With(err error, fields ...Attr) error {
	if err == nil {
		return nil
	}

	code := CodeOf(err)
	if code == "" {
		code = CodeEngineInternalFailure
	}

	return oops.Code(code).With(flatten(fields)...).Wrap(err)
}

func CodeOf(err error) Code {
	if err == nil {
		return ""
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return ""
	}

	if code, ok := oopsErr.Code().(Code); ok {
		return code
	}

	if code, ok := oopsErr.Code().(string); ok {
		return Code(code)
	}

	return Code(fmt.Sprintf("%v", oopsErr.Code()))
}

func FieldsOf(err error) map[string]any {
	if err == nil {
		return nil
	}

	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return nil
	}

	return oopsErr.Context()
}

func HasCode(err error, code Code) bool {
	if err == nil {
		return false
	}
	return CodeOf(err) == code
}

func IsNotFound(err error) bool {
	return reason(CodeOf(err)) == "not_found"
}

// IsDimensionMismatch reports whether the error rejects a vector whose
// length differs from the configured dimension D.
func IsDimensionMismatch(err error) bool {
	return HasCode(err, CodeVectorDimensionMismatch)
}

func IsInvalidInput(err error) bool {
	r := reason(CodeOf(err))
	return r == "invalid" || r == "invalid_input" || r == "invalid_value" || r == "invalid_format" || r == "mismatch"
}

func IsUnavailable(err error) bool {
	return reason(CodeOf(err)) == "unavailable"
}

// IsSimilarityUndefined reports whether a single cosine comparison was
// undefined (zero-norm operand). Search skips such comparisons; the code
// only surfaces from the math layer and tests.
func IsSimilarityUndefined(err error) bool {
	return reason(CodeOf(err)) == "undefined"
}

// HTTPStatus maps an engine error to the status the excluded web layer
// should respond with.
func HTTPStatus(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsInvalidInput(err):
		return http.StatusBadRequest
	case IsUnavailable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func Join(errs ...error) error {
	return oops.Code(CodeEngineInternalFailure).Wrap(stderrors.Join(errs...))
}

func flatten(fields []Attr) []any {
	pairs := make([]any, 0, len(fields)*2)
	for _, field := range fields {
		if field.Key == "" {
			continue
		}
		pairs = append(pairs, field.Key, field.Value)
	}
	return pairs
}

func reason(code Code) string {
	if code == "" {
		return ""
	}

	raw := string(code)
	idx := strings.LastIndex(raw, ".")
	if idx == -1 || idx == len(raw)-1 {
		return raw
	}
	return raw[idx+1:]
}
