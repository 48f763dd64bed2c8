/******************************************************************************
 * Copyright (c) 2024-2026 Tenebris Technologies Inc.                         *
 * Please see the LICENSE file for details                                    *
 ******************************************************************************/

// Package fields provides name/value pairs attached to log messages.
package fields

import (
	"fmt"
	"strings"

	"github.com/UnifyEM/uemauth/common/interfaces"
)

// redacted replaces secret values in log output
const redacted = "[redacted]"

type Fields struct {
	Fields []Field
}

type Field struct {
	K      string
	V      any
	secret bool
}

// Name returns the key of the field to implement the NVPair interface
func (f Field) Name() string {
	return f.K
}

// Value returns the value of the field to implement the NVPair interface.
// Secret fields never reveal their value.
func (f Field) Value() any {
	if f.secret {
		return redacted
	}
	return f.V
}

func NewFields(fields ...Field) *Fields {
	return &Fields{Fields: fields}
}

func (f *Fields) Append(fields ...Field) {
	f.Fields = append(f.Fields, fields...)
}

func (f *Fields) AppendKV(key string, value any) {
	f.Fields = append(f.Fields, Field{K: key, V: value})
}

func NewField(key string, value any) Field {
	return Field{K: key, V: value}
}

// NewSecretField records that a value was present without logging it.
// An empty value is logged as empty so that "missing" stays visible.
func NewSecretField(key string, value string) Field {
	return Field{K: key, V: value, secret: value != ""}
}

// ToText converts the Fields to a string
func (f *Fields) ToText() string {
	if f == nil || len(f.Fields) == 0 {
		return ""
	}

	parts := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		parts = append(parts, fmt.Sprintf("%s=%v", field.K, field.Value()))
	}
	return strings.Join(parts, " ")
}

// ToPairs implements the ToPairs method
func (f *Fields) ToPairs() []interfaces.NVPair {
	if f == nil {
		return nil
	}
	pairs := make([]interfaces.NVPair, len(f.Fields))
	for i, field := range f.Fields {
		pairs[i] = field
	}
	return pairs
}
