//
// Copyright (c) 2024-2026 Tenebris Technologies Inc.
// Please see the LICENSE file for details
//

// Package null provides a Logger that discards everything. Library
// constructors fall back to it when no logger is supplied.
package null

import (
	"github.com/UnifyEM/uemauth/common/interfaces"
)

var _ interfaces.Logger = LoggerNull{}

type LoggerNull struct{}

func Logger() interfaces.Logger {
	return LoggerNull{}
}

func (LoggerNull) Debug(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Info(uint32, string, interfaces.Fields)    {}
func (LoggerNull) Warning(uint32, string, interfaces.Fields) {}
func (LoggerNull) Error(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Fatal(uint32, string, interfaces.Fields)   {}
func (LoggerNull) Debugf(uint32, string, ...any)             {}
func (LoggerNull) Infof(uint32, string, ...any)              {}
func (LoggerNull) Warningf(uint32, string, ...any)           {}
func (LoggerNull) Errorf(uint32, string, ...any)             {}
func (LoggerNull) Fatalf(uint32, string, ...any)             {}
