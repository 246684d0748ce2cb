/*
 * Copyright 2024 The Factory Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package logging provides the zap-backed types.Logger the rest of the
// factory stack was built assuming would exist (the teacher's own
// types.Config referenced a Logger/DefaultLogger() pair that never shipped
// in the retrieved sources).
package logging

import (
	"go.uber.org/zap"

	"github.com/wireway/factory/types"
)

// zapLogger adapts *zap.SugaredLogger to types.Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap wraps an existing *zap.Logger.
func NewZap(l *zap.Logger) types.Logger {
	return &zapLogger{sugar: l.Sugar()}
}

// Default returns a production zap.Logger wrapped as a types.Logger,
// falling back to zap's NewNop on construction failure so callers never
// have to handle a logging setup error.
func Default() types.Logger {
	l, err := zap.NewProduction()
	if err != nil {
		l = zap.NewNop()
	}
	return NewZap(l)
}

func (z *zapLogger) Debugf(format string, args ...any) { z.sugar.Debugf(format, args...) }
func (z *zapLogger) Infof(format string, args ...any)  { z.sugar.Infof(format, args...) }
func (z *zapLogger) Warnf(format string, args ...any)  { z.sugar.Warnf(format, args...) }
func (z *zapLogger) Errorf(format string, args ...any) { z.sugar.Errorf(format, args...) }
