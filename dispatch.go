// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Dispatch invokes the handler registered for env.Method, waits for its
// Future (and for a *Future the handler returns as its value), and
// returns an envelope-ready (value, error) pair. A handler panic is
// recovered on the handler's goroutine and returned as a plain error,
// which the response encoder reports as INTERNAL_ERROR.
func Dispatch(ctx context.Context, env *Envelope, registry *Registry, log *zap.Logger) (interface{}, error) {
	method, ok := registry.Lookup(env.Method)
	if !ok {
		log.Debug("method not found", zap.String("method", env.Method))

		return nil, Errorf(MethodNotFound, "Method %s not found", env.Method)
	}

	params, err := DecodeParams(env.ParamsKind, env.Params)
	if err != nil {
		return nil, err
	}

	args, bindErr := method.Spec.Bind(params)
	if bindErr != nil {
		log.Debug("argument binding failed",
			zap.String("method", env.Method),
			zap.String("reason", bindErr.Message),
		)

		return nil, bindErr
	}

	future := Async(func() (val interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				val, err = nil, fmt.Errorf("handler panicked: %v", r)
			}
		}()

		return method.Handler(ctx, args)
	})

	val, handlerErr := future.Wait(ctx)
	if inner, ok := val.(*Future); ok && handlerErr == nil {
		val, handlerErr = inner.Wait(ctx)
	}

	if handlerErr != nil {
		if _, ok := AsError(handlerErr); !ok {
			log.Error("handler failed",
				zap.String("method", env.Method),
				zap.Error(handlerErr),
			)
		}

		return nil, handlerErr
	}

	return val, nil
}
