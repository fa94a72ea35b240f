// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDispatchMethodNotFound(t *testing.T) {
	env, err := DecodeRequest([]byte(`{"method":"missing","id":1}`))
	require.NoError(t, err)

	_, derr := Dispatch(context.Background(), env, NewRegistry(), zap.NewNop())
	require.Error(t, derr)

	jerr, ok := AsError(derr)
	require.True(t, ok)
	assert.Equal(t, MethodNotFound, jerr.Code)
	assert.Equal(t, "Method missing not found", jerr.Message)
}

func TestDispatchHandlerJSONRPCErrorPropagatesCode(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", ParamSpec{}, func(_ context.Context, _ []json.RawMessage) (interface{}, error) {
		return nil, Errorf(InvalidParams, "nope")
	})

	env, err := DecodeRequest([]byte(`{"method":"boom","id":1}`))
	require.NoError(t, err)

	_, derr := Dispatch(context.Background(), env, r, zap.NewNop())
	jerr, ok := AsError(derr)
	require.True(t, ok)
	assert.Equal(t, InvalidParams, jerr.Code)
}

func TestDispatchHandlerGenericErrorBecomesInternal(t *testing.T) {
	r := NewRegistry()
	r.Register("boom", ParamSpec{}, func(_ context.Context, _ []json.RawMessage) (interface{}, error) {
		return nil, assertionError{}
	})

	env, err := DecodeRequest([]byte(`{"method":"boom","id":1}`))
	require.NoError(t, err)

	val, derr := Dispatch(context.Background(), env, r, zap.NewNop())
	assert.Nil(t, val)
	require.Error(t, derr)

	resp, encErr := PrepareMethodResponse(val, derr, env.ID, env.Version)
	require.NoError(t, encErr)
	assert.JSONEq(t, `{"error":{"message":"Internal error","code":-32603},"id":1,"result":null}`, string(resp))
}

func TestDispatchBindsPositionalArguments(t *testing.T) {
	r := NewRegistry()

	var seen []json.RawMessage

	r.Register("sum", ParamSpec{Names: []string{"a", "b"}, Required: 2}, func(_ context.Context, args []json.RawMessage) (interface{}, error) {
		seen = args

		return "ok", nil
	})

	env, err := DecodeRequest([]byte(`{"method":"sum","id":1,"params":[1,2]}`))
	require.NoError(t, err)

	val, derr := Dispatch(context.Background(), env, r, zap.NewNop())
	require.NoError(t, derr)
	assert.Equal(t, "ok", val)
	require.Len(t, seen, 2)
	assert.JSONEq(t, "1", string(seen[0]))
	assert.JSONEq(t, "2", string(seen[1]))
}
