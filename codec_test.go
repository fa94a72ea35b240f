// SPDX-FileCopyrightText: Copyright 2021 The Go Language Server Authors
// SPDX-License-Identifier: BSD-3-Clause

package jsonrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Grounded on original_source/tests/test_jsonrpc.py's TestEncodeRequest.
func TestEncodeRequestOmitsVersionByDefault(t *testing.T) {
	id := NewNumberID(1)

	body, err := EncodeRequest("echo", []interface{}{"ab"}, &id, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"echo","id":1,"params":["ab"]}`, string(body))
}

func TestEncodeRequestVersion2EmitsTag(t *testing.T) {
	id := NewStringID("abcd")

	body, err := EncodeRequest("echo", map[string]interface{}{"data": "arg"}, &id, 2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"echo","id":"abcd","params":{"data":"arg"},"jsonrpc":"2.0"}`, string(body))
}

func TestEncodeRequestVersion1DotZeroOmitsTag(t *testing.T) {
	id := NewNumberID(1)

	body, err := EncodeRequest("echo", nil, &id, "1.0")
	require.NoError(t, err)
	assert.JSONEq(t, `{"method":"echo","id":1}`, string(body))
}

func TestEncodeRequestRejectsEmptyMethod(t *testing.T) {
	_, err := EncodeRequest("", nil, nil, nil)
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, InvalidRequest, jerr.Code)
}

// Grounded on TestDecodeRequest.
func TestDecodeRequestParsesFields(t *testing.T) {
	env, err := DecodeRequest([]byte(`{"method":"echo","id":1,"params":["ab"]}`))
	require.NoError(t, err)
	assert.Equal(t, "echo", env.Method)
	assert.Equal(t, ParamsPositional, env.ParamsKind)
	assert.True(t, env.idPresent)
	assert.Equal(t, V1, env.Version)
}

func TestDecodeRequestEmptyBodyIsParseError(t *testing.T) {
	_, err := DecodeRequest([]byte(``))
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ParseError, jerr.Code)
}

func TestDecodeRequestMalformedJSONIsParseError(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"method": "sql", "id`))
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, ParseError, jerr.Code)
}

func TestDecodeRequestBareIntVersionIsToleratedByDecodeButNotValidate(t *testing.T) {
	env, err := DecodeRequest([]byte(`{"method":"echo","id":1,"jsonrpc":2}`))
	require.NoError(t, err)
	assert.True(t, env.versionBareInt)

	verr := VerifyMethodCall(env)
	require.NotNil(t, verr)
	assert.Equal(t, InvalidRequest, verr.Code)
}

func TestDecodeRequestFloatVersionIsRecognized(t *testing.T) {
	env, err := DecodeRequest([]byte(`{"method":"echo","id":1,"jsonrpc":2.0}`))
	require.NoError(t, err)
	assert.False(t, env.versionBareInt)

	verr := VerifyMethodCall(env)
	assert.Nil(t, verr)
}

// Grounded on TestPrepareMethodResponse.
func TestPrepareMethodResponseNotificationYieldsNothing(t *testing.T) {
	resp, err := PrepareMethodResponse("ab", nil, NoID(), V1)
	require.NoError(t, err)
	assert.Nil(t, resp)
}

func TestPrepareMethodResponseV1Success(t *testing.T) {
	id := NewNumberID(1)

	resp, err := PrepareMethodResponse("ab", nil, id, V1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"error":null,"id":1,"result":"ab"}`, string(resp))
}

func TestPrepareMethodResponseV2Success(t *testing.T) {
	id := NewStringID("abcd")

	resp, err := PrepareMethodResponse("arg", nil, id, V2)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"abcd","result":"arg"}`, string(resp))
}

func TestPrepareMethodResponsePreservesJSONRPCErrorCode(t *testing.T) {
	id := NewStringID("ABCD")

	resp, err := PrepareMethodResponse(nil, Errorf(MethodNotFound, "Method ECHO not found"), id, V1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":null,"id":"ABCD","error":{"message":"Method ECHO not found","code":-32601}}`, string(resp))
}

func TestPrepareMethodResponseGenericErrorBecomesInternal(t *testing.T) {
	id := NewNumberID(1)

	resp, err := PrepareMethodResponse(nil, assertionError{}, id, V1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"result":null,"id":1,"error":{"message":"Internal error","code":-32603}}`, string(resp))
}

type assertionError struct{}

func (assertionError) Error() string { return "boom" }

// Grounded on TestDecodeResponse.
func TestDecodeResponseSuccess(t *testing.T) {
	result, err := DecodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"result":"ab"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"ab"`, string(result))
}

func TestDecodeResponseErrorAndResultIsInvalid(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"result":"ab","error":{"message":"x","code":-32000}}`))
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, InvalidRequest, jerr.Code)
}

func TestDecodeResponseNeitherResultNorErrorIsInvalid(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"jsonrpc":"2.0","id":1}`))
	require.Error(t, err)
}

func TestDecodeResponseException(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"jsonrpc":"2.0","id":1,"error":{"message":"boom","code":-32603}}`))
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, InternalError, jerr.Code)
	assert.Equal(t, "boom", jerr.Message)
	assert.Equal(t, V2, jerr.Version)
}

// Grounded on test_jsonrpc.py::test_onlyErrorExceptionDetails, which asserts
// the raised error's version matches the response it came from.
func TestDecodeResponseExceptionCarriesV1Version(t *testing.T) {
	_, err := DecodeResponse([]byte(`{"id":1,"result":null,"error":{"message":"boom","code":-32603}}`))
	require.Error(t, err)

	jerr, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, V1, jerr.Version)
}

func TestPrepareParseErrorIsAlwaysV2NullID(t *testing.T) {
	resp := PrepareParseError()
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"message":"Parse error","code":-32700}}`, string(resp))
}
