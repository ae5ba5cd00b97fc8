package rpc

import (
	"encoding/json"
	"testing"
)

func TestParseParams_DefaultsOnEmpty(t *testing.T) {
	got, err := ParseParams[ListTasksParams](nil)
	if err.Code != 0 {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got.Query != "" {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestParseParams_DefaultsOnNull(t *testing.T) {
	got, err := ParseParams[ListTasksParams](json.RawMessage("null"))
	if err.Code != 0 {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got.Query != "" {
		t.Fatalf("expected zero value, got %+v", got)
	}
}

func TestParseParams_Decodes(t *testing.T) {
	got, err := ParseParams[WriteTaskParams](json.RawMessage(`{"name":"Buy milk","state":"done","priority":2}`))
	if err.Code != 0 {
		t.Fatalf("unexpected error: %+v", err)
	}
	if got.Name != "Buy milk" || got.State != "done" || got.Priority != 2 {
		t.Fatalf("unexpected decode: %+v", got)
	}
}

func TestParseParams_InvalidJSON(t *testing.T) {
	_, err := ParseParams[ListTasksParams](json.RawMessage(`{`))
	if err.Code != CodeInvalidParams {
		t.Fatalf("expected CodeInvalidParams, got %+v", err)
	}
}

func TestResponseResultAndError(t *testing.T) {
	id := json.RawMessage(`1`)
	ok := ResponseResult(id, map[string]string{"status": "ok"})
	if ok.JSONRPC != "2.0" || ok.Error != nil {
		t.Fatalf("unexpected success response: %+v", ok)
	}

	bad := ResponseError(id, MethodNotFound("core.bogus"))
	if bad.Error == nil || bad.Error.Code != int(CodeMethodNotFound) {
		t.Fatalf("unexpected error response: %+v", bad)
	}
}
