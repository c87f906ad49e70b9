package jsoncodec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/drblury/schemarpc/wire"
)

func TestMarshalRequestShape(t *testing.T) {
	req := wire.Request{
		ID:     12,
		Method: "Page.navigate",
		Params: map[string]any{"url": "http://x"},
	}

	data, err := Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded["id"] != float64(12) {
		t.Fatalf("expected id 12, got %v", decoded["id"])
	}
	if decoded["method"] != "Page.navigate" {
		t.Fatalf("expected method Page.navigate, got %v", decoded["method"])
	}
	params, ok := decoded["params"].(map[string]any)
	if !ok || params["url"] != "http://x" {
		t.Fatalf("expected params with url, got %v", decoded["params"])
	}
}

func TestUnmarshalReplyVariants(t *testing.T) {
	var success wire.Reply
	if err := Unmarshal([]byte(`{"id":3,"result":{"frameId":"7"}}`), &success); err != nil {
		t.Fatalf("unmarshal success reply failed: %v", err)
	}
	if success.ID != 3 || success.Error != nil || success.Result["frameId"] != "7" {
		t.Fatalf("unexpected success reply: %+v", success)
	}

	var failure wire.Reply
	if err := Unmarshal([]byte(`{"id":3,"error":{"message":"bad url"}}`), &failure); err != nil {
		t.Fatalf("unmarshal error reply failed: %v", err)
	}
	if failure.Error == nil || failure.Error.Message != "bad url" {
		t.Fatalf("unexpected error reply: %+v", failure)
	}
}

func TestEncodeAndDecode(t *testing.T) {
	buf := &bytes.Buffer{}
	reply := wire.Reply{ID: 9, Result: map[string]any{"ok": true}}

	if err := Encode(buf, reply); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	var decoded wire.Reply
	if err := Decode(buf, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.ID != 9 || decoded.Result["ok"] != true {
		t.Fatalf("expected round trip to match, got %+v", decoded)
	}
}

func TestMarshalIndent(t *testing.T) {
	indented, err := MarshalIndent(wire.Request{ID: 1, Method: "Target.getTargets", Params: map[string]any{}}, "", "  ")
	if err != nil {
		t.Fatalf("marshal indent failed: %v", err)
	}
	if !strings.Contains(string(indented), "\n  \"id\"") {
		t.Fatalf("expected indented output, got %s", string(indented))
	}
}
