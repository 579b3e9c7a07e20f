package kafka

import (
	"encoding/json"
	"testing"
)

func TestEncode(t *testing.T) {
	msg, err := encode(Event{
		Key:     "build-1",
		Value:   map[string]int{"size": 3},
		Headers: map[string]string{"event": "vocabulary.built"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if string(msg.Key) != "build-1" {
		t.Errorf("key = %s", msg.Key)
	}
	var v map[string]int
	if err := json.Unmarshal(msg.Value, &v); err != nil || v["size"] != 3 {
		t.Errorf("value = %s (%v)", msg.Value, err)
	}
	if len(msg.Headers) != 1 || msg.Headers[0].Key != "event" {
		t.Errorf("headers = %+v", msg.Headers)
	}
}

func TestEncodeUnmarshalable(t *testing.T) {
	if _, err := encode(Event{Key: "k", Value: make(chan int)}); err == nil {
		t.Fatal("expected marshal error")
	}
}
