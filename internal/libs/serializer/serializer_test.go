package serializer

import (
	"errors"
	"testing"

	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/dodkit/internal/sentinel"
)

type payload struct {
	Name   string
	Values []float64
}

func TestRegistry_DefaultSerializersRoundTrip(t *testing.T) {
	in := payload{Name: "latency", Values: []float64{1.5, 2, 3.25}}

	for _, name := range []string{"json", "msgpack", "cbor"} {
		ser, err := New(name)
		assert.Nil(t, err)

		data, err := ser.Marshal(in)
		assert.Nil(t, err)

		var out payload

		err = ser.Unmarshal(data, &out)
		assert.Nil(t, err)
		assert.Equal(t, in, out)
		assert.True(t, ser.ContentType() != "")
	}
}

func TestRegistry_Errors(t *testing.T) {
	_, err := New("")
	if !errors.Is(err, sentinel.ErrParamCannotBeEmpty) {
		t.Fatalf("expected ErrParamCannotBeEmpty, got %v", err)
	}

	_, err = New("yaml")
	if !errors.Is(err, sentinel.ErrSerializerNotFound) {
		t.Fatalf("expected ErrSerializerNotFound, got %v", err)
	}

	registry := NewEmptySerializerRegistry()

	_, err = registry.New("json")
	if !errors.Is(err, sentinel.ErrSerializerNotFound) {
		t.Fatalf("expected empty registry to miss json, got %v", err)
	}

	registry.Register("json", func() ISerializer { return &JSONSerializer{} })

	ser, err := registry.New("json")
	assert.Nil(t, err)
	assert.Equal(t, "application/json", ser.ContentType())
}
