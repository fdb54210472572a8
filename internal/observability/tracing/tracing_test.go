package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func TestSafeAttributes(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/cities/:language"),
		attribute.String("http.url", "/api/cities/en?q=secret"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeError(t *testing.T) {
	assert.Nil(t, SafeError(nil))
	assert.Equal(t, "*errors.errorString", SafeError(errors.New("row 3: Bogota")).Error())
}

func TestNewProvider_Disabled(t *testing.T) {
	tp, err := NewProvider(nil, Config{ServiceName: "geodata"}, zap.NewNop())
	assert.NoError(t, err)
	assert.NotNil(t, tp)
}

func TestNewExporter_UnknownProtocol(t *testing.T) {
	_, err := newExporter("carrier-pigeon", "")
	assert.Error(t, err)
}
