package instrument

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := SetCorrelationID(context.Background(), "abc-123")

	assert.Equal(t, "abc-123", GetCorrelationID(ctx))
}

func TestCorrelationIDAbsent(t *testing.T) {
	assert.Empty(t, GetCorrelationID(context.Background()))
}
