package gateway

import (
	"errors"
	"testing"

	"github.com/stripe/stripe-go/v76"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	err := classify(&stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."})
	var decline *DeclineError
	require.ErrorAs(t, err, &decline)
	assert.Equal(t, "Your card was declined.", decline.Message)

	err = classify(&stripe.Error{Type: stripe.ErrorTypeAPI, Msg: "upstream"})
	require.ErrorIs(t, err, ErrUnavailable)

	err = classify(errors.New("dial tcp: timeout"))
	require.ErrorIs(t, err, ErrUnavailable)
}
