package apperr

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTaxonomyMatchesThroughWrapping(t *testing.T) {
	err := pkgerrors.Wrap(Validation("quantity required"), "create order")
	assert.True(t, IsValidation(err))
	assert.False(t, IsNotFound(err))

	err = pkgerrors.Wrap(NotFound("order", "abc"), "lookup")
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "order with id abc not found")

	err = Upstream("cart-service", "http://cart/shop1/cart/b1", assert.AnError)
	assert.True(t, IsUpstream(err))
	assert.Contains(t, err.Error(), "cart-service")
	assert.Contains(t, err.Error(), "http://cart/shop1/cart/b1")

	err = Connection("shop1", assert.AnError)
	assert.True(t, IsConnection(err))
	assert.False(t, IsUpstream(err))
}
