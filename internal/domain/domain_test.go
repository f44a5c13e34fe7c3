package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSubtotal(t *testing.T) {
	assert.Equal(t, 0.0, Subtotal(nil))
	assert.Equal(t, 0.0, Subtotal([]CartLine{}))

	lines := []CartLine{
		{Quantity: 3, Product: Product{Price: 10}},
	}
	assert.Equal(t, 30.0, Subtotal(lines))

	lines = append(lines, CartLine{Quantity: 2, Product: Product{Price: 2.5}})
	assert.Equal(t, 35.0, Subtotal(lines))
}

func TestSessionFromClaims(t *testing.T) {
	sess := SessionFromClaims(Claims{
		SubjectID: 9,
		Name:      "Lando",
		Email:     "lando@cloudcity.io",
		IsAdmin:   true,
		ExpiresAt: 1700000000,
	})
	assert.Equal(t, int64(9), sess.SubjectID)
	assert.Equal(t, "Lando", sess.Name)
	assert.Equal(t, "lando@cloudcity.io", sess.Email)
	assert.True(t, sess.IsAdmin)
	assert.Equal(t, time.Unix(1700000000, 0), sess.ExpiresAt)
}
