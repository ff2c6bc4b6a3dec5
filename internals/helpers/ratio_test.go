package helper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatioOrFullCredit(t *testing.T) {
	// tanpa denominator = kredit penuh
	assert.Equal(t, float64(100), RatioOrFullCredit(0, 0))
	assert.Equal(t, float64(100), RatioOrFullCredit(5, 0))

	assert.Equal(t, float64(70), RatioOrFullCredit(7, 10))
	assert.Equal(t, float64(0), RatioOrFullCredit(0, 10))
	assert.Equal(t, 66.67, RatioOrFullCredit(2, 3))
	assert.Equal(t, float64(100), RatioOrFullCredit(3, 3))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 81.0, Round2(81.000001))
	assert.Equal(t, 74.99, Round2(74.994))
	assert.Equal(t, 75.0, Round2(74.996))
}
