package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBRL(t *testing.T) {
	assert.Equal(t, "R$ 11.136,00", BRL(11136))
	assert.Equal(t, "R$ 762,00", BRL(762))
	assert.Equal(t, "R$ 1.234.567,89", BRL(1234567.89))
	assert.Equal(t, "R$ -50,50", BRL(-50.5))
}

func TestNumber(t *testing.T) {
	assert.Equal(t, "4,55", Number(4.545, 2))
	assert.Equal(t, "600", Number(600, 0))
	assert.Equal(t, "30,8", Number(30.8, 1))
}
