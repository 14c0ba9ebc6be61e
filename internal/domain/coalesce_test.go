package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoalesceStr(t *testing.T) {
	assert.Equal(t, "JD", CoalesceStr("", "  ", " JD ", "AB"))
	assert.Equal(t, "", CoalesceStr())
	assert.Equal(t, "", CoalesceStr(" ", "\t"))
}

func TestValueOr(t *testing.T) {
	points := 0
	assert.Equal(t, 0, ValueOr(&points, 8), "explicit zero wins over fallback")
	assert.Equal(t, 8, ValueOr[int](nil, 8))
	assert.True(t, ValueOr[bool](nil, true))
	assert.Equal(t, "", ValueOr(new(string), "x"))
}
