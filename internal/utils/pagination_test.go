package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageDefaults(t *testing.T) {
	p := ParsePage("", "")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
	assert.Equal(t, 0, p.Offset())
}

func TestParsePageMalformed(t *testing.T) {
	p := ParsePage("abc", "-5")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)

	p = ParsePage("0", "0")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
}

func TestParsePageClampsLimit(t *testing.T) {
	p := ParsePage("3", "500")
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPageSize, p.Limit)
	assert.Equal(t, 2*MaxPageSize, p.Offset())
}

func TestParsePageValid(t *testing.T) {
	p := ParsePage("2", "10")
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 10, p.Offset())
}
