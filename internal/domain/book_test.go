package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverURL(t *testing.T) {
	assert.Equal(t,
		"https://covers.openlibrary.org/b/isbn/9780441013593-L.jpg",
		CoverURL("9780441013593", ""))
	assert.Equal(t,
		"https://covers.openlibrary.org/b/isbn/0306406152-S.jpg",
		CoverURL("0306406152", CoverSmall))
}
