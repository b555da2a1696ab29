package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordAndQuoted(t *testing.T) {
	assert.Equal(t, "__kw_if", Keyword("if"))
	assert.Equal(t, `__quoted_by_"`, Quoted(`"`))
}

func TestTokenStringTruncatesLongLiterals(t *testing.T) {
	tok := Token{Type: Integer, Literal: "123", SourceName: "test", Line: 1, Column: 1}
	assert.Equal(t, `test:1:1 integer "123"`, tok.String())

	long := Token{Type: "x", Literal: string(make([]byte, 50))}
	assert.Contains(t, long.String(), "...")
}
