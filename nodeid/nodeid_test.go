package nodeid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestID_String(t *testing.T) {
	assert.Equal(t, "#0", ID(0).String())
	assert.Equal(t, "#42", ID(42).String())
}

func TestKey_IsOpaqueString(t *testing.T) {
	k := Key("content/posts/hello.md")
	assert.Equal(t, "content/posts/hello.md", string(k))
}
