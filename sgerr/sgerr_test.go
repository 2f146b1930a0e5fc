package sgerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphError_Error(t *testing.T) {
	err := &GraphError{Kind: Cycle, Nodes: []string{"a", "b"}}
	assert.Contains(t, err.Error(), "cycle")
	assert.Contains(t, err.Error(), "a")

	err2 := &GraphError{Kind: UnknownNode, Node: "x"}
	assert.Contains(t, err2.Error(), "unknown node")
	assert.Contains(t, err2.Error(), "x")
}

func TestLoaderError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := &LoaderError{Kind: ReadFailed, Path: "a.md", Err: cause}
	assert.Contains(t, err.Error(), "a.md")
	assert.ErrorIs(t, err, cause)
}

func TestTaskError_IncludesKeyWhenPresent(t *testing.T) {
	cause := errors.New("boom")
	withKey := &TaskError{Node: "render", Key: "a.md", Err: cause}
	assert.Contains(t, withKey.Error(), "a.md")
	assert.ErrorIs(t, withKey, cause)

	withoutKey := &TaskError{Node: "config", Err: cause}
	assert.NotContains(t, withoutKey.Error(), `key ""`)
	assert.Contains(t, withoutKey.Error(), "config")
}

func TestIoError_ErrorAndUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &IoError{Op: "write", Path: "/dist/index.html", Err: cause}
	assert.Contains(t, err.Error(), "/dist/index.html")
	assert.ErrorIs(t, err, cause)
}
