package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInventoryError(t *testing.T) {
	tests := []struct {
		name    string
		err     *InventoryError
		typ     ErrorType
		message string
	}{
		{
			name:    "read error keeps path",
			err:     NewReadError("hosts/web.yml", fs.ErrPermission),
			typ:     ErrRead,
			message: "hosts/web.yml: could not read file: permission denied",
		},
		{
			name:    "parse error keeps path",
			err:     NewParseError("bad.yaml", stderrors.New("yaml: line 2: did not find expected key")),
			typ:     ErrParse,
			message: "bad.yaml: could not parse YAML: yaml: line 2: did not find expected key",
		},
		{
			name:    "no documents",
			err:     NewNoDocumentsError("/srv/inventory"),
			typ:     ErrNoDocuments,
			message: "/srv/inventory: no YAML documents found",
		},
		{
			name:    "invalid args has no path",
			err:     NewInvalidArgsError("unexpected argument: foo"),
			typ:     ErrInvalidArgs,
			message: "unexpected argument: foo",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.typ, tt.err.Type)
			assert.Equal(t, tt.message, tt.err.Error())
		})
	}
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewNoDocumentsError("."))

	assert.True(t, IsType(wrapped, ErrNoDocuments))
	assert.False(t, IsType(wrapped, ErrParse))
	assert.False(t, IsType(stderrors.New("plain"), ErrNoDocuments))
	assert.False(t, IsType(nil, ErrNoDocuments))
}

func TestUnwrap(t *testing.T) {
	err := NewReadError("a.yml", fs.ErrNotExist)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	renderErr := NewRenderError(fs.ErrClosed)
	assert.ErrorIs(t, renderErr, fs.ErrClosed)
	assert.Equal(t, "render", renderErr.Type.String())
}
