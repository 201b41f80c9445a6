package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIStringErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      *IStringError
		expected string
	}{
		{
			name:     "code and message",
			err:      NewValidationError(ErrCodeInvalidName, "bad attribute name"),
			expected: "[ERR_INVALID_NAME] bad attribute name",
		},
		{
			name:     "with location",
			err:      NewConfigError(ErrCodeConfigInvalid, "bad port").WithLocation(".istring.yml", 4),
			expected: "[ERR_CONFIG_INVALID] .istring.yml:4 bad port",
		},
		{
			name:     "with cause",
			err:      NewIOError(ErrCodeReadFailed, "cannot read document", fmt.Errorf("permission denied")),
			expected: "[ERR_READ_FAILED] cannot read document: permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestIStringErrorIs(t *testing.T) {
	err := fmt.Errorf("loading: %w", NewRenderError(ErrCodeRenderFailed, "render failed", nil))

	assert.True(t, errors.Is(err, &IStringError{Type: ErrorTypeRender, Code: ErrCodeRenderFailed}))
	assert.False(t, errors.Is(err, &IStringError{Type: ErrorTypeIO, Code: ErrCodeRenderFailed}))
}

func TestWrap(t *testing.T) {
	assert.Nil(t, Wrap(nil, ErrorTypeIO, ErrCodeReadFailed, "x"))

	base := errors.New("boom")
	wrapped := Wrap(base, ErrorTypeRender, ErrCodeRenderFailed, "render failed")
	require.NotNil(t, wrapped)
	assert.ErrorIs(t, wrapped, base)
	assert.True(t, wrapped.Recoverable)

	inner := NewIOError(ErrCodeReadFailed, "read", base).WithLocation("doc.yml", 2)
	outer := Wrap(inner, ErrorTypeConfig, ErrCodeConfigInvalid, "config")
	assert.Equal(t, "doc.yml", outer.FilePath)
	assert.False(t, outer.Recoverable)
	assert.True(t, IsType(outer, ErrorTypeConfig))
	assert.False(t, IsType(base, ErrorTypeConfig))
}

func TestWithContext(t *testing.T) {
	err := NewValidationError(ErrCodeInvalidDocument, "bad").WithContext("attribute", "class")
	assert.Equal(t, "class", err.Context["attribute"])
	assert.True(t, IsRecoverable(err))
	assert.False(t, IsRecoverable(errors.New("plain")))
}

type recordingLogger struct {
	warns  []string
	errors []string
}

func (l *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	l.warns = append(l.warns, msg)
}

func TestErrorHandler(t *testing.T) {
	logger := &recordingLogger{}
	h := NewErrorHandler(logger)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, NewRenderError(ErrCodeRenderFailed, "render", nil))
	h.Handle(ctx, NewConfigError(ErrCodeConfigInvalid, "config"))
	h.Handle(ctx, errors.New("plain"))

	assert.Equal(t, []string{"Recoverable error occurred"}, logger.warns)
	assert.Equal(t, []string{"Error occurred", "Unhandled error occurred"}, logger.errors)
}
