package validator

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestValidateContent(t *testing.T) {
	v := NewValidator()

	t.Run("valid content", func(t *testing.T) {
		assert.NoError(t, v.ValidateContent("hello world"))
	})

	t.Run("single character is valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateContent("x"))
	})

	t.Run("empty content is rejected", func(t *testing.T) {
		err := v.ValidateContent("")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "content_required")
	})

	t.Run("content at max length is valid", func(t *testing.T) {
		assert.NoError(t, v.ValidateContent(strings.Repeat("a", MaxContentLength)))
	})

	t.Run("content over max length is rejected", func(t *testing.T) {
		err := v.ValidateContent(strings.Repeat("a", MaxContentLength+1))
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "content_too_long")
	})

	t.Run("length is counted in code points not bytes", func(t *testing.T) {
		// 5000 three-byte runes exceed 5000 bytes but not 5000 code points
		assert.NoError(t, v.ValidateContent(strings.Repeat("世", MaxContentLength)))
	})
}

func TestValidateID(t *testing.T) {
	v := NewValidator()

	t.Run("valid UUID", func(t *testing.T) {
		assert.NoError(t, v.ValidateID(uuid.New().String()))
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		assert.Error(t, v.ValidateID(""))
	})

	t.Run("malformed id is rejected", func(t *testing.T) {
		assert.Error(t, v.ValidateID("not-a-uuid"))
	})
}
