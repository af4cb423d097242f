package evaluate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBundle = `{
  "type": "bundle",
  "id": "bundle--6f1a2b3c-4d5e-4f60-8a7b-9c0d1e2f3a4b",
  "spec_version": "2.1",
  "objects": [
    {
      "type": "indicator",
      "spec_version": "2.1",
      "id": "indicator--0a1b2c3d-4e5f-4a6b-8c7d-8e9f0a1b2c3d",
      "created": "2024-03-09T14:05:07.123Z",
      "modified": "2024-03-09T14:05:07.123Z",
      "pattern": "[ipv4-addr:value = '1.2.3.4']",
      "pattern_type": "stix",
      "valid_from": "2024-03-09T14:05:07.123Z"
    }
  ]
}`

const brokenBundle = `{
  "type": "bundle",
  "id": "bundle--not-a-uuid",
  "spec_version": "2.1",
  "objects": [
    {"type": "indicator", "spec_version": "2.1", "id": "", "created": "", "modified": "", "pattern": "1.2.3.4", "pattern_type": "stix", "valid_from": ""},
    {"type": "indicator", "spec_version": "3.0", "id": "", "created": "", "modified": "", "pattern": "", "pattern_type": "", "valid_from": ""}
  ]
}`

func TestValidateDocument(t *testing.T) {
	t.Run("valid bundle", func(t *testing.T) {
		v := ValidateDocument("good.json", []byte(validBundle))

		assert.Equal(t, "good.json", v.File)
		assert.True(t, v.IsValid)
		assert.Empty(t, v.Errors)
	})

	t.Run("all problems reported", func(t *testing.T) {
		v := ValidateDocument("bad.json", []byte(brokenBundle))

		assert.False(t, v.IsValid)
		require.Len(t, v.Errors, 3, "envelope plus both objects")
		assert.Contains(t, v.Errors[1], "objects[0]")
		assert.Contains(t, v.Errors[2], "objects[1]")
	})

	t.Run("not json", func(t *testing.T) {
		v := ValidateDocument("junk.json", []byte("garbage"))

		assert.False(t, v.IsValid)
		require.Len(t, v.Errors, 1)
		assert.Contains(t, v.Errors[0], ErrUnreadableBundle.Error())
	})
}
