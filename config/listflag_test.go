package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestListFlag(t *testing.T) {
	const yamlList = `- foo
- bar
- baz`

	t.Run("custom separator", func(t *testing.T) {
		current := newListFlag(":")

		require.NoError(t, current.Set("foo:bar:baz"))
		assert.Equal(t, []string{"foo", "bar", "baz"}, current.values)

		require.NoError(t, yaml.Unmarshal([]byte(yamlList), current))
		assert.Equal(t, []string{"foo", "bar", "baz"}, current.values)
		assert.Equal(t, "foo:bar:baz", current.value)
	})

	t.Run("comma separator", func(t *testing.T) {
		f := commaListFlag()
		require.NoError(t, f.Set("foo,bar,baz"))
		assert.Equal(t, []string{"foo", "bar", "baz"}, f.values)
	})

	t.Run("restricted values", func(t *testing.T) {
		t.Run("good", func(t *testing.T) {
			current := commaListFlag("foo", "bar", "baz", "qux")

			require.NoError(t, current.Set("foo,bar,baz"))
			assert.Equal(t, []string{"foo", "bar", "baz"}, current.values)

			require.NoError(t, yaml.Unmarshal([]byte(yamlList), current))
			assert.Equal(t, []string{"foo", "bar", "baz"}, current.values)
		})

		t.Run("bad", func(t *testing.T) {
			current := commaListFlag("foo", "bar")
			assert.Error(t, current.Set("foo,bar,baz"))
			assert.Error(t, yaml.Unmarshal([]byte(yamlList), current))
		})
	})

	t.Run("string representation", func(t *testing.T) {
		const input = "foo,bar,baz"

		current := commaListFlag()
		require.NoError(t, current.Set(input))
		assert.Equal(t, input, current.String())

		require.NoError(t, yaml.Unmarshal([]byte(yamlList), current))
		assert.Equal(t, input, current.String())
	})

	t.Run("unmarshal error", func(t *testing.T) {
		current := commaListFlag()
		assert.Error(t, yaml.Unmarshal([]byte("invalid yaml"), current))
	})

	t.Run("empty value", func(t *testing.T) {
		f := commaListFlag()
		require.NoError(t, f.Set(""))
		assert.Equal(t, "", f.value)
		assert.Nil(t, f.values)
	})
}
