package gadget

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }

func TestCodeGeneratorShape(t *testing.T) {
	gen := NewCodeGenerator(nil)
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		require.NoError(t, err)
		assert.Regexp(t, codePattern, code)
	}
}

func TestCodenameGeneratorDeterministicSource(t *testing.T) {
	src := bytes.Repeat([]byte{0}, 64)
	name, err := NewCodenameGenerator(bytes.NewReader(src)).Generate()
	require.NoError(t, err)
	assert.Equal(t, "Silent Falcon", name)
}

func TestCodenameGeneratorVocabulary(t *testing.T) {
	gen := NewCodenameGenerator(nil)
	for i := 0; i < 100; i++ {
		name, err := gen.Generate()
		require.NoError(t, err)
		parts := strings.Fields(name)
		require.Len(t, parts, 2)
		assert.Contains(t, adjectives, strings.ToLower(parts[0][:1])+parts[0][1:])
		assert.Contains(t, nouns, strings.ToLower(parts[1][:1])+parts[1][1:])
	}
}

func TestGeneratorsSurfaceRandomFailure(t *testing.T) {
	_, err := NewCodeGenerator(errReader{}).Generate()
	assert.Error(t, err)
	_, err = NewCodenameGenerator(errReader{}).Generate()
	assert.Error(t, err)
	_, err = NewService(NewInMemory(), WithRandom(errReader{})).Create(context.Background())
	assert.Error(t, err)
}
