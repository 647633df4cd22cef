package slug

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryChecker keeps slugs per entity keyed to the owning id.
type memoryChecker struct {
	slugs map[Entity]map[string]string
	calls int
	err   error
}

func newMemoryChecker() *memoryChecker {
	return &memoryChecker{slugs: map[Entity]map[string]string{}}
}

func (m *memoryChecker) add(entity Entity, slug, id string) {
	if m.slugs[entity] == nil {
		m.slugs[entity] = map[string]string{}
	}
	m.slugs[entity][slug] = id
}

func (m *memoryChecker) Exists(_ context.Context, entity Entity, slug string, excludeID string) (bool, error) {
	m.calls++
	if m.err != nil {
		return false, m.err
	}
	id, ok := m.slugs[entity][slug]
	if !ok {
		return false, nil
	}
	return excludeID == "" || id != excludeID, nil
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Red Shirt", "red-shirt"},
		{"punctuation stripped", "Kopi Susu (Gula Aren)!", "kopi-susu-gula-aren"},
		{"whitespace runs", "  Tas   Kulit \t Asli  ", "tas-kulit-asli"},
		{"repeated hyphens", "a -- b---c", "a-b-c"},
		{"leading trailing hyphens", "--hello--", "hello"},
		{"digits kept", "iPhone 15 Pro", "iphone-15-pro"},
		{"no-break space", "Red\u00a0Shirt", "red-shirt"},
		{"ideographic space", "Batik\u3000Solo", "batik-solo"},
		{"non ascii removed", "Café Ñandú", "caf-and"},
		{"empty", "", Placeholder},
		{"only symbols", "!!! ###", Placeholder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestCandidate(t *testing.T) {
	assert.Equal(t, "red-shirt", Candidate("red-shirt", 0))
	assert.Equal(t, "red-shirt-2", Candidate("red-shirt", 2))
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential products get increasing suffixes", func(t *testing.T) {
		checker := newMemoryChecker()
		gen := NewGenerator(checker)

		var got []string
		for i, id := range []string{"p-1", "p-2", "p-3"} {
			s, err := gen.Generate(ctx, "Red Shirt", EntityProduct, "")
			require.NoError(t, err, "product %d", i)
			checker.add(EntityProduct, s, id)
			got = append(got, s)
		}

		assert.Equal(t, []string{"red-shirt", "red-shirt-1", "red-shirt-2"}, got)
	})

	t.Run("rename excludes own id", func(t *testing.T) {
		checker := newMemoryChecker()
		checker.add(EntityProduct, "red-shirt", "p-1")
		checker.add(EntityProduct, "red-shirt-1", "p-2")

		s, err := NewGenerator(checker).Generate(ctx, "Red Shirt", EntityProduct, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "red-shirt", s)
	})

	t.Run("namespaces are per entity", func(t *testing.T) {
		checker := newMemoryChecker()
		checker.add(EntityStore, "batik", "s-1")

		s, err := NewGenerator(checker).Generate(ctx, "Batik", EntityCategory, "")
		require.NoError(t, err)
		assert.Equal(t, "batik", s)
	})

	t.Run("checker error", func(t *testing.T) {
		checker := newMemoryChecker()
		checker.err = errors.New("db down")

		_, err := NewGenerator(checker).Generate(ctx, "Red Shirt", EntityProduct, "")
		assert.ErrorIs(t, err, checker.err)
	})
}

func TestGenerator_GenerateFrom(t *testing.T) {
	checker := newMemoryChecker()
	checker.add(EntityProduct, "red-shirt-3", "p-9")

	s, n, err := NewGenerator(checker).GenerateFrom(context.Background(), "Red Shirt", EntityProduct, "", 3)
	require.NoError(t, err)
	assert.Equal(t, "red-shirt-4", s)
	assert.Equal(t, 4, n)
	assert.Equal(t, 2, checker.calls)
}
