package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "templates.json"), zap.NewNop())
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Load())
	assert.Equal(t, 0, s.Len())
}

func TestStore_AddPersistsAndReloads(t *testing.T) {
	s := newTestStore(t)

	entry, err := s.Add("fp1", "Billing", []int{0, 2})
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Index)

	_, err = s.Add("fp2", "Other", nil)
	require.NoError(t, err)

	reloaded := NewStore(s.Path(), nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, s.List(), reloaded.List())
	assert.Equal(t, []int{}, reloaded.List()[1].Indices)
}

func TestStore_FileFormat(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("fp1", "Billing", []int{3})
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `[{"headerId":"fp1","templateName":"Billing","indices":[3]}]`, string(data))
}

func TestStore_AddRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Add("fp1", "", []int{0})
	var fieldErr *FieldError
	assert.ErrorAs(t, err, &fieldErr)
	assert.Equal(t, 0, s.Len())

	_, statErr := os.Stat(s.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestStore_Remove(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("fp1", "A", []int{0})
	_, _ = s.Add("fp1", "B", []int{1})
	_, _ = s.Add("fp2", "C", []int{2})

	require.NoError(t, s.RemoveAt(1))
	names := []string{}
	for _, e := range s.List() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"A", "C"}, names)

	assert.ErrorIs(t, s.RemoveAt(5), ErrNotFound)
	assert.ErrorIs(t, s.RemoveAt(-1), ErrNotFound)

	require.NoError(t, s.Remove(Template{HeaderID: "fp2", Name: "C", Indices: []int{2}}))
	assert.ErrorIs(t, s.Remove(Template{HeaderID: "fp2", Name: "C", Indices: []int{2}}), ErrNotFound)

	reloaded := NewStore(s.Path(), nil)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, 1, reloaded.Len())
}

func TestStore_ForFormatAndFind(t *testing.T) {
	s := newTestStore(t)
	_, _ = s.Add("fp1", "A", []int{0})
	_, _ = s.Add("fp2", "B", []int{1})
	_, _ = s.Add("fp1", "C", []int{2})

	got := s.ForFormat("fp1")
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Index)
	assert.Equal(t, 2, got[1].Index)
	assert.Empty(t, s.ForFormat("missing"))

	tpl, ok := s.Find("fp1", "C")
	assert.True(t, ok)
	assert.Equal(t, []int{2}, tpl.Indices)

	_, ok = s.Find("fp2", "C")
	assert.False(t, ok)
}

func TestStore_LoadSkipsInvalidEntries(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	path := filepath.Join(t.TempDir(), "templates.json")
	content := `[{"headerId":"fp","templateName":"ok","indices":[1]},{"headerId":"fp","templateName":7,"indices":[]}]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	s := NewStore(path, zap.New(core))
	require.NoError(t, s.Load())
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, logs.FilterMessage("Skipping invalid template").Len())
}

func TestStore_LoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "templates.json")
	require.NoError(t, os.WriteFile(path, []byte(`{}`), 0o644))

	s := NewStore(path, nil)
	assert.ErrorIs(t, s.Load(), ErrNotArray)
}

func TestStore_Unconfigured(t *testing.T) {
	s := NewStore("", nil)
	assert.Error(t, s.Load())
	assert.Error(t, s.Save())
}
