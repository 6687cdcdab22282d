package chat

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAppendAndRead(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Append(RoleUser, "hello"))
	require.NoError(t, store.Append(RoleAssistant, "hi"))

	messages, err := store.Read()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, Message{Index: 0, Role: RoleUser, Content: "hello"}, messages[0])
	assert.Equal(t, Message{Index: 1, Role: RoleAssistant, Content: "hi"}, messages[1])
}

func TestMemoryStoreWriteReadRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Append(RoleSystem, "rules"))
	require.NoError(t, store.Append(RoleUser, "question"))
	require.NoError(t, store.Append(RoleAssistant, "answer"))

	before, err := store.Read()
	require.NoError(t, err)

	// write(read()) is a no-op on order and content
	require.NoError(t, store.Write(before))
	after, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestMemoryStoreWriteReindexesFromZero(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Write([]Message{
		{Index: 7, Role: RoleUser, Content: "a"},
		{Index: 3, Role: RoleAssistant, Content: "b"},
	}))

	messages, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, 0, messages[0].Index)
	assert.Equal(t, 1, messages[1].Index)
}

func TestMemoryStoreReadReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Append(RoleUser, "original"))

	messages, err := store.Read()
	require.NoError(t, err)
	messages[0].Content = "mutated"

	again, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transcript.json")

	store := NewFileStore(path)
	require.NoError(t, store.Append(RoleUser, "hello"))
	require.NoError(t, store.Append(RoleAssistant, "hi"))

	reopened := NewFileStore(path)
	messages, err := reopened.Read()
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "hello", messages[0].Content)
	assert.Equal(t, "hi", messages[1].Content)
}

func TestFileStoreEmptyReadsAsNoMessages(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))
	messages, err := store.Read()
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestFileStoreWriteReadRoundTrip(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "transcript.json"))
	require.NoError(t, store.Write([]Message{
		{Role: RoleUser, Content: "one"},
		{Role: RoleAssistant, Content: "two"},
	}))

	before, err := store.Read()
	require.NoError(t, err)
	require.NoError(t, store.Write(before))

	after, err := store.Read()
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
