package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *ConfigStore {
	t.Helper()
	store, err := NewConfigStore(filepath.Join(t.TempDir(), DefaultFile))
	require.NoError(t, err)
	return store
}

func TestNewConfigStore_Success(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", DefaultFile)

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	assert.DirExists(t, filepath.Dir(path))
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := NewConfigStore("")

	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, DefaultDir, DefaultFile), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("retrieval.top_k", 7))
	require.NoError(t, store.Set("embedding.requests_per_second", 2.5))

	assert.Equal(t, "llama3.2", store.GetString("llm.model"))
	assert.Equal(t, 7, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 2.5, store.GetFloat("embedding.requests_per_second"))
	assert.Equal(t, 7.0, store.GetFloat("retrieval.top_k"))

	// Wrong types and missing keys yield zero values
	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 0, store.GetInt("llm.model"))
	assert.Equal(t, 0.0, store.GetFloat("nonexistent"))
}

func TestConfigStore_SetRejectsBadKeys(t *testing.T) {
	store := newStore(t)

	for _, key := range []string{"", ".model", "llm."} {
		assert.Error(t, store.Set(key, "x"), key)
	}
}

func TestConfigStore_EnvOverridesFile(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "from-file"))
	require.NoError(t, store.Set("retrieval.top_k", 5))
	t.Setenv("MANUALQA_LLM_MODEL", "from-env")
	t.Setenv("MANUALQA_RETRIEVAL_TOP_K", "12")
	t.Setenv("MANUALQA_EMBEDDING_REQUESTS_PER_SECOND", "1.5")

	assert.Equal(t, "from-env", store.GetString("llm.model"))
	assert.Equal(t, 12, store.GetInt("retrieval.top_k"))
	assert.Equal(t, 1.5, store.GetFloat("embedding.requests_per_second"))

	require.NoError(t, store.Save())
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "from-file")
	assert.NotContains(t, string(raw), "from-env")
}

func TestConfigStore_EmptyEnvIsIgnored(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "from-file"))
	t.Setenv("MANUALQA_LLM_MODEL", "")

	assert.Equal(t, "from-file", store.GetString("llm.model"))
}

func TestEnvName(t *testing.T) {
	assert.Equal(t, "MANUALQA_LLM_MODEL", EnvName("llm.model"))
	assert.Equal(t, "MANUALQA_SPARSE_DATA_DIR", EnvName("sparse.data_dir"))
}

func TestConfigStore_Delete(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Save())

	require.NoError(t, store.Delete("llm.model"))
	require.NoError(t, store.Delete("never.set"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	_, ok := store.Get("llm.model")
	assert.False(t, ok)
}

func TestConfigStore_SetDoesNotPersist(t *testing.T) {
	store := newStore(t)

	require.NoError(t, store.Set("llm.model", "llama3.2"))

	_, err := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestConfigStore_SaveWritesTables(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("llm.timeout", "60s"))
	require.NoError(t, store.Set("dense.backend", "memory"))

	require.NoError(t, store.Save())

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[llm]")
	assert.Contains(t, string(raw), "[dense]")

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	store1, err := NewConfigStore(path)
	require.NoError(t, err)
	require.NoError(t, store1.Set("llm.model", "llama3.2"))
	require.NoError(t, store1.Set("retrieval.top_k", 9))
	require.NoError(t, store1.Set("embedding.requests_per_second", 0.5))
	require.NoError(t, store1.Save())

	store2, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, "llama3.2", store2.GetString("llm.model"))
	assert.Equal(t, 9, store2.GetInt("retrieval.top_k"))
	assert.Equal(t, 0.5, store2.GetFloat("embedding.requests_per_second"))
}

func TestConfigStore_LoadDiscardsUnsaved(t *testing.T) {
	store := newStore(t)
	require.NoError(t, store.Set("llm.model", "saved"))
	require.NoError(t, store.Save())
	require.NoError(t, store.Set("llm.model", "unsaved"))

	require.NoError(t, store.Load())

	assert.Equal(t, "saved", store.GetString("llm.model"))
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	content := `
[retrieval]
top_k = 8
priority = "sparse"

[sparse]
backend = "sqlite"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	assert.Equal(t, 8, store.GetInt("retrieval.top_k"))
	assert.Equal(t, "sparse", store.GetString("retrieval.priority"))
	assert.Equal(t, "sqlite", store.GetString("sparse.backend"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte{}, 0600))

	store, err := NewConfigStore(path)
	require.NoError(t, err)

	_, ok := store.Get("any_key")
	assert.False(t, ok)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte("this is not valid TOML {{{[["), 0600))

	store, err := NewConfigStore(path)

	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestConfigStore_Save_WriteFileError(t *testing.T) {
	store := newStore(t)
	require.NoError(t, os.Mkdir(store.Path(), 0700))
	require.NoError(t, store.Set("another", "value"))

	assert.Error(t, store.Save())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := newStore(t)

	done := make(chan bool)
	for i := 0; i < 10; i++ {
		go func(id int) {
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_ = store.GetFloat(key)
			_, _ = store.Get(key)
			done <- true
		}(i)
	}

	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestNestMap(t *testing.T) {
	flat := map[string]any{"a.b": 1, "a.c": "x", "top": true}
	nested := nestMap(flat)

	assert.Equal(t, map[string]any{
		"a":   map[string]any{"b": 1, "c": "x"},
		"top": true,
	}, nested)
	assert.Equal(t, flat, flattenMap(nested, ""))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), DotEnvFile)
	require.NoError(t, os.WriteFile(path, []byte("MANUALQA_TEST_KEY=from-dotenv\nMANUALQA_TEST_SET=file\n"), 0600))
	t.Setenv("MANUALQA_TEST_SET", "env")
	t.Setenv("MANUALQA_TEST_KEY", "")
	require.NoError(t, os.Unsetenv("MANUALQA_TEST_KEY"))

	require.NoError(t, LoadDotEnv(path, filepath.Join(t.TempDir(), "missing.env")))

	assert.Equal(t, "from-dotenv", os.Getenv("MANUALQA_TEST_KEY"))
	assert.Equal(t, "env", os.Getenv("MANUALQA_TEST_SET"))
}
