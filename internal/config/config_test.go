package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetters(t *testing.T) {
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BAD_INT", "forty")
	t.Setenv("TEST_FLOAT", "0.7")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_DURATION", "1500ms")
	t.Setenv("TEST_SECONDS", "30")
	t.Setenv("TEST_BAD_DURATION", "soon")

	assert.Equal(t, 42, getEnvAsInt("TEST_INT", 1))
	assert.Equal(t, 1, getEnvAsInt("TEST_BAD_INT", 1))
	assert.Equal(t, 0.7, getEnvAsFloat("TEST_FLOAT", 0.5))
	assert.True(t, getEnvAsBool("TEST_BOOL", false))
	assert.Equal(t, 1500*time.Millisecond, getEnvAsDuration("TEST_DURATION", time.Second))
	assert.Equal(t, 30*time.Second, getEnvAsDuration("TEST_SECONDS", time.Second))
	assert.Equal(t, time.Second, getEnvAsDuration("TEST_BAD_DURATION", time.Second))
	assert.Equal(t, "fallback", getEnv("TEST_UNSET_KEY", "fallback"))
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANSWER_TOP_N", "")
	t.Setenv("CHUNK_SIZE", "")

	cfg := Load()

	assert.Equal(t, 3, cfg.Assistant.TopN)
	assert.Equal(t, 1000, cfg.Assistant.PassageCharLimit)
	assert.Equal(t, 10, cfg.Assistant.RetrievalK)
	assert.Equal(t, 20, cfg.Assistant.FetchK)
	assert.Equal(t, 350, cfg.Assistant.ChunkSize)
	assert.Equal(t, 80, cfg.Assistant.ChunkOverlap)
}
