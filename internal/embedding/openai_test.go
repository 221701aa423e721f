package embedding_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docugate-io/docugate/internal/embedding"
	"github.com/docugate-io/docugate/internal/testutil"
)

func TestOpenAIProviderEmbed(t *testing.T) {
	server := testutil.NewEmbeddingsServer([]float32{0.25, 0.5, 0.75})
	t.Cleanup(server.Close)

	provider := embedding.NewOpenAIProviderWithBaseURL("test-key", server.URL, "text-embedding-3-small", 3)
	assert.Equal(t, "openai", provider.Name())
	assert.Equal(t, "text-embedding-3-small", provider.Model())
	assert.Equal(t, 3, provider.Dims())

	vec, err := provider.Embed(context.Background(), "Rahul Menon | SGP1234567Z")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.25, 0.5, 0.75}, vec)
}

func TestOpenAIProviderEmbedEmptyInput(t *testing.T) {
	server := testutil.NewEmbeddingsServer(nil)
	t.Cleanup(server.Close)

	provider := embedding.NewOpenAIProviderWithBaseURL("test-key", server.URL, "text-embedding-3-small", 8)

	_, err := provider.Embed(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, embedding.ErrEmptyInput)
}

func TestOpenAIProviderEmbedServerError(t *testing.T) {
	server := testutil.NewEmbeddingsServer(nil)
	server.Close() // force a connection failure

	provider := embedding.NewOpenAIProviderWithBaseURL("test-key", server.URL, "text-embedding-3-small", 8)

	_, err := provider.Embed(context.Background(), "anything")
	require.Error(t, err)
}
