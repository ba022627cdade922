package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer_RequiresRAGService(t *testing.T) {
	_, err := NewServer(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRAGService)
}

func TestNewServer_IngestOptional(t *testing.T) {
	server, err := NewServer(&Ports{RAG: &mockRAGService{}})

	require.NoError(t, err)
	assert.NotNil(t, server)
}

func TestPortsValidate(t *testing.T) {
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRAGService)
	assert.NoError(t, (&Ports{RAG: &mockRAGService{}}).Validate())
}
