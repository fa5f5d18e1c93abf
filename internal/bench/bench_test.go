package bench

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunProducesOneResultPerAlgorithm(t *testing.T) {
	results, err := Run(context.Background(), 12, 1)
	require.NoError(t, err)
	assert.Len(t, results, len(generateAlgorithms)+len(solveAlgorithms))

	seen := map[string]bool{}
	for _, r := range results {
		assert.NotEmpty(t, r.RunID)
		seen[r.Kind+":"+r.Algorithm] = true
	}
	for _, a := range generateAlgorithms {
		assert.True(t, seen["generate:"+a], "missing generate result for %s", a)
	}
	for _, a := range solveAlgorithms {
		assert.True(t, seen["solve:"+a], "missing solve result for %s", a)
	}
}

func TestRunResultsHaveUniqueRunIDs(t *testing.T) {
	results, err := Run(context.Background(), 10, 5)
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, r := range results {
		assert.False(t, ids[r.RunID], "duplicate run id %s", r.RunID)
		ids[r.RunID] = true
	}
}
