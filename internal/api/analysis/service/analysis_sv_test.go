package analysisService

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"EstimAgent/internal/entity"
)

func TestMinVertices_WallAcceptsTwoEndpoints(t *testing.T) {
	// A straight wall run is fully described by its two endpoints.
	assert.Equal(t, 2, minVertices(entity.CategoryWall))
}

func TestMinVertices_ClosedShapesNeedThree(t *testing.T) {
	assert.Equal(t, 3, minVertices(entity.CategoryRoom))
	assert.Equal(t, 3, minVertices(entity.CategoryOpening))
	assert.Equal(t, 3, minVertices(entity.CategoryUnknown))
}
