package surface

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
)

// Aggregate blends a hit set into one surface: the mean impact point and the
// normalized sum of the normals. An empty set yields the zero surface.
func Aggregate(hits component.HitSet) component.AggregatedSurface {
	if len(hits) == 0 {
		return component.AggregatedSurface{}
	}

	var loc, normal mgl64.Vec3
	for _, h := range hits {
		loc = loc.Add(h.ImpactPoint)
		normal = normal.Add(h.Normal)
	}

	return component.AggregatedSurface{
		Location: loc.Mul(1 / float64(len(hits))),
		Normal:   common.SafeNormal(normal),
	}
}
