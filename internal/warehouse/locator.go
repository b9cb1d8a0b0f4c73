// Package warehouse picks the warehouse a driver is standing at and enforces
// its geofence.
package warehouse

import (
	"geoclock/internal/geo"
	"geoclock/internal/warehouse/models"
)

// Nearest is the closest candidate and its distance from the query point.
type Nearest struct {
	Warehouse      models.Warehouse
	DistanceMeters float64
}

// FindNearest scans candidates linearly. Equal distances resolve to the lowest
// warehouse id so the answer does not depend on candidate order. ok is false
// only for an empty list; the geofence is not consulted.
func FindNearest(point geo.Coordinate, candidates []models.Warehouse) (Nearest, bool) {
	if len(candidates) == 0 {
		return Nearest{}, false
	}
	best := Nearest{
		Warehouse:      candidates[0],
		DistanceMeters: geo.DistanceMeters(point, candidates[0].Coordinate),
	}
	for _, w := range candidates[1:] {
		d := geo.DistanceMeters(point, w.Coordinate)
		if d < best.DistanceMeters || (d == best.DistanceMeters && w.ID.Less(best.Warehouse.ID)) {
			best = Nearest{Warehouse: w, DistanceMeters: d}
		}
	}
	return best, true
}

// IsWithinRange reports whether point is inside w's geofence. The boundary is
// inside.
func IsWithinRange(point geo.Coordinate, w models.Warehouse) bool {
	return IsWithinRangeAt(geo.DistanceMeters(point, w.Coordinate), w)
}

// IsWithinRangeAt applies the geofence predicate to a known distance.
func IsWithinRangeAt(distanceMeters float64, w models.Warehouse) bool {
	return distanceMeters <= w.GeofenceRadiusMeters
}
