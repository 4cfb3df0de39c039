package vmath

// LineMinimumDistance returns the perpendicular distance from the point p
// (relative to the line origin) to the infinite line along direction
// |direction × p| / |direction|
func LineMinimumDistance(direction, p Vec3) (float64, error) {
	l := Length(direction)
	if l == 0 {
		return 0, ErrZeroLength
	}
	return Length(Cross(direction, p)) / l, nil
}

// CosineSimilarity returns -(a·b)/(|a||b|)
// Negated: light directions point from the source toward the scene, so a
// positive result means the surface faces the light
func CosineSimilarity(a, b Vec3) (float64, error) {
	la, lb := Length(a), Length(b)
	if la == 0 || lb == 0 {
		return 0, ErrZeroLength
	}
	c := -Dot(a, b) / (la * lb)
	// Rounding can push |c| marginally past 1
	if c > 1 {
		c = 1
	} else if c < -1 {
		c = -1
	}
	return c, nil
}
