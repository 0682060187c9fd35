package geo

// IntersectShape clips a holed shape against a polygon. The exterior and each
// hole are clipped independently; clipped hole parts are reattached to the
// exterior part whose interior contains them.
func IntersectShape(s Shape, clip Polygon) ([]Shape, error) {
	extParts, err := Intersect(s.Exterior, clip)
	if err != nil {
		return nil, err
	}

	shapes := make([]Shape, 0, len(extParts))
	for _, ext := range extParts {
		shapes = append(shapes, SolidShape(ext))
	}

	for _, hole := range s.Holes {
		holeParts, err := Intersect(hole, clip)
		if err != nil {
			continue // hole outside the clip region
		}
		for _, hp := range holeParts {
			c := hp.Centroid()
			for i := range shapes {
				if shapes[i].Exterior.Contains(c) {
					shapes[i].Holes = append(shapes[i].Holes, hp)
					break
				}
			}
		}
	}

	out := shapes[:0]
	for _, s := range shapes {
		if !s.IsEmpty() {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmpty
	}
	return out, nil
}

// UnionAll folds a set of polygons into as few parts as possible. Degenerate
// pairwise unions keep both operands rather than failing the whole fold.
func UnionAll(polys []Polygon) []Polygon {
	var merged []Polygon
	for _, p := range polys {
		if p.IsEmpty() {
			continue
		}
		placed := false
		for i, m := range merged {
			parts, err := Union(m, p)
			if err == nil && len(parts) == 1 {
				merged[i] = parts[0]
				placed = true
				break
			}
		}
		if !placed {
			merged = append(merged, p)
		}
	}
	return merged
}
