package massing

import "math"

// Quadrant buckets a grid orientation angle into one of four 90-degree
// windows centered on 0/90/180/270 degrees.
type Quadrant int

const (
	QuadrantNE Quadrant = iota
	QuadrantNW
	QuadrantSW
	QuadrantSE
)

func (q Quadrant) String() string {
	switch q {
	case QuadrantNE:
		return "NE"
	case QuadrantNW:
		return "NW"
	case QuadrantSW:
		return "SW"
	default:
		return "SE"
	}
}

// QuadrantFromDegrees normalizes the angle into [0,360) and buckets it.
// 0 ± 45 → NE, 90 ± 45 → NW, 180 ± 45 → SW, 270 ± 45 → SE.
func QuadrantFromDegrees(angle float64) Quadrant {
	a := math.Mod(math.Mod(angle, 360)+360, 360)
	switch {
	case a < 45 || a >= 315:
		return QuadrantNE
	case a < 135:
		return QuadrantNW
	case a < 225:
		return QuadrantSW
	default:
		return QuadrantSE
	}
}

// halfPlane identifies one padded half of an envelope's bounding box.
type halfPlane int

const (
	halfNorth halfPlane = iota
	halfSouth
	halfEast
	halfWest
)

// lMaskHalves maps each orientation bucket to the two bounding-box halves
// whose combination forms the L mask. The shared corner of the two halves is
// the quadrant the L opens away from.
var lMaskHalves = map[Quadrant][2]halfPlane{
	QuadrantNE: {halfNorth, halfEast},
	QuadrantNW: {halfNorth, halfWest},
	QuadrantSW: {halfSouth, halfWest},
	QuadrantSE: {halfSouth, halfEast},
}

// uMaskHalves maps each orientation bucket to the three halves forming the U
// mask; the opening faces the omitted half.
var uMaskHalves = map[Quadrant][3]halfPlane{
	QuadrantNE: {halfNorth, halfEast, halfWest},
	QuadrantNW: {halfNorth, halfWest, halfSouth},
	QuadrantSW: {halfSouth, halfWest, halfEast},
	QuadrantSE: {halfSouth, halfEast, halfNorth},
}
