package mathutil

import "math"

// RotX rotates around the X axis by a radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}

// EulerDegToMat3 builds the world rotation of an object from its XYZ Euler
// angles in degrees: X is applied first, then Y, then Z.
func EulerDegToMat3(e Vec3) Mat3 {
	return RotZ(Deg2Rad(e[2])).Mul(RotY(Deg2Rad(e[1]))).Mul(RotX(Deg2Rad(e[0])))
}
