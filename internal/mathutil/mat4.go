package mathutil

// Mat4 is a row-major affine transform: object to world, or world to camera.
type Mat4 [16]float64

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 rotation and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// RigidInverse inverts a rotation+translation transform without a general
// 4×4 inverse: the result maps world points into the object's local frame.
func RigidInverse(r Mat3, t Vec3) Mat4 {
	rt := r.Transpose()
	return FromMat3Translation(rt, rt.MulVec3(t).Scale(-1))
}
