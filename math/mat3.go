package math

// Mat3 is a 3x3 matrix in row-major [row][col] form, used for the upper-left
// block of a quadric's 4x4 matrix during the optimal-position solve.
type Mat3 [3][3]float32

func Mat3Zero() Mat3 {
	return Mat3{}
}

func Mat3FromMat4UpperLeft(m Mat4) Mat3 {
	return Mat3{
		{m[0][0], m[0][1], m[0][2]},
		{m[1][0], m[1][1], m[1][2]},
		{m[2][0], m[2][1], m[2][2]},
	}
}

func (m Mat3) Add(other Mat3) Mat3 {
	var r Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i][j] = m[i][j] + other[i][j]
		}
	}
	return r
}

func (m Mat3) Determinant() float32 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// Inverse returns the matrix inverse and ok=false if the determinant has
// magnitude below eps (the caller is expected to fall back rather
// than divide by a near-zero determinant).
func (m Mat3) Inverse(eps float32) (Mat3, bool) {
	det := m.Determinant()
	if det > -eps && det < eps {
		return Mat3{}, false
	}
	invDet := 1 / det
	var r Mat3
	r[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) * invDet
	r[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) * invDet
	r[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) * invDet
	r[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) * invDet
	r[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) * invDet
	r[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) * invDet
	r[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) * invDet
	r[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) * invDet
	r[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) * invDet
	return r, true
}

func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}
