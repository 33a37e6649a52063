package camera

import (
	"math"

	"github.com/MobRulesGames/mathgl"
)

var worldUp = mathgl.Vec3{Y: 1}

func cross(a, b mathgl.Vec3) mathgl.Vec3 {
	return mathgl.Vec3{
		X: a.Y*b.Z - a.Z*b.Y,
		Y: a.Z*b.X - a.X*b.Z,
		Z: a.X*b.Y - a.Y*b.X,
	}
}

func length(v mathgl.Vec3) float32 {
	return float32(math.Sqrt(float64(v.Dot(&v))))
}

func column(m *mathgl.Mat4, i int) mathgl.Vec3 {
	return mathgl.Vec3{X: m[4*i], Y: m[4*i+1], Z: m[4*i+2]}
}

// lookAt builds the world transform of a camera at eye facing target, with
// +Y as up. The camera looks down its own -Z axis.
func lookAt(eye, target mathgl.Vec3) mathgl.Mat4 {
	back := eye
	back.Subtract(&target)
	if length(back) == 0 {
		var ident mathgl.Mat4
		ident.Identity()
		ident[12], ident[13], ident[14] = eye.X, eye.Y, eye.Z
		return ident
	}
	back.Normalize()

	right := cross(worldUp, back)
	if length(right) == 0 {
		right = mathgl.Vec3{X: 1}
	}
	right.Normalize()
	up := cross(back, right)

	return mathgl.Mat4{
		right.X, right.Y, right.Z, 0,
		up.X, up.Y, up.Z, 0,
		back.X, back.Y, back.Z, 0,
		eye.X, eye.Y, eye.Z, 1,
	}
}
