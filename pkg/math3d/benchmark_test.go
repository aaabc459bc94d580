package math3d

import "testing"

// vertex stage: viewport * projection * view * model applied per corner
func BenchmarkVertexStage(b *testing.B) {
	viewport := Translate(V3(400, 400, 127.5)).Mul(Scale(V3(300, 300, 127.5)))
	projection := Identity()
	projection.Set(3, 2, -1.0/3)
	view := Translate(V3(0, 0, -3)).Mul(RotateY(0.3))
	model := Scale(V3(2, 2, 2))
	corners := [3]Vec3{V3(-1, -1, 0), V3(1, -1, 0), V3(0, 1, 0)}

	for b.Loop() {
		m := viewport.Mul(projection).Mul(view).Mul(model)
		for _, c := range corners {
			_ = m.MulVec4(c.Embed(1)).Project()
		}
	}
}

func BenchmarkFaceNormal(b *testing.B) {
	p0, p1, p2 := V3(0, 0, 0), V3(1, 0.2, 0), V3(0.1, 1, 0.3)

	for b.Loop() {
		_ = p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
	}
}

func BenchmarkWeightedUV(b *testing.B) {
	uv0, uv1, uv2 := V2(0, 0), V2(1, 0), V2(0, 1)
	bar := V3(0.5, 0.25, 0.25)

	for b.Loop() {
		_ = Weighted(uv0, uv1, uv2, bar)
	}
}

func BenchmarkBounds(b *testing.B) {
	pts := []Vec3{V3(3, -1, 2), V3(-4, 5, 0), V3(1, 1, -7), V3(0, 9, 2)}

	for b.Loop() {
		lo, hi := pts[0], pts[0]
		for _, p := range pts[1:] {
			lo, hi = lo.Min(p), hi.Max(p)
		}
		_, _ = lo, hi
	}
}
