package snapfit

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Built-in stand-in models. Each part carries one attach marker; the target
// stacks part1 (cube), part2 (cylinder) and part3 (small cube) on top of each
// other.

func FallbackPart1() *Node {
	return NewMarker("part1", mgl64.Vec3{}).Add(
		NewMarker("mesh_cube", mgl64.Vec3{}),
		NewMarker(AttachPointPrefix+"socket1", mgl64.Vec3{0, 0.25, 0}),
	)
}

func FallbackPart2() *Node {
	return NewMarker("part2", mgl64.Vec3{}).Add(
		NewMarker("mesh_cylinder", mgl64.Vec3{}),
		NewMarker(AttachPointPrefix+"socket2", mgl64.Vec3{0, -0.3, 0}),
	)
}

func FallbackPart3() *Node {
	return NewMarker("part3", mgl64.Vec3{}).Add(
		NewMarker("mesh_top", mgl64.Vec3{}),
		NewMarker(AttachPointPrefix+"socket3", mgl64.Vec3{0, -0.15, 0}),
	)
}

func FallbackTarget() *Node {
	return NewMarker("target", mgl64.Vec3{}).Add(
		NewMarker("mesh_base", mgl64.Vec3{0, 0.25, 0}),
		NewMarker(SocketPrefix+"socket1", mgl64.Vec3{0, 0.5, 0}),
		NewMarker("mesh_cylinder", mgl64.Vec3{0, 0.8, 0}),
		NewMarker(SocketPrefix+"socket2", mgl64.Vec3{0, 0.5, 0}),
		NewMarker("mesh_top", mgl64.Vec3{0, 1.25, 0}),
		NewMarker(SocketPrefix+"socket3", mgl64.Vec3{0, 1.1, 0}),
	)
}

// RegisterFallbackModels makes the built-in models available under the refs
// used by the bundled levels.
func RegisterFallbackModels(server *AssetServer) {
	server.RegisterModel("target", func() SceneNode { return FallbackTarget() })
	server.RegisterModel("part1", func() SceneNode { return FallbackPart1() })
	server.RegisterModel("part2", func() SceneNode { return FallbackPart2() })
	server.RegisterModel("part3", func() SceneNode { return FallbackPart3() })
}
