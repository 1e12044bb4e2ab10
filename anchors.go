package snapfit

import (
	"strings"
)

// Reserved marker prefixes in model node names.
const (
	SocketPrefix      = "_SOCKET_"
	AttachPointPrefix = "_AP_"
)

type AnchorRole int

const (
	RoleSocket AnchorRole = iota
	RoleAttachPoint
)

func (r AnchorRole) String() string {
	if r == RoleAttachPoint {
		return "attach"
	}
	return "socket"
}

// Anchor is a named point with orientation. Sockets are stored in world
// space, attach points in their part's local frame.
type Anchor struct {
	Name      string
	Role      AnchorRole
	Transform Transform
}

// ExtractSockets walks the target model and returns every socket marker in
// world space. Both _SOCKET_ and _AP_ markers on the target count as sockets.
// The root's own transform places the target in the world.
func ExtractSockets(target SceneNode) []Anchor {
	var sockets []Anchor
	Walk(target, IdentityTransform(), func(node SceneNode, world Transform) bool {
		if name, ok := stripMarkerPrefix(node.Name(), SocketPrefix, AttachPointPrefix); ok {
			sockets = append(sockets, Anchor{Name: name, Role: RoleSocket, Transform: world})
		}
		return true
	})
	return sockets
}

// ExtractAttachPoints walks a part model and returns its attach points in the
// part's frame, i.e. relative to the root node. The root's own transform is
// the part pose and is supplied separately on every snap attempt.
func ExtractAttachPoints(part SceneNode) []Anchor {
	if part == nil {
		return nil
	}
	var points []Anchor
	collect := func(node SceneNode, local Transform) bool {
		if name, ok := stripMarkerPrefix(node.Name(), AttachPointPrefix); ok {
			points = append(points, Anchor{Name: name, Role: RoleAttachPoint, Transform: local})
		}
		return true
	}
	collect(part, IdentityTransform())
	for _, child := range part.Children() {
		Walk(child, IdentityTransform(), collect)
	}
	return points
}

func stripMarkerPrefix(name string, prefixes ...string) (string, bool) {
	for _, p := range prefixes {
		if bare, ok := strings.CutPrefix(name, p); ok {
			return bare, bare != ""
		}
	}
	return "", false
}
