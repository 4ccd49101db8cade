package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
	"github.com/chewxy/math32"
)

// nodeGraph orders the nodes of the active scene parents first. Every node in the order
// becomes a bone at the same position.
type nodeGraph struct {
	order  []int
	parent map[int]int
	boneOf map[int]int32
}

func buildNodeGraph(doc *gltfDocument) *nodeGraph {
	g := &nodeGraph{parent: make(map[int]int), boneOf: make(map[int]int32)}

	var roots []int
	switch {
	case len(doc.Scenes) > 0:
		scene := 0
		if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
			scene = *doc.Scene
		}
		roots = doc.Scenes[scene].Nodes
	default:
		children := make(map[int]bool)
		for _, n := range doc.Nodes {
			for _, c := range n.Children {
				children[c] = true
			}
		}
		for i := range doc.Nodes {
			if !children[i] {
				roots = append(roots, i)
			}
		}
	}

	queue := make([]int, 0, len(doc.Nodes))
	for _, r := range roots {
		if r >= 0 && r < len(doc.Nodes) {
			if _, seen := g.boneOf[r]; !seen {
				g.visit(r, -1)
				queue = append(queue, r)
			}
		}
	}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, c := range doc.Nodes[n].Children {
			if c < 0 || c >= len(doc.Nodes) {
				continue
			}
			if _, seen := g.boneOf[c]; seen {
				continue
			}
			g.visit(c, n)
			queue = append(queue, c)
		}
	}
	return g
}

func (g *nodeGraph) visit(node, parent int) {
	g.boneOf[node] = int32(len(g.order))
	g.parent[node] = parent
	g.order = append(g.order, node)
}

func extractSkeleton(parser gltfParser, g *nodeGraph) (*model.Skeleton, error) {
	if len(g.order) == 0 {
		return nil, nil
	}
	doc := parser.Document()
	skel := &model.Skeleton{
		Bones:           make([]model.Bone, len(g.order)),
		BoneNameToIndex: make(map[string]int32, len(g.order)),
	}

	for i, n := range g.order {
		node := &doc.Nodes[n]
		bone := model.Bone{
			Name:           node.Name,
			ParentIndex:    -1,
			LocalTransform: nodeTransform(node),
		}
		if bone.Name == "" {
			bone.Name = fmt.Sprintf("node%d", n)
		}
		if p := g.parent[n]; p >= 0 {
			bone.ParentIndex = g.boneOf[p]
		} else {
			skel.RootBoneIndices = append(skel.RootBoneIndices, int32(i))
		}
		common.Identity(bone.InverseBindMatrix[:])
		if _, dup := skel.BoneNameToIndex[bone.Name]; !dup {
			skel.BoneNameToIndex[bone.Name] = int32(i)
		}
		skel.Bones[i] = bone
	}

	for si, skin := range doc.Skins {
		if skin.InverseBindMatrices == nil {
			continue
		}
		mats, comps, err := parser.ReadFloats(*skin.InverseBindMatrices)
		if err != nil {
			return nil, fmt.Errorf("skin %d: %w", si, err)
		}
		if comps != 16 || len(mats) < 16*len(skin.Joints) {
			return nil, fmt.Errorf("skin %d: inverse bind matrices do not cover %d joints", si, len(skin.Joints))
		}
		for j, joint := range skin.Joints {
			if bi, ok := g.boneOf[joint]; ok {
				copy(skel.Bones[bi].InverseBindMatrix[:], mats[j*16:(j+1)*16])
			}
		}
	}
	return skel, nil
}

func nodeTransform(n *gltfNode) model.Transform {
	if n.Matrix != nil {
		return decomposeMatrix(*n.Matrix)
	}
	t := model.IdentityTransform()
	if n.Translation != nil {
		t.Translation = *n.Translation
	}
	if n.Rotation != nil {
		t.Rotation = common.QuatNormalize(*n.Rotation)
	}
	if n.Scale != nil {
		t.Scale = *n.Scale
	}
	return t
}

// decomposeMatrix splits a column-major affine matrix into translation, rotation and scale.
// Shear is discarded.
func decomposeMatrix(m [16]float32) model.Transform {
	t := model.IdentityTransform()
	t.Translation = [3]float32{m[12], m[13], m[14]}

	cols := [3][3]float32{{m[0], m[1], m[2]}, {m[4], m[5], m[6]}, {m[8], m[9], m[10]}}
	for i := range 3 {
		t.Scale[i] = common.Length3(cols[i])
	}
	if common.Dot3(common.Cross3(cols[0], cols[1]), cols[2]) < 0 {
		t.Scale[0] = -t.Scale[0]
	}
	for i := range 3 {
		if t.Scale[i] != 0 {
			cols[i] = common.Scale3(cols[i], 1/t.Scale[i])
		}
	}
	t.Rotation = quatFromBasis(cols[0], cols[1], cols[2])
	return t
}

// quatFromBasis converts the rotation whose columns are x, y, z into an (x, y, z, w) quaternion.
func quatFromBasis(x, y, z [3]float32) [4]float32 {
	m00, m11, m22 := x[0], y[1], z[2]
	var q [4]float32
	switch trace := m00 + m11 + m22; {
	case trace > 0:
		s := math32.Sqrt(trace+1) * 2
		q = [4]float32{(y[2] - z[1]) / s, (z[0] - x[2]) / s, (x[1] - y[0]) / s, s / 4}
	case m00 > m11 && m00 > m22:
		s := math32.Sqrt(1+m00-m11-m22) * 2
		q = [4]float32{s / 4, (y[0] + x[1]) / s, (z[0] + x[2]) / s, (y[2] - z[1]) / s}
	case m11 > m22:
		s := math32.Sqrt(1+m11-m00-m22) * 2
		q = [4]float32{(y[0] + x[1]) / s, s / 4, (z[1] + y[2]) / s, (z[0] - x[2]) / s}
	default:
		s := math32.Sqrt(1+m22-m00-m11) * 2
		q = [4]float32{(z[0] + x[2]) / s, (z[1] + y[2]) / s, s / 4, (x[1] - y[0]) / s}
	}
	return common.QuatNormalize(q)
}

// worldMatrices composes rest transforms down the node order.
func worldMatrices(skel *model.Skeleton) [][16]float32 {
	if skel == nil {
		return nil
	}
	out := make([][16]float32, len(skel.Bones))
	for i, b := range skel.Bones {
		local := b.LocalTransform.Matrix()
		if b.ParentIndex < 0 {
			out[i] = local
			continue
		}
		common.Mul4(out[i][:], out[b.ParentIndex][:], local[:])
	}
	return out
}
