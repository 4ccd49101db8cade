package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/Carmen-Shannon/oxy-preview/engine/model"
)

// extractMeshes emits one model.Mesh per triangle primitive, visiting mesh nodes in bone order.
// With bake set, rigid meshes are moved into model space with their rest world transform and
// skinned meshes keep their bind-space vertices without weights.
func extractMeshes(parser gltfParser, g *nodeGraph, skel *model.Skeleton, bake bool) ([]model.Mesh, error) {
	doc := parser.Document()
	var worlds [][16]float32
	if bake {
		worlds = worldMatrices(skel)
	}

	var out []model.Mesh
	for bone, n := range g.order {
		node := &doc.Nodes[n]
		if node.Mesh == nil {
			continue
		}
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return nil, fmt.Errorf("node %d: mesh %d out of range", n, *node.Mesh)
		}

		var skin *gltfSkin
		if node.Skin != nil && *node.Skin >= 0 && *node.Skin < len(doc.Skins) {
			skin = &doc.Skins[*node.Skin]
		}

		gm := &doc.Meshes[*node.Mesh]
		for pi := range gm.Primitives {
			prim := &gm.Primitives[pi]
			if prim.Mode != nil && *prim.Mode != gltfModeTriangles {
				common.Logger().Debug("skipping non-triangle primitive", "mesh", gm.Name, "mode", *prim.Mode)
				continue
			}

			mesh, err := extractPrimitive(parser, prim, skin, g)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d: %w", gm.Name, pi, err)
			}
			mesh.Name = gm.Name
			if len(gm.Primitives) > 1 {
				mesh.Name = fmt.Sprintf("%s.%d", gm.Name, pi)
			}
			mesh.NodeIndex = int32(bone)

			if bake {
				bakeMesh(&mesh, worlds[bone])
			}
			mesh.ComputeBounds()
			out = append(out, mesh)
		}
	}
	return out, nil
}

func extractPrimitive(parser gltfParser, prim *gltfPrimitive, skin *gltfSkin, g *nodeGraph) (model.Mesh, error) {
	mesh := model.Mesh{MaterialIndex: -1}
	if prim.Material != nil {
		mesh.MaterialIndex = *prim.Material
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return mesh, fmt.Errorf("no POSITION attribute")
	}
	positions, comps, err := parser.ReadFloats(posIdx)
	if err != nil {
		return mesh, fmt.Errorf("POSITION: %w", err)
	}
	if comps != 3 {
		return mesh, fmt.Errorf("POSITION: %w: %d components", errAccessorFormat, comps)
	}

	count := len(positions) / 3
	verts := make([]model.Vertex, count)
	for i := range verts {
		verts[i].Position = [3]float32{positions[i*3], positions[i*3+1], positions[i*3+2]}
		verts[i].Color = [4]float32{1, 1, 1, 1}
	}

	hasNormals := false
	if err := readAttribute(parser, prim, "NORMAL", count, 3, func(i int, v []float32) {
		verts[i].Normal = common.Normalize3([3]float32{v[0], v[1], v[2]})
		hasNormals = true
	}); err != nil {
		return mesh, err
	}
	if err := readAttribute(parser, prim, "TEXCOORD_0", count, 2, func(i int, v []float32) {
		verts[i].TexCoord = [2]float32{v[0], v[1]}
	}); err != nil {
		return mesh, err
	}
	if err := readAttribute(parser, prim, "COLOR_0", count, 0, func(i int, v []float32) {
		c := [4]float32{1, 1, 1, 1}
		copy(c[:], v)
		verts[i].Color = c
	}); err != nil {
		return mesh, err
	}
	if skin != nil {
		if err := readSkinning(parser, prim, skin, g, verts); err != nil {
			return mesh, err
		}
	}

	if prim.Indices != nil {
		indices, _, err := parser.ReadUints(*prim.Indices)
		if err != nil {
			return mesh, fmt.Errorf("indices: %w", err)
		}
		for _, v := range indices {
			if int(v) >= count {
				return mesh, fmt.Errorf("index %d exceeds %d vertices", v, count)
			}
		}
		mesh.Indices = indices[:len(indices)/3*3]
	} else {
		mesh.Indices = make([]uint32, count/3*3)
		for i := range mesh.Indices {
			mesh.Indices[i] = uint32(i)
		}
	}

	mesh.Vertices = verts
	if !hasNormals {
		computeNormals(&mesh)
	}
	return mesh, nil
}

// readAttribute calls fn per vertex with the attribute's components when the attribute is present.
// want of 0 accepts any component count.
func readAttribute(parser gltfParser, prim *gltfPrimitive, name string, count, want int, fn func(i int, v []float32)) error {
	idx, ok := prim.Attributes[name]
	if !ok {
		return nil
	}
	values, comps, err := parser.ReadFloats(idx)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (want != 0 && comps != want) || len(values) != count*comps {
		return fmt.Errorf("%s: %w: %d components for %d vertices", name, errAccessorFormat, comps, count)
	}
	for i := range count {
		fn(i, values[i*comps:(i+1)*comps])
	}
	return nil
}

// readSkinning maps skin joint slots to bone indices and normalizes the weights.
func readSkinning(parser gltfParser, prim *gltfPrimitive, skin *gltfSkin, g *nodeGraph, verts []model.Vertex) error {
	jIdx, hasJoints := prim.Attributes["JOINTS_0"]
	wIdx, hasWeights := prim.Attributes["WEIGHTS_0"]
	if !hasJoints || !hasWeights {
		return nil
	}

	joints, jc, err := parser.ReadUints(jIdx)
	if err != nil {
		return fmt.Errorf("JOINTS_0: %w", err)
	}
	weights, wc, err := parser.ReadFloats(wIdx)
	if err != nil {
		return fmt.Errorf("WEIGHTS_0: %w", err)
	}
	if jc != 4 || wc != 4 || len(joints) != len(verts)*4 || len(weights) != len(verts)*4 {
		return fmt.Errorf("skinning attributes: %w", errAccessorFormat)
	}

	for i := range verts {
		var total float32
		for k := range 4 {
			slot := int(joints[i*4+k])
			w := weights[i*4+k]
			if w <= 0 || slot >= len(skin.Joints) {
				continue
			}
			bone, ok := g.boneOf[skin.Joints[slot]]
			if !ok {
				continue
			}
			verts[i].BoneIndices[k] = uint32(bone)
			verts[i].BoneWeights[k] = w
			total += w
		}
		if total > 0 {
			for k := range 4 {
				verts[i].BoneWeights[k] /= total
			}
		}
	}
	return nil
}

// bakeMesh moves a mesh into model space and detaches it from its node.
func bakeMesh(mesh *model.Mesh, world [16]float32) {
	mesh.NodeIndex = -1
	if mesh.Skinned() {
		for i := range mesh.Vertices {
			mesh.Vertices[i].BoneWeights = [4]float32{}
			mesh.Vertices[i].BoneIndices = [4]uint32{}
		}
		return
	}
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		p := common.TransformPoint(world[:], v.Position)
		v.Position = [3]float32{p[0], p[1], p[2]}
		v.Normal = common.Normalize3(common.TransformDirection(world[:], v.Normal))
	}
}

// computeNormals assigns area-weighted smooth normals from the triangle faces.
func computeNormals(mesh *model.Mesh) {
	for t := 0; t+2 < len(mesh.Indices); t += 3 {
		a, b, c := mesh.Indices[t], mesh.Indices[t+1], mesh.Indices[t+2]
		pa, pb, pc := mesh.Vertices[a].Position, mesh.Vertices[b].Position, mesh.Vertices[c].Position
		n := common.Cross3(common.Sub3(pb, pa), common.Sub3(pc, pa))
		for _, i := range [3]uint32{a, b, c} {
			mesh.Vertices[i].Normal = common.Add3(mesh.Vertices[i].Normal, n)
		}
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Normal = common.Normalize3(mesh.Vertices[i].Normal)
	}
}
