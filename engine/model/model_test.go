package model

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-preview/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCubeGeometry(t *testing.T) {
	cube := NewCube(1)

	require.Len(t, cube.Meshes(), 1)
	mesh := cube.Meshes()[0]
	assert.Len(t, mesh.Vertices, 24)
	assert.Len(t, mesh.Indices, 36)
	assert.Equal(t, 12, cube.TriangleCount())
	assert.False(t, cube.Skinned())

	b := cube.Bounds()
	assert.Equal(t, [3]float32{-0.5, -0.5, -0.5}, b.Min)
	assert.Equal(t, [3]float32{0.5, 0.5, 0.5}, b.Max)
	assert.InDelta(t, 0.8660254, cube.BoundingRadius(), 1e-5)
	assert.NotNil(t, cube.MaterialFor(0))
	assert.Nil(t, cube.MaterialFor(1))
}

func TestCubeWindingFacesOutward(t *testing.T) {
	mesh := NewCube(2).Meshes()[0]
	for i := 0; i < len(mesh.Indices); i += 3 {
		a := mesh.Vertices[mesh.Indices[i]]
		b := mesh.Vertices[mesh.Indices[i+1]]
		c := mesh.Vertices[mesh.Indices[i+2]]
		n := common.Cross3(common.Sub3(b.Position, a.Position), common.Sub3(c.Position, a.Position))
		assert.Greater(t, common.Dot3(n, a.Normal), float32(0), "triangle %d", i/3)
	}
}

func TestAnimationLookup(t *testing.T) {
	m := NewModel(WithAnimations([]*AnimationClip{{Name: "idle"}, {Name: "walk"}}))
	assert.Equal(t, 2, m.AnimationCount())
	assert.Equal(t, []string{"idle", "walk"}, m.AnimationNames())
	assert.Equal(t, 1, m.GetAnimationIndex("walk"))
	assert.Equal(t, -1, m.GetAnimationIndex("run"))
	assert.True(t, m.Bounds().Empty())
	assert.Zero(t, m.BoundingRadius())
}

func TestSkinnedRequiresSkeletonAndWeights(t *testing.T) {
	mesh := Mesh{Vertices: []Vertex{{BoneWeights: [4]float32{1}}}, NodeIndex: -1}
	assert.False(t, NewModel(WithMeshes(mesh)).Skinned())

	skel := &Skeleton{Bones: []Bone{{Name: "root", ParentIndex: -1, LocalTransform: IdentityTransform()}}}
	assert.True(t, NewModel(WithMeshes(mesh), WithSkeleton(skel)).Skinned())
	assert.Equal(t, []Transform{IdentityTransform()}, skel.RestPose())
}

func TestNewModelComputesUnsetBounds(t *testing.T) {
	quad := Mesh{
		Name: "quad",
		Vertices: []Vertex{
			{Position: [3]float32{-1, -1, 0}},
			{Position: [3]float32{1, -1, 0}},
			{Position: [3]float32{1, 1, 0}},
			{Position: [3]float32{-1, 1, 0}},
		},
		Indices: []uint32{0, 1, 2, 0, 2, 3},
	}
	m := NewModel(WithMeshes(quad))
	assert.Equal(t, [3]float32{-1, -1, 0}, m.Bounds().Min)
	assert.Equal(t, [3]float32{1, 1, 0}, m.Bounds().Max)

	preset := quad
	preset.Bounds = common.AABB{Min: [3]float32{-5, -5, -5}, Max: [3]float32{5, 5, 5}}
	assert.Equal(t, preset.Bounds, NewModel(WithMeshes(preset)).Bounds(), "explicit bounds are kept")
}

func TestImportedMaterialsAreKept(t *testing.T) {
	mats := []common.ImportedMaterial{{Name: "red", BaseColor: [4]float32{1, 0, 0, 1}}}
	m := NewModel(WithImportedMaterials(mats))
	require.Len(t, m.ImportedMaterials(), 1)
	assert.Equal(t, "red", m.ImportedMaterials()[0].Name)

	im := &ImportedModel{Name: "import", Materials: mats}
	assert.Equal(t, mats, NewModel(WithImportedModel(im)).ImportedMaterials())
}
