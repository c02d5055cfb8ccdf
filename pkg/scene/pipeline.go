package scene

import (
	"github.com/taigrr/vib4d/pkg/geometry"
	"github.com/taigrr/vib4d/pkg/math4d"
)

// maxCachedMeshes bounds the mesh cache of one pipeline.
const maxCachedMeshes = 32

type meshKey struct {
	index      geometry.Index
	resolution int
}

// Frame is one frame of transformed geometry. Mesh holds the unwarped
// topology; Rotated holds each vertex after rotation and the core warp, in
// the order the lattice field applies them. Its slices belong to the
// pipeline and are overwritten by the next call.
type Frame struct {
	Params   Params
	Time     float64
	Mesh     *geometry.Mesh
	Angles   math4d.Angles
	Rotation math4d.Mat4
	Rotated  []math4d.Vec4
	Points   []math4d.Vec3
}

// Pipeline turns parameter snapshots into projected geometry for one
// surface. It is not safe for concurrent use; give each surface its own.
type Pipeline struct {
	meshes map[meshKey]*geometry.Mesh
	frame  Frame
}

// NewPipeline returns an empty pipeline.
func NewPipeline() *Pipeline {
	return &Pipeline{meshes: make(map[meshKey]*geometry.Mesh)}
}

// Mesh returns the unwarped mesh for p, generating it on first use.
func (pl *Pipeline) Mesh(p Params) (*geometry.Mesh, error) {
	key := meshKey{
		index:      p.Geometry,
		resolution: geometry.ResolutionForDensity(p.GridDensity),
	}
	if m, ok := pl.meshes[key]; ok {
		return m, nil
	}
	m, err := geometry.GenerateBase(key.index, key.resolution)
	if err != nil {
		return nil, err
	}
	if len(pl.meshes) >= maxCachedMeshes {
		clear(pl.meshes)
	}
	pl.meshes[key] = m
	return m, nil
}

// Frame rotates, warps and projects the mesh selected by p at time t
// seconds.
func (pl *Pipeline) Frame(p Params, t float64) (*Frame, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	warp := p.warpOptions()
	if err := warp.Validate(); err != nil {
		return nil, err
	}
	m, err := pl.Mesh(p)
	if err != nil {
		return nil, err
	}
	f := &pl.frame
	f.Params = p
	f.Time = t
	f.Mesh = m
	f.Angles = p.AnglesAt(t)
	f.Rotation = math4d.Rotation(f.Angles)

	if cap(f.Rotated) < len(m.Vertices) {
		f.Rotated = make([]math4d.Vec4, len(m.Vertices))
	}
	f.Rotated = f.Rotated[:len(m.Vertices)]
	for i, v := range m.Vertices {
		f.Rotation.MulVec4To(&f.Rotated[i], v)
	}
	warp.ApplyAll(p.Geometry.Core(), f.Rotated)
	f.Points = p.projection().ProjectBatch(f.Points, f.Rotated)
	return f, nil
}
