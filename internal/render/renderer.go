package render

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"vibe/internal/engine"
)

// Projection and sprite sizing.
const (
	fovDegrees = 60.0
	nearPlane  = 0.1
	farPlane   = 200.0

	// Tessellation for the instanced particle mesh. The surface path uses
	// the engine's own detail level.
	meshDetail = 2

	// Halo diameter per unit of instance scale for the bloom pass.
	glowSpread = 2.5
)

// Floats per instance in the streamed buffer: a mat4 in column order,
// RGB, and the halo size. The glow VAO reads the translation column and
// the tail directly out of the same buffer.
const instStride = 20

// glOffset converts a byte offset to unsafe.Pointer for VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type Renderer struct {
	// Background field program.
	fieldProg uint32
	fieldVAO  uint32
	fieldVBO  uint32

	fldUTime   int32
	fldUEnergy int32
	fldUMood   int32
	fldUC1     int32
	fldUC2     int32
	fldUC3     int32

	// Instanced mesh program.
	meshProg uint32
	meshVAO  uint32
	meshVBO  uint32
	meshEBO  uint32
	instVBO  uint32

	meshUView int32
	meshUProj int32
	meshUEye  int32

	meshGeom    engine.Geometry
	meshIndices int32
	meshReady   bool

	// Glow pass reads the instance buffer through its own VAO,
	// additive blend only.
	glowProg uint32
	glowVAO  uint32

	glowUView  int32
	glowUProj  int32
	glowUScale int32
	glowUBloom int32

	// Surface program: deformed mesh streamed every frame.
	surfProg uint32
	surfVAO  uint32
	surfVBO  uint32
	surfEBO  uint32

	surfUModel     int32
	surfUView      int32
	surfUProj      int32
	surfUEye       int32
	surfUPrimary   int32
	surfUSecondary int32

	surfGeom    engine.Geometry
	surfIndices int32
	surfReady   bool

	// Reusable upload buffers to avoid per-frame heap allocations.
	instBuf []float32
	surfBuf []float32

	view mgl32.Mat4
	proj mgl32.Mat4
	eye  mgl32.Vec3
}

func NewRenderer() (*Renderer, error) {
	fieldProg, err := linkProgram(fieldVertSrc, fieldFragSrc)
	if err != nil {
		return nil, fmt.Errorf("field program: %w", err)
	}
	meshProg, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		gl.DeleteProgram(fieldProg)
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	glowProg, err := linkProgram(glowVertSrc, glowFragSrc)
	if err != nil {
		gl.DeleteProgram(fieldProg)
		gl.DeleteProgram(meshProg)
		return nil, fmt.Errorf("glow program: %w", err)
	}
	surfProg, err := linkProgram(surfaceVertSrc, surfaceFragSrc)
	if err != nil {
		gl.DeleteProgram(fieldProg)
		gl.DeleteProgram(meshProg)
		gl.DeleteProgram(glowProg)
		return nil, fmt.Errorf("surface program: %w", err)
	}

	r := &Renderer{
		fieldProg: fieldProg,
		meshProg:  meshProg,
		glowProg:  glowProg,
		surfProg:  surfProg,
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)

	// Field VAO/VBO: a fullscreen strip.
	gl.GenVertexArrays(1, &r.fieldVAO)
	gl.GenBuffers(1, &r.fieldVBO)
	gl.BindVertexArray(r.fieldVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.fieldVBO)

	quad := [8]float32{-1, -1, 1, -1, -1, 1, 1, 1}
	gl.BufferData(gl.ARRAY_BUFFER, len(quad)*4, gl.Ptr(&quad[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))

	gl.UseProgram(fieldProg)
	r.fldUTime = gl.GetUniformLocation(fieldProg, gl.Str("uTime\x00"))
	r.fldUEnergy = gl.GetUniformLocation(fieldProg, gl.Str("uEnergy\x00"))
	r.fldUMood = gl.GetUniformLocation(fieldProg, gl.Str("uMood\x00"))
	r.fldUC1 = gl.GetUniformLocation(fieldProg, gl.Str("uC1\x00"))
	r.fldUC2 = gl.GetUniformLocation(fieldProg, gl.Str("uC2\x00"))
	r.fldUC3 = gl.GetUniformLocation(fieldProg, gl.Str("uC3\x00"))

	// Mesh VAO: vertex positions from the geometry buffer, everything else
	// per instance from the streamed buffer.
	gl.GenVertexArrays(1, &r.meshVAO)
	gl.GenBuffers(1, &r.meshVBO)
	gl.GenBuffers(1, &r.meshEBO)
	gl.GenBuffers(1, &r.instVBO)
	gl.BindVertexArray(r.meshVAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, glOffset(0))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)

	stride := int32(instStride * 4)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	gl.BufferData(gl.ARRAY_BUFFER, engine.InstanceCount*int(stride), nil, gl.STREAM_DRAW)
	for i := uint32(0); i < 4; i++ {
		gl.EnableVertexAttribArray(1 + i)
		gl.VertexAttribPointer(1+i, 4, gl.FLOAT, false, stride, glOffset(int(i)*16))
		gl.VertexAttribDivisor(1+i, 1)
	}
	gl.EnableVertexAttribArray(5)
	gl.VertexAttribPointer(5, 3, gl.FLOAT, false, stride, glOffset(16*4))
	gl.VertexAttribDivisor(5, 1)

	gl.UseProgram(meshProg)
	r.meshUView = gl.GetUniformLocation(meshProg, gl.Str("uView\x00"))
	r.meshUProj = gl.GetUniformLocation(meshProg, gl.Str("uProj\x00"))
	r.meshUEye = gl.GetUniformLocation(meshProg, gl.Str("uEye\x00"))

	// Glow VAO: one point per instance straight out of the instance
	// buffer. The world position is the translation column of the mat4.
	gl.GenVertexArrays(1, &r.glowVAO)
	gl.BindVertexArray(r.glowVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, stride, glOffset(12*4))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 3, gl.FLOAT, false, stride, glOffset(16*4))
	gl.EnableVertexAttribArray(2)
	gl.VertexAttribPointer(2, 1, gl.FLOAT, false, stride, glOffset(19*4))

	gl.UseProgram(glowProg)
	r.glowUView = gl.GetUniformLocation(glowProg, gl.Str("uView\x00"))
	r.glowUProj = gl.GetUniformLocation(glowProg, gl.Str("uProj\x00"))
	r.glowUScale = gl.GetUniformLocation(glowProg, gl.Str("uPointScale\x00"))
	r.glowUBloom = gl.GetUniformLocation(glowProg, gl.Str("uBloom\x00"))

	// Surface VAO: interleaved position + displacement, streamed per frame.
	gl.GenVertexArrays(1, &r.surfVAO)
	gl.GenBuffers(1, &r.surfVBO)
	gl.GenBuffers(1, &r.surfEBO)
	gl.BindVertexArray(r.surfVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.surfVBO)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 4*4, glOffset(0))
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 1, gl.FLOAT, false, 4*4, glOffset(3*4))
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.surfEBO)

	gl.UseProgram(surfProg)
	r.surfUModel = gl.GetUniformLocation(surfProg, gl.Str("uModel\x00"))
	r.surfUView = gl.GetUniformLocation(surfProg, gl.Str("uView\x00"))
	r.surfUProj = gl.GetUniformLocation(surfProg, gl.Str("uProj\x00"))
	r.surfUEye = gl.GetUniformLocation(surfProg, gl.Str("uEye\x00"))
	r.surfUPrimary = gl.GetUniformLocation(surfProg, gl.Str("uPrimary\x00"))
	r.surfUSecondary = gl.GetUniformLocation(surfProg, gl.Str("uSecondary\x00"))

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range []uint32{r.fieldVBO, r.meshVBO, r.meshEBO, r.instVBO, r.surfVBO, r.surfEBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.fieldVAO, r.meshVAO, r.glowVAO, r.surfVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.fieldProg, r.meshProg, r.glowProg, r.surfProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// Draw renders one frame: background field first with depth off, then the
// instance cloud or the deformed surface, then the additive glow pass.
func (r *Renderer) Draw(out *engine.FrameOutput, fbW, fbH int) {
	if fbW < 1 || fbH < 1 {
		return
	}
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	gl.ClearColor(colorChan(out.Field.C1.R), colorChan(out.Field.C1.G), colorChan(out.Field.C1.B), 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	r.drawField(out.Field)

	aspect := float32(fbW) / float32(fbH)
	r.proj = mgl32.Perspective(mgl32.DegToRad(fovDegrees), aspect, nearPlane, farPlane)
	r.eye = vec3To32(out.Camera.Position)
	r.view = mgl32.LookAtV(r.eye, vec3To32(out.Camera.Target), mgl32.Vec3{0, 1, 0})

	if out.Surface != nil {
		r.drawSurface(out)
	}
	if len(out.Instances) > 0 {
		r.drawInstances(out, fbH)
	}
}

func (r *Renderer) drawField(fp engine.FieldParams) {
	gl.Disable(gl.DEPTH_TEST)
	gl.UseProgram(r.fieldProg)
	gl.BindVertexArray(r.fieldVAO)
	gl.Uniform1f(r.fldUTime, float32(fp.Time))
	gl.Uniform1f(r.fldUEnergy, float32(fp.Energy))
	gl.Uniform1f(r.fldUMood, float32(fp.Mood))
	uniformRGB(r.fldUC1, fp.C1)
	uniformRGB(r.fldUC2, fp.C2)
	uniformRGB(r.fldUC3, fp.C3)
	gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawInstances(out *engine.FrameOutput, fbH int) {
	r.ensureMesh(out.Preset.Geometry)
	if r.meshIndices == 0 {
		return
	}

	inst := out.Instances
	need := len(inst) * instStride
	if cap(r.instBuf) < need {
		r.instBuf = make([]float32, need)
	}
	buf := r.instBuf[:need]
	for i := range inst {
		in := &inst[i]
		sc := float32(in.Scale)
		spin := float32(in.Spin)
		model := mgl32.Translate3D(float32(in.Pos[0]), float32(in.Pos[1]), float32(in.Pos[2])).
			Mul4(mgl32.HomogRotate3DY(spin)).
			Mul4(mgl32.HomogRotate3DX(spin * 0.6)).
			Mul4(mgl32.Scale3D(sc, sc, sc))
		o := i * instStride
		copy(buf[o:o+16], model[:])
		buf[o+16] = colorChan(in.Color.R)
		buf[o+17] = colorChan(in.Color.G)
		buf[o+18] = colorChan(in.Color.B)
		buf[o+19] = sc * glowSpread
	}

	count := int32(len(inst))
	gl.UseProgram(r.meshProg)
	gl.UniformMatrix4fv(r.meshUView, 1, false, &r.view[0])
	gl.UniformMatrix4fv(r.meshUProj, 1, false, &r.proj[0])
	gl.Uniform3f(r.meshUEye, r.eye[0], r.eye[1], r.eye[2])
	gl.BindVertexArray(r.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.instVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawElementsInstanced(gl.TRIANGLES, r.meshIndices, gl.UNSIGNED_INT, glOffset(0), count)

	if out.Bloom <= 0 {
		return
	}

	// Halos ignore depth so they wash over geometry like a post pass.
	gl.UseProgram(r.glowProg)
	gl.UniformMatrix4fv(r.glowUView, 1, false, &r.view[0])
	gl.UniformMatrix4fv(r.glowUProj, 1, false, &r.proj[0])
	gl.Uniform1f(r.glowUScale, pointScale(fbH))
	gl.Uniform1f(r.glowUBloom, float32(out.Bloom))
	gl.BindVertexArray(r.glowVAO)
	gl.Disable(gl.DEPTH_TEST)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.ONE, gl.ONE)
	gl.DrawArrays(gl.POINTS, 0, count)
	gl.Disable(gl.BLEND)
	gl.Enable(gl.DEPTH_TEST)
}

func (r *Renderer) drawSurface(out *engine.FrameOutput) {
	s := out.Surface
	r.ensureSurface(out.Preset.Geometry, s)
	if r.surfIndices == 0 {
		return
	}

	need := len(s.Live) * 4
	if cap(r.surfBuf) < need {
		r.surfBuf = make([]float32, need)
	}
	buf := r.surfBuf[:need]
	for i, v := range s.Live {
		o := i * 4
		buf[o] = float32(v[0])
		buf[o+1] = float32(v[1])
		buf[o+2] = float32(v[2])
		buf[o+3] = float32(s.Disp[i])
	}

	model := mgl32.HomogRotate3DY(float32(s.Spin))
	gl.UseProgram(r.surfProg)
	gl.UniformMatrix4fv(r.surfUModel, 1, false, &model[0])
	gl.UniformMatrix4fv(r.surfUView, 1, false, &r.view[0])
	gl.UniformMatrix4fv(r.surfUProj, 1, false, &r.proj[0])
	gl.Uniform3f(r.surfUEye, r.eye[0], r.eye[1], r.eye[2])
	uniformRGB(r.surfUPrimary, out.Field.C2)
	uniformRGB(r.surfUSecondary, out.Field.C3)
	gl.BindVertexArray(r.surfVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.surfVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(buf)*4, gl.Ptr(buf), gl.STREAM_DRAW)
	gl.DrawElements(gl.TRIANGLES, r.surfIndices, gl.UNSIGNED_INT, glOffset(0))
}

// ensureMesh uploads the geometry for the instanced pass, rebuilding the
// vertex and index buffers only when the preset geometry changed.
func (r *Renderer) ensureMesh(g engine.Geometry) {
	if r.meshReady && r.meshGeom == g {
		return
	}
	mesh := engine.BuildMesh(g, meshDetail, 1)
	verts := make([]float32, 0, len(mesh.Verts)*3)
	for _, v := range mesh.Verts {
		verts = append(verts, float32(v[0]), float32(v[1]), float32(v[2]))
	}

	gl.BindVertexArray(r.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(verts)*4, gl.Ptr(verts), gl.STATIC_DRAW)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.meshEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, gl.Ptr(mesh.Indices), gl.STATIC_DRAW)

	r.meshGeom = g
	r.meshIndices = int32(len(mesh.Indices))
	r.meshReady = true
}

// ensureSurface uploads the index buffer for the deformed surface. Vertex
// data streams every frame; only the topology is geometry-scoped.
func (r *Renderer) ensureSurface(g engine.Geometry, s *engine.SurfaceMesh) {
	if r.surfReady && r.surfGeom == g {
		return
	}
	gl.BindVertexArray(r.surfVAO)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, r.surfEBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(s.Indices)*4, gl.Ptr(s.Indices), gl.STATIC_DRAW)

	r.surfGeom = g
	r.surfIndices = int32(len(s.Indices))
	r.surfReady = true
}

// pointScale converts a world-space sprite diameter to pixels per unit of
// 1/w, the standard perspective point size term.
func pointScale(fbH int) float32 {
	return float32(fbH) / (2 * float32(math.Tan(float64(mgl32.DegToRad(fovDegrees))/2)))
}

func colorChan(c uint8) float32 { return float32(c) / 255 }

func uniformRGB(loc int32, c engine.RGB) {
	gl.Uniform3f(loc, colorChan(c.R), colorChan(c.G), colorChan(c.B))
}

func vec3To32(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
