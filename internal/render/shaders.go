package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Field vertex shader: fullscreen quad in clip space, uv derived in place.
const fieldVertSrc = `#version 410 core

layout(location = 0) in vec2 aPos;

out vec2 vUV;

void main() {
    vUV = aPos * 0.5 + 0.5;
    gl_Position = vec4(aPos, 0.0, 1.0);
}
` + "\x00"

// Field fragment shader: the animated background. Mirrors the CPU field in
// the engine package term for term; only the noise hash differs (GLSL 410
// has no 64-bit integers, so the lattice uses the usual sin-dot hash).
const fieldFragSrc = `#version 410 core

uniform float uTime;
uniform float uEnergy;
uniform float uMood;
uniform vec3 uC1;
uniform vec3 uC2;
uniform vec3 uC3;

in vec2 vUV;
out vec4 FragColor;

float hash2(vec2 p) {
    return fract(sin(dot(p, vec2(127.1, 311.7))) * 43758.5453123);
}

float vnoise(vec2 p) {
    vec2 i = floor(p);
    vec2 f = fract(p);
    vec2 u = f * f * (3.0 - 2.0 * f);
    float a = hash2(i);
    float b = hash2(i + vec2(1.0, 0.0));
    float c = hash2(i + vec2(0.0, 1.0));
    float d = hash2(i + vec2(1.0, 1.0));
    return mix(mix(a, b, u.x), mix(c, d, u.x), u.y);
}

void main() {
    float px = vUV.x * 2.0 - 1.0;
    float py = vUV.y * 2.0 - 1.0;
    float mood = clamp(uMood, 0.0, 1.0);
    float freq = 2.0 + mood * 6.0;
    float amp = 0.5 + mood;

    float f1 = sin(px * freq + uTime * 0.7) * cos(py * freq * 0.8 - uTime * 0.5);
    float f2 = sin((px + py) * freq * 0.5 + uTime * 0.3);
    float field = (f1 + f2) * 0.5 * amp;
    float n = vnoise(vec2(px * 3.0 + uTime * 0.2, py * 3.0 - uTime * 0.15)) * mood;

    float intensity = clamp(field * 0.35 + 0.5 + n * 0.4, 0.0, 1.0);

    float bias = clamp(vUV.y * 0.35 + intensity * 0.65, 0.0, 1.0);
    bias = mix(bias, smoothstep(0.25, 0.75, bias), mood);
    vec3 col = mix(uC1, uC2, bias);

    float glow = smoothstep(0.55, 0.95, intensity) * clamp(uEnergy, 0.0, 1.0);
    col = mix(col, uC3, glow);

    float vig = 1.0 - smoothstep(0.6, 1.45, length(vec2(px, py))) * 0.7;
    col *= vig;

    if (mood > 0.5) {
        float g = 1.0 - (mood - 0.5) * 0.3;
        col = pow(col, vec3(g));
    }
    FragColor = vec4(col, 1.0);
}
` + "\x00"

// Mesh vertex shader: instanced draw with a per-instance model matrix
// streamed as four vec4 columns plus a color.
const meshVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in vec4 aModel0;
layout(location = 2) in vec4 aModel1;
layout(location = 3) in vec4 aModel2;
layout(location = 4) in vec4 aModel3;
layout(location = 5) in vec3 aColor;

uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out vec3 vColor;

void main() {
    mat4 model = mat4(aModel0, aModel1, aModel2, aModel3);
    vec4 world = model * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vColor = aColor;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// Mesh fragment shader: flat shading from screen-space derivatives with a
// headlight at the eye. abs() keeps back faces lit since culling is off.
const meshFragSrc = `#version 410 core

uniform vec3 uEye;

in vec3 vWorld;
in vec3 vColor;
out vec4 FragColor;

void main() {
    vec3 n = normalize(cross(dFdx(vWorld), dFdy(vWorld)));
    vec3 l = normalize(uEye - vWorld);
    float diff = abs(dot(n, l));
    FragColor = vec4(vColor * (0.35 + 0.65 * diff), 1.0);
}
` + "\x00"

// Surface vertex shader: deformed vertices streamed every frame with their
// displacement factor; one shared model matrix carries the spin.
const surfaceVertSrc = `#version 410 core

layout(location = 0) in vec3 aPos;
layout(location = 1) in float aDisp;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProj;

out vec3 vWorld;
out float vDisp;

void main() {
    vec4 world = uModel * vec4(aPos, 1.0);
    vWorld = world.xyz;
    vDisp = aDisp;
    gl_Position = uProj * uView * world;
}
` + "\x00"

// Surface fragment shader: displacement drives the primary/secondary mix,
// flat shading as in the mesh program. Disp sits around 1 at rest.
const surfaceFragSrc = `#version 410 core

uniform vec3 uEye;
uniform vec3 uPrimary;
uniform vec3 uSecondary;

in vec3 vWorld;
in float vDisp;
out vec4 FragColor;

void main() {
    vec3 n = normalize(cross(dFdx(vWorld), dFdy(vWorld)));
    vec3 l = normalize(uEye - vWorld);
    float diff = abs(dot(n, l));
    float t = clamp((vDisp - 1.0) * 1.6 + 0.5, 0.0, 1.0);
    vec3 col = mix(uPrimary, uSecondary, t);
    FragColor = vec4(col * (0.3 + 0.7 * diff), 1.0);
}
` + "\x00"

// Glow vertex shader: one point sprite per instance, sized by perspective
// so halos shrink with distance.
const glowVertSrc = `#version 410 core

layout(location = 0) in vec3 aWorldPos;
layout(location = 1) in vec3 aColor;
layout(location = 2) in float aSize;

uniform mat4 uView;
uniform mat4 uProj;
uniform float uPointScale;

out vec3 vColor;

void main() {
    vec4 clip = uProj * uView * vec4(aWorldPos, 1.0);
    gl_Position = clip;
    float w = max(clip.w, 0.001);
    gl_PointSize = clamp(uPointScale * aSize / w, 2.0, 512.0);
    vColor = aColor;
}
` + "\x00"

// Glow fragment shader: additive radial falloff weighted by the preset
// bloom. Quadratic falloff reads as a light halo.
const glowFragSrc = `#version 410 core

uniform float uBloom;

in vec3 vColor;
out vec4 FragColor;

void main() {
    float dist = length(gl_PointCoord - vec2(0.5)) * 2.0;
    float falloff = clamp(1.0 - dist, 0.0, 1.0);
    falloff = falloff * falloff;
    FragColor = vec4(vColor * falloff * uBloom, 1.0);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
