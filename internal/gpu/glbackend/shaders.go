package glbackend

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// quadVertexShader/quadFragmentShader and textVertexShader/textFragmentShader
// are copied near-verbatim from the teacher's render.initGL (same GLSL
// version, same uniform names): a flat-color quad program for filled
// rectangles and an alpha-textured program for glyph atlas sampling.
const quadVertexShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(aPos, 0.0, 1.0);
}
` + "\x00"

const quadFragmentShader = `
#version 410 core
out vec4 FragColor;
uniform vec4 color;
void main() {
	FragColor = color;
}
` + "\x00"

const textVertexShader = `
#version 410 core
layout (location = 0) in vec4 vertex;
out vec2 TexCoords;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	TexCoords = vertex.zw;
}
` + "\x00"

const textFragmentShader = `
#version 410 core
in vec2 TexCoords;
out vec4 FragColor;
uniform sampler2D text;
uniform vec4 textColor;
void main() {
	float alpha = texture(text, TexCoords).r;
	FragColor = vec4(textColor.rgb, textColor.a * alpha);
}
` + "\x00"

const imageVertexShader = `
#version 410 core
layout (location = 0) in vec4 vertex;
out vec2 TexCoords;
uniform mat4 projection;
void main() {
	gl_Position = projection * vec4(vertex.xy, 0.0, 1.0);
	TexCoords = vertex.zw;
}
` + "\x00"

const imageFragmentShader = `
#version 410 core
in vec2 TexCoords;
out vec4 FragColor;
uniform sampler2D img;
uniform float opacity;
void main() {
	vec4 c = texture(img, TexCoords);
	FragColor = vec4(c.rgb, c.a * opacity);
}
` + "\x00"

func orthoMatrix(left, right, bottom, top, near, far float32) [16]float32 {
	return [16]float32{
		2 / (right - left), 0, 0, 0,
		0, 2 / (top - bottom), 0, 0,
		0, 0, -2 / (far - near), 0,
		-(right + left) / (right - left), -(top + bottom) / (top - bottom), -(far + near) / (far - near), 1,
	}
}

func createProgram(vertexSource, fragmentSource string) (uint32, error) {
	vertexShader, err := compileShader(vertexSource, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fragmentShader, err := compileShader(fragmentSource, gl.FRAGMENT_SHADER)
	if err != nil {
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vertexShader)
	gl.AttachShader(program, fragmentShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		logStr := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(logStr))
		return 0, fmt.Errorf("glbackend: link program: %v", logStr)
	}

	gl.DeleteShader(vertexShader)
	gl.DeleteShader(fragmentShader)
	return program, nil
}

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)

	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		logStr := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(logStr))
		return 0, fmt.Errorf("glbackend: compile shader: %v", logStr)
	}
	return shader, nil
}
