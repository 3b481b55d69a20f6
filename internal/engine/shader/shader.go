// Package shader compiles GLSL programs and exposes their uniforms as
// render inputs.
package shader

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"
)

type stage struct {
	kind uint32
	name string
	src  string
}

// CompileProgram compiles a vertex and a fragment shader and links them.
// The returned program name must be released with gl.DeleteProgram.
func CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	stages := []stage{
		{gl.VERTEX_SHADER, "vertex", vertexSrc},
		{gl.FRAGMENT_SHADER, "fragment", fragmentSrc},
	}

	program := gl.CreateProgram()
	for _, s := range stages {
		sh, err := compile(s)
		if err != nil {
			gl.DeleteProgram(program)
			return 0, err
		}
		gl.AttachShader(program, sh)
		// Flagged for deletion; freed once the program is.
		gl.DeleteShader(sh)
	}
	gl.LinkProgram(program)

	if !status(program, gl.GetProgramiv, gl.LINK_STATUS) {
		msg := infoLog(program, gl.GetProgramiv, gl.GetProgramInfoLog)
		gl.DeleteProgram(program)
		return 0, errors.Errorf("link: %s", msg)
	}
	return program, nil
}

func compile(s stage) (uint32, error) {
	sh := gl.CreateShader(s.kind)
	csource, free := gl.Strs(s.src + "\x00")
	gl.ShaderSource(sh, 1, csource, nil)
	free()
	gl.CompileShader(sh)

	if !status(sh, gl.GetShaderiv, gl.COMPILE_STATUS) {
		msg := infoLog(sh, gl.GetShaderiv, gl.GetShaderInfoLog)
		gl.DeleteShader(sh)
		return 0, errors.Errorf("%s shader: %s", s.name, msg)
	}
	return sh, nil
}

type getiv func(id uint32, pname uint32, params *int32)

func status(id uint32, get getiv, pname uint32) bool {
	var v int32
	get(id, pname, &v)
	return v != gl.FALSE
}

func infoLog(id uint32, get getiv, read func(uint32, int32, *int32, *uint8)) string {
	var n int32
	get(id, gl.INFO_LOG_LENGTH, &n)
	if n == 0 {
		return "no info log"
	}
	buf := make([]uint8, n+1)
	read(id, n, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

// GetUniform returns the uniform location for the given name, or -1 if the
// program has no active uniform of that name.
func GetUniform(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}
