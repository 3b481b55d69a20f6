package shader

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/pkg/errors"

	"github.com/eulertour/manim-opengl-tutorial/internal/render"
)

// Program is a linked GL program whose active uniforms form its input
// declaration. It implements render.Declared, so the binder writes
// straight into it.
type Program struct {
	id        uint32
	decl      render.Declaration
	locations map[string]int32
}

// NewProgram compiles and links vs and fs and reflects the active uniforms.
// Uniforms of types the renderer does not set (samplers, ints) are left
// out of the declaration.
func NewProgram(vs, fs string) (*Program, error) {
	id, err := CompileProgram(vs, fs)
	if err != nil {
		return nil, errors.Wrap(err, "compile program")
	}
	p := &Program{id: id, decl: make(render.Declaration), locations: make(map[string]int32)}
	p.reflect()
	return p, nil
}

func (p *Program) reflect() {
	var count, maxLen int32
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORMS, &count)
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORM_MAX_LENGTH, &maxLen)
	if count == 0 || maxLen == 0 {
		return
	}
	buf := make([]uint8, maxLen)

	for i := uint32(0); i < uint32(count); i++ {
		var length, size int32
		var typ uint32
		gl.GetActiveUniform(p.id, i, maxLen, &length, &size, &typ, &buf[0])
		kind := kindOf(typ)
		if kind == render.KindInvalid {
			continue
		}
		name := string(buf[:length])
		if size > 1 {
			name = strings.TrimSuffix(name, "[0]")
		}
		loc := GetUniform(p.id, name)
		if loc < 0 {
			continue
		}
		p.decl[name] = kind
		p.locations[name] = loc
	}
}

func kindOf(glType uint32) render.Kind {
	switch glType {
	case gl.FLOAT:
		return render.KindFloat
	case gl.FLOAT_VEC2:
		return render.KindVec2
	case gl.FLOAT_VEC3:
		return render.KindVec3
	case gl.FLOAT_VEC4:
		return render.KindVec4
	case gl.FLOAT_MAT3:
		return render.KindMat3
	case gl.FLOAT_MAT4:
		return render.KindMat4
	case gl.BOOL:
		return render.KindBool
	}
	return render.KindInvalid
}

// ID returns the GL program name.
func (p *Program) ID() uint32 { return p.id }

// Use makes the program current.
func (p *Program) Use() { gl.UseProgram(p.id) }

// Delete releases the GL program.
func (p *Program) Delete() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// Declaration implements render.Declared.
func (p *Program) Declaration() render.Declaration { return p.decl }

// HasInput implements render.Inputs.
func (p *Program) HasInput(name string) bool {
	_, ok := p.locations[name]
	return ok
}

// SetInput implements render.Inputs. Values whose kind differs from the
// uniform's type are ignored.
func (p *Program) SetInput(name string, v render.Value) {
	loc, ok := p.locations[name]
	if !ok || p.decl[name] != v.Kind() {
		return
	}
	f := v.Floats()
	switch v.Kind() {
	case render.KindFloat:
		gl.ProgramUniform1f(p.id, loc, f[0])
	case render.KindVec2:
		gl.ProgramUniform2fv(p.id, loc, 1, &f[0])
	case render.KindVec3:
		gl.ProgramUniform3fv(p.id, loc, 1, &f[0])
	case render.KindVec4:
		gl.ProgramUniform4fv(p.id, loc, 1, &f[0])
	case render.KindMat3:
		gl.ProgramUniformMatrix3fv(p.id, loc, 1, false, &f[0])
	case render.KindMat4:
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &f[0])
	case render.KindBool:
		var b int32
		if v.Bool() {
			b = 1
		}
		gl.ProgramUniform1i(p.id, loc, b)
	}
}
