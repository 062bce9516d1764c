package backend

// UniformFormat describes the GLSL type of a uniform written by Context.Uniform.
type UniformFormat uint8

// Uniform formats.
const (
	UniformFloat UniformFormat = iota
	UniformVec2
	UniformVec3
	UniformVec4
	UniformInt
	UniformIVec2
	UniformIVec3
	UniformIVec4
	UniformUint
	UniformUVec2
	UniformUVec3
	UniformUVec4
	UniformMat2
	UniformMat3
	UniformMat4
)

var uniformFormatNames = [...]string{
	UniformFloat: "float",
	UniformVec2:  "vec2",
	UniformVec3:  "vec3",
	UniformVec4:  "vec4",
	UniformInt:   "int",
	UniformIVec2: "ivec2",
	UniformIVec3: "ivec3",
	UniformIVec4: "ivec4",
	UniformUint:  "uint",
	UniformUVec2: "uvec2",
	UniformUVec3: "uvec3",
	UniformUVec4: "uvec4",
	UniformMat2:  "mat2",
	UniformMat3:  "mat3",
	UniformMat4:  "mat4",
}

// String returns the GLSL type name.
func (f UniformFormat) String() string {
	if int(f) < len(uniformFormatNames) {
		return uniformFormatNames[f]
	}
	return "unknown"
}

// Components returns the number of 32-bit scalars in one element.
func (f UniformFormat) Components() int {
	switch f {
	case UniformFloat, UniformInt, UniformUint:
		return 1
	case UniformVec2, UniformIVec2, UniformUVec2:
		return 2
	case UniformVec3, UniformIVec3, UniformUVec3:
		return 3
	case UniformVec4, UniformIVec4, UniformUVec4, UniformMat2:
		return 4
	case UniformMat3:
		return 9
	case UniformMat4:
		return 16
	default:
		return 0
	}
}

// Size returns the byte size of one element.
func (f UniformFormat) Size() int {
	return f.Components() * 4
}
