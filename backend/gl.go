package backend

// OpenGL 4.3 core enum values used by the replay engine.
const (
	NONE  = 0x0
	ZERO  = 0x0
	ONE   = 0x1
	FALSE = 0
	TRUE  = 1

	// Errors.
	NO_ERROR                      = 0x0
	INVALID_ENUM                  = 0x0500
	INVALID_VALUE                 = 0x0501
	INVALID_OPERATION             = 0x0502
	STACK_OVERFLOW                = 0x0503
	STACK_UNDERFLOW               = 0x0504
	OUT_OF_MEMORY                 = 0x0505
	INVALID_FRAMEBUFFER_OPERATION = 0x0506
	CONTEXT_LOST                  = 0x0507

	// Strings and limits.
	VENDOR                          = 0x1F00
	RENDERER                        = 0x1F01
	VERSION                         = 0x1F02
	SHADING_LANGUAGE_VERSION        = 0x8B8C
	MAX_TEXTURE_SIZE                = 0x0D33
	MAX_COLOR_ATTACHMENTS           = 0x8CDF
	MAX_VERTEX_ATTRIBS              = 0x8869
	UNIFORM_BUFFER_OFFSET_ALIGNMENT = 0x8A34

	// Primitives.
	POINTS         = 0x0000
	LINES          = 0x0001
	LINE_STRIP     = 0x0003
	TRIANGLES      = 0x0004
	TRIANGLE_STRIP = 0x0005

	// Data types.
	BYTE                           = 0x1400
	UNSIGNED_BYTE                  = 0x1401
	SHORT                          = 0x1402
	UNSIGNED_SHORT                 = 0x1403
	INT                            = 0x1404
	UNSIGNED_INT                   = 0x1405
	FLOAT                          = 0x1406
	HALF_FLOAT                     = 0x140B
	UNSIGNED_INT_24_8              = 0x84FA
	FLOAT_32_UNSIGNED_INT_24_8_REV = 0x8DAD

	// Buffer targets and usages.
	ARRAY_BUFFER          = 0x8892
	ELEMENT_ARRAY_BUFFER  = 0x8893
	PIXEL_PACK_BUFFER     = 0x88EB
	PIXEL_UNPACK_BUFFER   = 0x88EC
	UNIFORM_BUFFER        = 0x8A11
	TEXTURE_BUFFER        = 0x8C2A
	COPY_READ_BUFFER      = 0x8F36
	COPY_WRITE_BUFFER     = 0x8F37
	DRAW_INDIRECT_BUFFER  = 0x8F3F
	SHADER_STORAGE_BUFFER = 0x90D2
	STREAM_DRAW           = 0x88E0
	STATIC_DRAW           = 0x88E4
	DYNAMIC_DRAW          = 0x88E8
	DYNAMIC_READ          = 0x88E9

	// Texture targets.
	TEXTURE_1D             = 0x0DE0
	TEXTURE_2D             = 0x0DE1
	TEXTURE_3D             = 0x806F
	TEXTURE_CUBE_MAP       = 0x8513
	TEXTURE_1D_ARRAY       = 0x8C18
	TEXTURE_2D_ARRAY       = 0x8C1A
	TEXTURE_CUBE_MAP_ARRAY = 0x9009
	TEXTURE_2D_MULTISAMPLE = 0x9100
	TEXTURE0               = 0x84C0

	TEXTURE_CUBE_MAP_POSITIVE_X = 0x8515

	// Texture and sampler parameters.
	TEXTURE_MAG_FILTER     = 0x2800
	TEXTURE_MIN_FILTER     = 0x2801
	TEXTURE_WRAP_S         = 0x2802
	TEXTURE_WRAP_T         = 0x2803
	TEXTURE_WRAP_R         = 0x8072
	TEXTURE_MIN_LOD        = 0x813A
	TEXTURE_MAX_LOD        = 0x813B
	TEXTURE_BASE_LEVEL     = 0x813C
	TEXTURE_MAX_LEVEL      = 0x813D
	TEXTURE_MAX_ANISOTROPY = 0x84FE
	TEXTURE_COMPARE_MODE   = 0x884C
	TEXTURE_COMPARE_FUNC   = 0x884D
	COMPARE_REF_TO_TEXTURE = 0x884E
	NEAREST                = 0x2600
	LINEAR                 = 0x2601
	NEAREST_MIPMAP_NEAREST = 0x2700
	LINEAR_MIPMAP_NEAREST  = 0x2701
	NEAREST_MIPMAP_LINEAR  = 0x2702
	LINEAR_MIPMAP_LINEAR   = 0x2703
	REPEAT                 = 0x2901
	CLAMP_TO_BORDER        = 0x812D
	CLAMP_TO_EDGE          = 0x812F
	MIRRORED_REPEAT        = 0x8370

	// Internal formats.
	RGBA8              = 0x8058
	R8                 = 0x8229
	RG8                = 0x822B
	R16F               = 0x822D
	R32F               = 0x822E
	RG16F              = 0x822F
	RG32F              = 0x8230
	R32UI              = 0x8236
	RGBA32F            = 0x8814
	RGBA16F            = 0x881A
	DEPTH_COMPONENT16  = 0x81A5
	DEPTH_COMPONENT24  = 0x81A6
	DEPTH24_STENCIL8   = 0x88F0
	SRGB8_ALPHA8       = 0x8C43
	DEPTH_COMPONENT32F = 0x8CAC
	DEPTH32F_STENCIL8  = 0x8CAD
	STENCIL_INDEX8     = 0x8D48
	RGBA32UI           = 0x8D70

	// Pixel formats.
	STENCIL_INDEX   = 0x1901
	DEPTH_COMPONENT = 0x1902
	RED             = 0x1903
	RGB             = 0x1907
	RGBA            = 0x1908
	BGRA            = 0x80E1
	RG              = 0x8227
	DEPTH_STENCIL   = 0x84F9
	RED_INTEGER     = 0x8D94
	RG_INTEGER      = 0x8228
	RGBA_INTEGER    = 0x8D99

	// Pixel store.
	UNPACK_ROW_LENGTH   = 0x0CF2
	UNPACK_ALIGNMENT    = 0x0CF5
	PACK_ROW_LENGTH     = 0x0D02
	PACK_ALIGNMENT      = 0x0D05
	PACK_IMAGE_HEIGHT   = 0x806C
	UNPACK_IMAGE_HEIGHT = 0x806E

	// Framebuffers.
	FRAMEBUFFER              = 0x8D40
	READ_FRAMEBUFFER         = 0x8CA8
	DRAW_FRAMEBUFFER         = 0x8CA9
	FRAMEBUFFER_UNSUPPORTED  = 0x8CDD
	FRAMEBUFFER_COMPLETE     = 0x8CD5
	COLOR_ATTACHMENT0        = 0x8CE0
	DEPTH_ATTACHMENT         = 0x8D00
	STENCIL_ATTACHMENT       = 0x8D20
	DEPTH_STENCIL_ATTACHMENT = 0x821A
	COLOR                    = 0x1800
	DEPTH                    = 0x1801
	STENCIL                  = 0x1802
	DEPTH_BUFFER_BIT         = 0x00000100
	STENCIL_BUFFER_BIT       = 0x00000400
	COLOR_BUFFER_BIT         = 0x00004000

	// Capabilities.
	CULL_FACE                     = 0x0B44
	DEPTH_TEST                    = 0x0B71
	STENCIL_TEST                  = 0x0B90
	BLEND                         = 0x0BE2
	SCISSOR_TEST                  = 0x0C11
	POLYGON_OFFSET_FILL           = 0x8037
	MULTISAMPLE                   = 0x809D
	SAMPLE_ALPHA_TO_COVERAGE      = 0x809E
	DEPTH_CLAMP                   = 0x864F
	PRIMITIVE_RESTART_FIXED_INDEX = 0x8D69
	SAMPLE_MASK                   = 0x8E51

	// Comparison functions.
	NEVER    = 0x0200
	LESS     = 0x0201
	EQUAL    = 0x0202
	LEQUAL   = 0x0203
	GREATER  = 0x0204
	NOTEQUAL = 0x0205
	GEQUAL   = 0x0206
	ALWAYS   = 0x0207

	// Blending.
	SRC_COLOR                = 0x0300
	ONE_MINUS_SRC_COLOR      = 0x0301
	SRC_ALPHA                = 0x0302
	ONE_MINUS_SRC_ALPHA      = 0x0303
	DST_ALPHA                = 0x0304
	ONE_MINUS_DST_ALPHA      = 0x0305
	DST_COLOR                = 0x0306
	ONE_MINUS_DST_COLOR      = 0x0307
	SRC_ALPHA_SATURATE       = 0x0308
	CONSTANT_COLOR           = 0x8001
	ONE_MINUS_CONSTANT_COLOR = 0x8002
	FUNC_ADD                 = 0x8006
	MIN                      = 0x8007
	MAX                      = 0x8008
	FUNC_SUBTRACT            = 0x800A
	FUNC_REVERSE_SUBTRACT    = 0x800B

	// Stencil operations.
	INVERT    = 0x150A
	KEEP      = 0x1E00
	REPLACE   = 0x1E01
	INCR      = 0x1E02
	DECR      = 0x1E03
	INCR_WRAP = 0x8507
	DECR_WRAP = 0x8508

	// Rasterization.
	FRONT          = 0x0404
	BACK           = 0x0405
	FRONT_AND_BACK = 0x0408
	CW             = 0x0900
	CCW            = 0x0901
	POINT          = 0x1B00
	LINE           = 0x1B01
	FILL           = 0x1B02

	// Shaders.
	FRAGMENT_SHADER = 0x8B30
	VERTEX_SHADER   = 0x8B31
	COMPUTE_SHADER  = 0x91B9

	// Image access.
	READ_ONLY  = 0x88B8
	WRITE_ONLY = 0x88B9
	READ_WRITE = 0x88BA

	// Queries.
	TIME_ELAPSED           = 0x88BF
	QUERY_RESULT           = 0x8866
	QUERY_RESULT_AVAILABLE = 0x8867
	SAMPLES_PASSED         = 0x8914
	ANY_SAMPLES_PASSED     = 0x8C2F
	TIMESTAMP              = 0x8E28

	ALL_BARRIER_BITS = 0xFFFFFFFF
)

// ErrorString returns the symbolic name of a GetError code.
func ErrorString(code uint32) string {
	switch code {
	case NO_ERROR:
		return "GL_NO_ERROR"
	case INVALID_ENUM:
		return "GL_INVALID_ENUM"
	case INVALID_VALUE:
		return "GL_INVALID_VALUE"
	case INVALID_OPERATION:
		return "GL_INVALID_OPERATION"
	case STACK_OVERFLOW:
		return "GL_STACK_OVERFLOW"
	case STACK_UNDERFLOW:
		return "GL_STACK_UNDERFLOW"
	case OUT_OF_MEMORY:
		return "GL_OUT_OF_MEMORY"
	case INVALID_FRAMEBUFFER_OPERATION:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	case CONTEXT_LOST:
		return "GL_CONTEXT_LOST"
	default:
		return "GL_UNKNOWN_ERROR"
	}
}
