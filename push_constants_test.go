package glvk

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/glvk/backend"
)

func TestNewPushConstantsBuffer(t *testing.T) {
	tests := []struct {
		name      string
		size      uint32
		constants []PushConstant
		wantErr   bool
	}{
		{"empty", 0, nil, false},
		{"exact fit", 64, []PushConstant{{Name: "mvp", Format: backend.UniformMat4}}, false},
		{"array", 48, []PushConstant{{Name: "lights", Offset: 0, Format: backend.UniformVec4, ArraySize: 3}}, false},
		{"past end", 16, []PushConstant{{Name: "tint", Offset: 4, Format: backend.UniformVec4}}, true},
		{"array past end", 32, []PushConstant{{Name: "lights", Format: backend.UniformVec4, ArraySize: 3}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pc, err := NewPushConstantsBuffer(gputypes.ShaderStageVertex, tt.size, tt.constants...)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("NewPushConstantsBuffer() error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewPushConstantsBuffer() error = %v", err)
			}
			if got := len(pc.Data()); got != int(tt.size) {
				t.Errorf("len(Data()) = %d, want %d", got, tt.size)
			}
		})
	}
}

func TestPushConstantsSet(t *testing.T) {
	pc, err := NewPushConstantsBuffer(gputypes.ShaderStageFragment, 16)
	if err != nil {
		t.Fatalf("NewPushConstantsBuffer() error = %v", err)
	}

	tests := []struct {
		name    string
		set     func() error
		want    []byte
		wantErr bool
	}{
		{"bytes", func() error { return pc.Set(0, []byte{1, 2}) }, []byte{1, 2, 0, 0}, false},
		{"float32", func() error { return pc.SetFloat32s(0, 1) }, []byte{0, 0, 0x80, 0x3f}, false},
		{"int32", func() error { return pc.SetInt32s(0, -1) }, []byte{0xff, 0xff, 0xff, 0xff}, false},
		{"uint32", func() error { return pc.SetUint32s(0, 0x01020304) }, []byte{4, 3, 2, 1}, false},
		{"bytes past end", func() error { return pc.Set(15, []byte{1, 2}) }, nil, true},
		{"float32 past end", func() error { return pc.SetFloat32s(8, 1, 2, 3) }, nil, true},
		{"int32 past end", func() error { return pc.SetInt32s(16, 1) }, nil, true},
		{"uint32 past end", func() error { return pc.SetUint32s(12, 1, 2) }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("error = %v, want ErrInvalidArgument", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if got := pc.Data()[:4]; !bytes.Equal(got, tt.want) {
				t.Errorf("Data()[:4] = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPushConstantsClone(t *testing.T) {
	pc, err := NewPushConstantsBuffer(gputypes.ShaderStageVertex, 8, PushConstant{Name: "scale", Format: backend.UniformFloat})
	if err != nil {
		t.Fatalf("NewPushConstantsBuffer() error = %v", err)
	}
	_ = pc.SetFloat32s(0, 2)

	clone := pc.Clone()
	_ = pc.SetFloat32s(0, 3)
	pc.Constants[0].Name = "changed"

	if !bytes.Equal(clone.Data()[:4], []byte{0, 0, 0, 0x40}) {
		t.Errorf("clone data = %v, want 2.0", clone.Data()[:4])
	}
	if clone.Constants[0].Name != "scale" {
		t.Errorf("clone constant name = %q, want %q", clone.Constants[0].Name, "scale")
	}
	if clone.Stages != gputypes.ShaderStageVertex {
		t.Errorf("clone stages = %v, want vertex", clone.Stages)
	}

	var nilBuf *PushConstantsBuffer
	if nilBuf.Clone() != nil {
		t.Error("nil Clone() should be nil")
	}
}
