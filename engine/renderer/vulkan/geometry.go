package vulkan

import (
	"fmt"
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/mesh"
)

// Geometry is a mesh resident on the GPU: device-local vertex and index
// buffers plus the draw count.
type Geometry struct {
	VertexBuffer *Buffer
	IndexBuffer  *Buffer
	IndexCount   uint32
}

func GeometryCreate(context *Context, engine *TransferEngine, vertices []mesh.Vertex, indices []uint32) (*Geometry, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, fmt.Errorf("geometry needs vertices and indices")
	}

	vertexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&vertices[0])), len(vertices)*int(mesh.VertexSize))
	vertexBuffer, err := UploadDeviceLocal(context, engine, vertexBytes,
		vk.BufferUsageFlags(vk.BufferUsageVertexBufferBit))
	if err != nil {
		return nil, err
	}

	indexBytes := unsafe.Slice((*byte)(unsafe.Pointer(&indices[0])), len(indices)*4)
	indexBuffer, err := UploadDeviceLocal(context, engine, indexBytes,
		vk.BufferUsageFlags(vk.BufferUsageIndexBufferBit))
	if err != nil {
		vertexBuffer.Destroy(context)
		return nil, err
	}

	return &Geometry{
		VertexBuffer: vertexBuffer,
		IndexBuffer:  indexBuffer,
		IndexCount:   uint32(len(indices)),
	}, nil
}

// Draw binds the buffers and issues the indexed draw.
func (g *Geometry) Draw(cmd vk.CommandBuffer) {
	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{g.VertexBuffer.Handle}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, g.IndexBuffer.Handle, 0, vk.IndexTypeUint32)
	vk.CmdDrawIndexed(cmd, g.IndexCount, 1, 0, 0, 0)
}

func (g *Geometry) Destroy(context *Context) {
	if g.VertexBuffer != nil {
		g.VertexBuffer.Destroy(context)
		g.VertexBuffer = nil
	}
	if g.IndexBuffer != nil {
		g.IndexBuffer.Destroy(context)
		g.IndexBuffer = nil
	}
}
