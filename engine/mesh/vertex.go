package mesh

import (
	"unsafe"

	vk "github.com/goki/vulkan"

	"github.com/tylercaldwell27/prism/engine/assets"
)

// Vertex is the interleaved per-vertex layout consumed by the graphics
// pipeline. The struct is comparable so it can key the dedup map.
type Vertex struct {
	Position [3]float32
	Color    [3]float32
	TexCoord [2]float32
}

// VertexSize is the stride of one vertex in bytes.
const VertexSize = uint32(unsafe.Sizeof(Vertex{}))

func VertexBindingDescription() vk.VertexInputBindingDescription {
	return vk.VertexInputBindingDescription{
		Binding:   0,
		Stride:    VertexSize,
		InputRate: vk.VertexInputRateVertex,
	}
}

func VertexAttributeDescriptions() []vk.VertexInputAttributeDescription {
	return []vk.VertexInputAttributeDescription{
		{
			Location: 0,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Position)),
		},
		{
			Location: 1,
			Binding:  0,
			Format:   vk.FormatR32g32b32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.Color)),
		},
		{
			Location: 2,
			Binding:  0,
			Format:   vk.FormatR32g32Sfloat,
			Offset:   uint32(unsafe.Offsetof(Vertex{}.TexCoord)),
		},
	}
}

// Deduplicate collapses a triangle-corner stream into a unique vertex list
// and an index buffer referencing it. The first occurrence of each vertex
// fixes its index, so identical input always yields identical output.
func Deduplicate(corners []assets.Corner) ([]Vertex, []uint32) {
	vertices := make([]Vertex, 0, len(corners))
	indices := make([]uint32, 0, len(corners))
	seen := make(map[Vertex]uint32, len(corners))

	for _, c := range corners {
		v := Vertex{
			Position: c.Position,
			Color:    [3]float32{1, 1, 1},
			TexCoord: c.TexCoord,
		}
		idx, ok := seen[v]
		if !ok {
			idx = uint32(len(vertices))
			seen[v] = idx
			vertices = append(vertices, v)
		}
		indices = append(indices, idx)
	}
	return vertices, indices
}
