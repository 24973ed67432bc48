package progrock

import (
	"github.com/vito/progrock"
)

// Vertex implements ports.Vertex wrapping *progrock.VertexRecorder.
type Vertex struct {
	vertex *progrock.VertexRecorder
}

func (v *Vertex) Cached() {
	v.vertex.Cached()
}

func (v *Vertex) Complete(err error) {
	v.vertex.Done(err)
}
