package binary

import (
	proto "github.com/gogo/protobuf/proto"
)

// Edit is the stored form of an edits.Edit. Tags are interleaved keys and
// values, see tagsAsArray.
//
// Field numbers are part of the outbox format. Never reuse them.
type Edit struct {
	Id        int64    `protobuf:"varint,1,opt,name=id,proto3" json:"id,omitempty"`
	Version   int32    `protobuf:"varint,2,opt,name=version,proto3" json:"version,omitempty"`
	Tags      []string `protobuf:"bytes,3,rep,name=tags,proto3" json:"tags,omitempty"`
	Added     []string `protobuf:"bytes,4,rep,name=added,proto3" json:"added,omitempty"`
	Removed   []string `protobuf:"bytes,5,rep,name=removed,proto3" json:"removed,omitempty"`
	Timestamp int64    `protobuf:"varint,6,opt,name=timestamp,proto3" json:"timestamp,omitempty"`
	Comment   string   `protobuf:"bytes,7,opt,name=comment,proto3" json:"comment,omitempty"`
}

func (m *Edit) Reset()         { *m = Edit{} }
func (m *Edit) String() string { return proto.CompactTextString(m) }
func (*Edit) ProtoMessage()    {}

func init() {
	proto.RegisterType((*Edit)(nil), "fivhmap.edits.Edit")
}
