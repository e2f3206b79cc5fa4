// Package msgs defines the messages exchanged over a shared air medium.
package msgs

import (
	"github.com/golang/protobuf/proto"
)

// AirFrame is a PSDU on the air as seen by every node tuned to Channel.
type AirFrame struct {
	Channel uint32 `protobuf:"varint,1,opt,name=channel,proto3" json:"channel,omitempty"`
	// Sender identifies the medium instance which transmitted the frame.
	Sender string `protobuf:"bytes,2,opt,name=sender,proto3" json:"sender,omitempty"`
	// Psdu is the MAC frame including its FCS.
	Psdu []byte `protobuf:"bytes,3,opt,name=psdu,proto3" json:"psdu,omitempty"`
	Lqi  uint32 `protobuf:"varint,4,opt,name=lqi,proto3" json:"lqi,omitempty"`
	Rssi uint32 `protobuf:"varint,5,opt,name=rssi,proto3" json:"rssi,omitempty"`
}

// ProtoMessage implements proto.Message.
func (m *AirFrame) ProtoMessage() {}

// Reset implements proto.Message.
func (m *AirFrame) Reset() { *m = AirFrame{} }

// String implements proto.Message.
func (m *AirFrame) String() string { return proto.CompactTextString(m) }

// Encode serializes the frame.
func (m *AirFrame) Encode() ([]byte, error) {
	return proto.Marshal(m)
}

// DecodeAirFrame parses a serialized frame.
func DecodeAirFrame(data []byte) (*AirFrame, error) {
	m := &AirFrame{}
	if err := proto.Unmarshal(data, m); err != nil {
		return nil, err
	}
	return m, nil
}
