package vvnet

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// MessageType identifica o payload carregado por um Envelope.
type MessageType int32

const (
	TypeUnknown MessageType = iota
	TypeServerStatus
	TypeSchematicList
	TypeRequestSchematic
	TypeSchematic
)

// Envelope embrulha toda mensagem do protocolo vvnet. O tipo vai no campo 1 e
// o payload serializado no campo 2, para que o receptor possa despachar sem
// conhecer o conteúdo.
type Envelope struct {
	Type    MessageType
	Payload []byte
}

func (e *Envelope) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.Type))
	b = protowire.AppendTag(b, 2, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Payload)
	return b
}

func (e *Envelope) Unmarshal(data []byte) error {
	for len(data) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("vvnet: envelope com tag inválida: %w", protowire.ParseError(n))
		}
		data = data[n:]
		switch fieldNum {
		case 1:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e.Type = MessageType(v)
			data = data[n:]
		case 2:
			v, n := protowire.ConsumeBytes(data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			e.Payload = append([]byte(nil), v...)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(fieldNum, wireType, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			data = data[n:]
		}
	}
	return nil
}

// Pack serializa a mensagem e a embrulha num Envelope pronto para envio.
func Pack(msgType MessageType, payload []byte) []byte {
	env := Envelope{Type: msgType, Payload: payload}
	return env.Marshal()
}
