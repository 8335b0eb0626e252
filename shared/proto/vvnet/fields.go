package vvnet

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// fieldReader dá acesso ao valor do campo atual durante walkFields e registra
// quantos bytes foram consumidos.
type fieldReader struct {
	data     []byte
	wireType protowire.Type
	consumed int
}

func (d *fieldReader) Varint() (uint64, error) {
	if d.wireType != protowire.VarintType {
		return 0, fmt.Errorf("vvnet: esperava varint, veio wire type %d", d.wireType)
	}
	v, n := protowire.ConsumeVarint(d.data)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	d.consumed = n
	return v, nil
}

func (d *fieldReader) Bytes() ([]byte, error) {
	if d.wireType != protowire.BytesType {
		return nil, fmt.Errorf("vvnet: esperava bytes, veio wire type %d", d.wireType)
	}
	v, n := protowire.ConsumeBytes(d.data)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	d.consumed = n
	return append([]byte(nil), v...), nil
}

func (d *fieldReader) String() (string, error) {
	if d.wireType != protowire.BytesType {
		return "", fmt.Errorf("vvnet: esperava string, veio wire type %d", d.wireType)
	}
	v, n := protowire.ConsumeString(d.data)
	if n < 0 {
		return "", protowire.ParseError(n)
	}
	d.consumed = n
	return v, nil
}

// walkFields percorre os campos de uma mensagem serializada. Campos que o
// callback não consumir são pulados, o que mantém o decodificador tolerante
// a campos novos.
func walkFields(data []byte, fn func(protowire.Number, *fieldReader) error) error {
	for len(data) > 0 {
		fieldNum, wireType, n := protowire.ConsumeTag(data)
		if n < 0 {
			return protowire.ParseError(n)
		}
		data = data[n:]

		reader := fieldReader{data: data, wireType: wireType}
		if err := fn(fieldNum, &reader); err != nil {
			return err
		}
		if reader.consumed == 0 {
			n := protowire.ConsumeFieldValue(fieldNum, wireType, data)
			if n < 0 {
				return protowire.ParseError(n)
			}
			reader.consumed = n
		}
		data = data[reader.consumed:]
	}
	return nil
}
