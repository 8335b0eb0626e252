package vvnet

import (
	"google.golang.org/protobuf/encoding/protowire"
)

// ServerStatusMessage é a primeira mensagem enviada a um cliente recém
// conectado.
type ServerStatusMessage struct {
	Version        string
	SchematicCount int32
}

func (m *ServerStatusMessage) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Version)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.SchematicCount))
	return b
}

func (m *ServerStatusMessage) Unmarshal(data []byte) error {
	return walkFields(data, func(fieldNum protowire.Number, d *fieldReader) error {
		switch fieldNum {
		case 1:
			v, err := d.String()
			if err != nil {
				return err
			}
			m.Version = v
		case 2:
			v, err := d.Varint()
			if err != nil {
				return err
			}
			m.SchematicCount = int32(v)
		}
		return nil
	})
}

// SchematicListMessage anuncia os nomes disponíveis no servidor.
type SchematicListMessage struct {
	Names []string
}

func (m *SchematicListMessage) Marshal() []byte {
	var b []byte
	for _, name := range m.Names {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}
	return b
}

func (m *SchematicListMessage) Unmarshal(data []byte) error {
	return walkFields(data, func(fieldNum protowire.Number, d *fieldReader) error {
		if fieldNum == 1 {
			v, err := d.String()
			if err != nil {
				return err
			}
			m.Names = append(m.Names, v)
		}
		return nil
	})
}

// RequestSchematicMessage pede ao servidor um schematic pelo nome.
type RequestSchematicMessage struct {
	Name string
}

func (m *RequestSchematicMessage) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Name)
	return b
}

func (m *RequestSchematicMessage) Unmarshal(data []byte) error {
	return walkFields(data, func(fieldNum protowire.Number, d *fieldReader) error {
		if fieldNum == 1 {
			v, err := d.String()
			if err != nil {
				return err
			}
			m.Name = v
		}
		return nil
	})
}

// SchematicMessage transporta um schematic completo. As células viajam
// comprimidas (schematic.PackCells) e o mapeamento de faces viaja como o
// mesmo JSON do formato em disco.
type SchematicMessage struct {
	Name      string
	SizeX     int32
	SizeY     int32
	SizeZ     int32
	TileCount int32
	Atlas     []byte
	Mapping   []byte
	Cells     []byte
}

func (m *SchematicMessage) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, m.Name)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.SizeX))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.SizeY))
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.SizeZ))
	b = protowire.AppendTag(b, 5, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.TileCount))
	b = protowire.AppendTag(b, 6, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Atlas)
	b = protowire.AppendTag(b, 7, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Mapping)
	b = protowire.AppendTag(b, 8, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Cells)
	return b
}

func (m *SchematicMessage) Unmarshal(data []byte) error {
	return walkFields(data, func(fieldNum protowire.Number, d *fieldReader) error {
		switch fieldNum {
		case 1:
			v, err := d.String()
			if err != nil {
				return err
			}
			m.Name = v
		case 2:
			v, err := d.Varint()
			if err != nil {
				return err
			}
			m.SizeX = int32(v)
		case 3:
			v, err := d.Varint()
			if err != nil {
				return err
			}
			m.SizeY = int32(v)
		case 4:
			v, err := d.Varint()
			if err != nil {
				return err
			}
			m.SizeZ = int32(v)
		case 5:
			v, err := d.Varint()
			if err != nil {
				return err
			}
			m.TileCount = int32(v)
		case 6:
			v, err := d.Bytes()
			if err != nil {
				return err
			}
			m.Atlas = v
		case 7:
			v, err := d.Bytes()
			if err != nil {
				return err
			}
			m.Mapping = v
		case 8:
			v, err := d.Bytes()
			if err != nil {
				return err
			}
			m.Cells = v
		}
		return nil
	})
}
