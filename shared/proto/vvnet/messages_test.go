package vvnet

import (
	"bytes"
	"testing"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	payload := (&RequestSchematicMessage{Name: "torre"}).Marshal()
	data := Pack(TypeRequestSchematic, payload)

	var env Envelope
	if err := env.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Type != TypeRequestSchematic {
		t.Errorf("Type = %d, want %d", env.Type, TypeRequestSchematic)
	}

	var req RequestSchematicMessage
	if err := req.Unmarshal(env.Payload); err != nil {
		t.Fatalf("Unmarshal payload: %v", err)
	}
	if req.Name != "torre" {
		t.Errorf("Name = %q, want torre", req.Name)
	}
}

func TestServerStatusRoundTrip(t *testing.T) {
	msg := ServerStatusMessage{Version: "1.2.0", SchematicCount: 7}

	var back ServerStatusMessage
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Version != "1.2.0" || back.SchematicCount != 7 {
		t.Errorf("round trip = %+v", back)
	}
}

func TestSchematicListRoundTrip(t *testing.T) {
	msg := SchematicListMessage{Names: []string{"casa", "muralha", "torre"}}

	var back SchematicListMessage
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(back.Names) != 3 {
		t.Fatalf("Names = %v", back.Names)
	}
	for i, want := range msg.Names {
		if back.Names[i] != want {
			t.Errorf("Names[%d] = %q, want %q", i, back.Names[i], want)
		}
	}
}

func TestSchematicMessageRoundTrip(t *testing.T) {
	msg := SchematicMessage{
		Name:      "fortaleza",
		SizeX:     16,
		SizeY:     8,
		SizeZ:     16,
		TileCount: 12,
		Atlas:     []byte{0x89, 0x50, 0x4e, 0x47},
		Mapping:   []byte(`{"1":[{"face":"all","tile":0}]}`),
		Cells:     []byte{1, 2, 3, 4, 5},
	}

	var back SchematicMessage
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.Name != msg.Name || back.SizeX != 16 || back.SizeY != 8 || back.SizeZ != 16 || back.TileCount != 12 {
		t.Errorf("cabeçalho = %+v", back)
	}
	if !bytes.Equal(back.Atlas, msg.Atlas) {
		t.Errorf("Atlas = %v", back.Atlas)
	}
	if !bytes.Equal(back.Mapping, msg.Mapping) {
		t.Errorf("Mapping = %s", back.Mapping)
	}
	if !bytes.Equal(back.Cells, msg.Cells) {
		t.Errorf("Cells = %v", back.Cells)
	}
}

func TestUnmarshalSkipsUnknownFields(t *testing.T) {
	// Um campo extra no fim não pode derrubar o decodificador.
	data := (&RequestSchematicMessage{Name: "casa"}).Marshal()
	data = append(data, 0x78, 0x2a) // campo 15, varint 42

	var req RequestSchematicMessage
	if err := req.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Name != "casa" {
		t.Errorf("Name = %q", req.Name)
	}
}

func TestEnvelopeRejectsTruncated(t *testing.T) {
	data := Pack(TypeSchematic, []byte("payload grande"))
	var env Envelope
	if err := env.Unmarshal(data[:len(data)-4]); err == nil {
		t.Fatal("Unmarshal aceitou envelope truncado")
	}
}
