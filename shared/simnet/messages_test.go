package simnet

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestEnvelopeRoundTrip(t *testing.T) {
	in := &Envelope{
		Type:    EnvelopePoseUpdate,
		Payload: []byte{1, 2, 3},
	}

	var out Envelope
	if err := out.Unmarshal(in.Marshal()); err != nil {
		t.Fatalf("Unmarshal falhou: %v", err)
	}
	if out.Type != EnvelopePoseUpdate {
		t.Errorf("tipo = %v, want %v", out.Type, EnvelopePoseUpdate)
	}
	if len(out.Payload) != 3 || out.Payload[0] != 1 {
		t.Errorf("payload = %v", out.Payload)
	}
}

func TestPoseUpdateRoundTrip(t *testing.T) {
	in := &PoseUpdate{
		Name:        "robo::base",
		ID:          7,
		Position:    [3]float32{1.5, -2, 0.25},
		Orientation: [4]float32{0, 0, 0.7071, 0.7071},
	}

	var out PoseUpdate
	if err := out.Unmarshal(in.Marshal()); err != nil {
		t.Fatalf("Unmarshal falhou: %v", err)
	}
	if out.Name != in.Name || out.ID != in.ID {
		t.Errorf("identidade = %q/%d, want %q/%d", out.Name, out.ID, in.Name, in.ID)
	}
	if out.Position != in.Position {
		t.Errorf("posição = %v, want %v", out.Position, in.Position)
	}
	if out.Orientation != in.Orientation {
		t.Errorf("orientação = %v, want %v", out.Orientation, in.Orientation)
	}
}

func TestCamposDesconhecidosIgnorados(t *testing.T) {
	// Mensagem com um campo extra (número alto): deve ser pulado sem erro
	b := (&ServerStatus{Message: "ok", Paused: true}).Marshal()
	b = protowire.AppendTag(b, 99, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)

	var out ServerStatus
	if err := out.Unmarshal(b); err != nil {
		t.Fatalf("Unmarshal com campo desconhecido falhou: %v", err)
	}
	if out.Message != "ok" || !out.Paused {
		t.Errorf("status = %+v", out)
	}
}

func TestUnmarshalTruncado(t *testing.T) {
	full := (&SceneDocument{Name: "campo", XML: []byte("<sdf/>")}).Marshal()

	var out SceneDocument
	if err := out.Unmarshal(full[:len(full)-2]); err == nil {
		t.Error("mensagem truncada deveria falhar")
	}
}
