// Package simnet define as mensagens do feed ao vivo do simulador.
// Structs mantidas à mão sobre o codec wire oficial do protobuf
// (google.golang.org/protobuf/encoding/protowire), sem codegen.
package simnet

import (
	"fmt"
	"math"

	"google.golang.org/protobuf/encoding/protowire"
)

// Tipos de mensagem do envelope.
type EnvelopeType int32

const (
	EnvelopeServerStatus EnvelopeType = iota
	EnvelopeSceneDocument
	EnvelopePoseUpdate
	EnvelopeEntityDelete
	EnvelopePong
)

// Envelope embrulha toda mensagem trocada com o servidor.
type Envelope struct {
	Type    EnvelopeType
	Payload []byte
}

func (m *Envelope) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(m.Type))
	if len(m.Payload) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.Payload)
	}
	return b
}

func (m *Envelope) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			v, err := consumeVarint(field, typ)
			if err != nil {
				return err
			}
			m.Type = EnvelopeType(v)
		case 2:
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.Payload = v
		}
		return nil
	})
}

// ServerStatus informa estado geral do simulador.
type ServerStatus struct {
	Message string
	Paused  bool
}

func (m *ServerStatus) Marshal() []byte {
	var b []byte
	if m.Message != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Message)
	}
	if m.Paused {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, 1)
	}
	return b
}

func (m *ServerStatus) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.Message = string(v)
		case 2:
			v, err := consumeVarint(field, typ)
			if err != nil {
				return err
			}
			m.Paused = v != 0
		}
		return nil
	})
}

// SceneDocument carrega o SDF completo de um mundo (estado inicial).
type SceneDocument struct {
	Name string
	XML  []byte
}

func (m *SceneDocument) Marshal() []byte {
	var b []byte
	if m.Name != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Name)
	}
	if len(m.XML) > 0 {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, m.XML)
	}
	return b
}

func (m *SceneDocument) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch num {
		case 1:
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		case 2:
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.XML = v
		}
		return nil
	})
}

// PoseUpdate atualiza a pose de uma entidade existente no grafo.
// O casamento é feito pelo nome com escopo ("a::b::c") e, na falta
// dele, pelo nome único (nome+id).
type PoseUpdate struct {
	Name        string
	ID          uint32
	Position    [3]float32
	Orientation [4]float32 // x, y, z, w
}

func (m *PoseUpdate) Marshal() []byte {
	var b []byte
	if m.Name != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Name)
	}
	if m.ID != 0 {
		b = protowire.AppendTag(b, 2, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(m.ID))
	}
	for i, v := range m.Position {
		b = protowire.AppendTag(b, protowire.Number(3+i), protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	for i, v := range m.Orientation {
		b = protowire.AppendTag(b, protowire.Number(6+i), protowire.Fixed32Type)
		b = protowire.AppendFixed32(b, math.Float32bits(v))
	}
	return b
}

func (m *PoseUpdate) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		switch {
		case num == 1:
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		case num == 2:
			v, err := consumeVarint(field, typ)
			if err != nil {
				return err
			}
			m.ID = uint32(v)
		case num >= 3 && num <= 5:
			v, err := consumeFloat(field, typ)
			if err != nil {
				return err
			}
			m.Position[num-3] = v
		case num >= 6 && num <= 9:
			v, err := consumeFloat(field, typ)
			if err != nil {
				return err
			}
			m.Orientation[num-6] = v
		}
		return nil
	})
}

// EntityDelete remove uma entidade do grafo pelo nome.
type EntityDelete struct {
	Name string
}

func (m *EntityDelete) Marshal() []byte {
	var b []byte
	if m.Name != "" {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendString(b, m.Name)
	}
	return b
}

func (m *EntityDelete) Unmarshal(data []byte) error {
	return walkFields(data, func(num protowire.Number, typ protowire.Type, field []byte) error {
		if num == 1 {
			v, err := consumeBytes(field, typ)
			if err != nil {
				return err
			}
			m.Name = string(v)
		}
		return nil
	})
}

// ---------- helpers de decodificação ----------

// walkFields percorre os campos wire de uma mensagem, entregando cada
// um ao visitor. Campos desconhecidos são pulados em silêncio.
func walkFields(data []byte, visit func(protowire.Number, protowire.Type, []byte) error) error {
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("tag inválida: %w", protowire.ParseError(n))
		}
		data = data[n:]

		size := protowire.ConsumeFieldValue(num, typ, data)
		if size < 0 {
			return fmt.Errorf("campo %d inválido: %w", num, protowire.ParseError(size))
		}
		if err := visit(num, typ, data[:size]); err != nil {
			return err
		}
		data = data[size:]
	}
	return nil
}

func consumeVarint(field []byte, typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("wire type inesperado %d para varint", typ)
	}
	v, n := protowire.ConsumeVarint(field)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return v, nil
}

func consumeBytes(field []byte, typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, fmt.Errorf("wire type inesperado %d para bytes", typ)
	}
	v, n := protowire.ConsumeBytes(field)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	return v, nil
}

func consumeFloat(field []byte, typ protowire.Type) (float32, error) {
	if typ != protowire.Fixed32Type {
		return 0, fmt.Errorf("wire type inesperado %d para float", typ)
	}
	v, n := protowire.ConsumeFixed32(field)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	return math.Float32frombits(v), nil
}
