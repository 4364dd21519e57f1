package app

import (
	"testing"

	"SimVision/shared/scene"
	"SimVision/shared/simnet"
)

func poseApp() (*App, *scene.Node, *scene.Node) {
	a := &App{graph: scene.NewGraph()}
	// Entidade sem id: nome único igual ao nome
	semID := &scene.Node{Name: "chao", UniqueName: "chao", ScopedName: "mundo::chao"}
	// Entidade com id: nome único com sufixo numérico
	comID := &scene.Node{Name: "caixa", UniqueName: "caixa1", ScopedName: "mundo::caixa"}
	a.graph.Attach(nil, semID)
	a.graph.Attach(nil, comID)
	return a, semID, comID
}

func TestApplyPoseNomeUnicoSemID(t *testing.T) {
	a, semID, _ := poseApp()

	a.applyPose(&simnet.PoseUpdate{
		Name:     "chao",
		Position: [3]float32{1, 2, 3},
	})

	p := semID.Pose.Position
	if p.X() != 1 || p.Y() != 2 || p.Z() != 3 {
		t.Errorf("pose da entidade sem id = %v, want (1, 2, 3)", p)
	}
}

func TestApplyPoseNomeUnicoComID(t *testing.T) {
	a, _, comID := poseApp()

	a.applyPose(&simnet.PoseUpdate{
		Name:     "caixa",
		ID:       1,
		Position: [3]float32{4, 5, 6},
	})

	p := comID.Pose.Position
	if p.X() != 4 || p.Y() != 5 || p.Z() != 6 {
		t.Errorf("pose da entidade com id = %v, want (4, 5, 6)", p)
	}
}

func TestApplyPoseDesconhecida(t *testing.T) {
	a, semID, comID := poseApp()

	// Nome sem correspondência não mexe em nada
	a.applyPose(&simnet.PoseUpdate{
		Name:     "fantasma",
		ID:       9,
		Position: [3]float32{7, 7, 7},
	})

	if semID.Pose.Position.X() != 0 || comID.Pose.Position.X() != 0 {
		t.Error("atualização de entidade desconhecida alterou nós existentes")
	}
}
