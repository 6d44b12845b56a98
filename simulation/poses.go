package simulation

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/velutils/climb/locomotion"
)

// Poses is a locomotion.PoseSource whose poses are set directly, by a Script or a replay.
type Poses struct {
	head  locomotion.Pose
	hands [2]locomotion.Pose
}

// NewPoses returns Poses with the head and hands at the positions passed and no rotation.
func NewPoses(head, left, right mgl32.Vec3) *Poses {
	p := &Poses{}
	p.head = locomotion.Pose{Position: head, Rotation: mgl32.QuatIdent()}
	p.hands[locomotion.Left] = locomotion.Pose{Position: left, Rotation: mgl32.QuatIdent()}
	p.hands[locomotion.Right] = locomotion.Pose{Position: right, Rotation: mgl32.QuatIdent()}
	return p
}

func (p *Poses) Head() locomotion.Pose {
	return p.head
}

func (p *Poses) Hand(side locomotion.Side) locomotion.Pose {
	return p.hands[side]
}

func (p *Poses) SetHead(pose locomotion.Pose) {
	p.head = pose
}

func (p *Poses) SetHand(side locomotion.Side, pose locomotion.Pose) {
	p.hands[side] = pose
}

// Set sets all three poses at once.
func (p *Poses) Set(head, left, right locomotion.Pose) {
	p.head = head
	p.hands[locomotion.Left] = left
	p.hands[locomotion.Right] = right
}
