package climb

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hwarang98/ClimbingSystem/common"
	"github.com/hwarang98/ClimbingSystem/component"
	"github.com/sirupsen/logrus"
)

// HopDirection is the classified direction of a hop request.
type HopDirection int8

const (
	HopNone HopDirection = iota
	HopUp
	HopDown
)

// ToggleClimb starts a traversal when not climbing (climb, else climb down a
// ledge, else vault) and stops climbing otherwise. Failed checks do nothing.
func (c *Component) ToggleClimb() {
	if c == nil || c.body == nil {
		return
	}
	if c.IsClimbing() {
		c.StopClimbing()
		return
	}

	m := c.climb.Montages
	switch {
	case c.canStartClimbing():
		c.playMontage(m.IdleToClimb, ActionStartClimb, &pendingTransition{to: component.ModeClimbing, stopMovement: true})
	case c.canClimbDownLedge():
		c.playMontage(m.ClimbDownLedge, ActionClimbDownLedge, &pendingTransition{to: component.ModeClimbing, stopMovement: true})
	default:
		c.tryStartVaulting()
	}
}

// canStartClimbing needs ground under the feet, a surface ahead and a surface
// at eye height.
func (c *Component) canStartClimbing() bool {
	if c.IsFalling() || !c.traceClimbableSurfaces() {
		return false
	}
	c.processClimbableSurfaceInfo()
	return c.prober.EyeHeight(c.body, c.climb.EyeTraceDistance, 0).Blocking
}

// canClimbDownLedge needs walkable ground just ahead and a drop right after it.
func (c *Component) canClimbDownLedge() bool {
	if c.IsFalling() {
		return false
	}
	cd := c.climb.ClimbDown
	forward := c.body.Forward()

	walkStart := c.body.Location.Add(forward.Mul(cd.WalkableSurfaceOffset))
	walkable := c.prober.Down(c.body, walkStart, cd.WalkableDepth)

	ledgeStart := walkable.TraceStart.Add(forward.Mul(cd.LedgeOffset))
	ledge := c.prober.Down(c.body, ledgeStart, cd.LedgeDepth)

	return walkable.Blocking && !ledge.Blocking
}

// canStartVaulting steps downward traces forward over an obstacle. The first
// step gives the start point and the land step the landing point.
func (c *Component) canStartVaulting() (start, land mgl64.Vec3, ok bool) {
	if c.IsFalling() {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	v := c.climb.Vault
	loc := c.body.Location
	forward := c.body.Forward()
	up := c.body.Up()

	for i := 0; i < v.TraceSteps; i++ {
		step := float64(i + 1)
		from := loc.Add(up.Mul(v.Up)).Add(forward.Mul(v.ForwardStep * step))
		hit := c.prober.Down(c.body, from, v.DownStep*step)
		if !hit.Blocking {
			continue
		}
		if i == 0 {
			start = hit.ImpactPoint
		}
		if i == v.LandTraceIndex {
			land = hit.ImpactPoint
		}
	}

	zero := mgl64.Vec3{}
	if start == zero || land == zero {
		return mgl64.Vec3{}, mgl64.Vec3{}, false
	}
	return start, land, true
}

func (c *Component) tryStartVaulting() {
	start, land, ok := c.canStartVaulting()
	if !ok {
		return
	}
	v := c.climb.Vault
	c.setWarpTarget(v.StartPointName, start)
	c.setWarpTarget(v.LandPointName, land)

	c.startClimbing()
	c.playMontage(c.climb.Montages.Vault, ActionVault, &pendingTransition{to: component.ModeWalking})
}

// RequestHop hops up or down along the surface in the direction of the last
// movement input. It does not check the mode; hosts only map it while climbing.
func (c *Component) RequestHop() {
	if c == nil || c.body == nil {
		return
	}
	local := common.Unrotate(c.body.Rotation, c.lastInput)
	switch ClassifyHop(local, c.climb.Hop.DotThreshold) {
	case HopUp:
		c.handleHopUp()
	case HopDown:
		c.handleHopDown()
	}
}

// ClassifyHop maps a local-frame input direction to a hop.
func ClassifyHop(localInput mgl64.Vec3, threshold float64) HopDirection {
	dot := common.SafeNormal(localInput).Dot(common.AxisUp)
	switch {
	case dot >= threshold:
		return HopUp
	case dot <= -threshold:
		return HopDown
	}
	return HopNone
}

func (c *Component) handleHopUp() {
	target, ok := c.checkCanHopUp()
	if !ok {
		return
	}
	c.setWarpTarget(c.climb.Hop.UpTargetName, target)
	c.playMontage(c.climb.Montages.HopUp, ActionHopUp, nil)
}

// checkCanHopUp needs a surface at the hop height and another above it.
func (c *Component) checkCanHopUp() (mgl64.Vec3, bool) {
	h := c.climb.Hop
	hop := c.prober.EyeHeight(c.body, h.TraceDistance, h.UpOffset)
	safety := c.prober.EyeHeight(c.body, h.TraceDistance, h.UpSafetyOffset)
	if hop.Blocking && safety.Blocking {
		return hop.ImpactPoint, true
	}
	return mgl64.Vec3{}, false
}

func (c *Component) handleHopDown() {
	target, ok := c.checkCanHopDown()
	if !ok {
		return
	}
	c.setWarpTarget(c.climb.Hop.DownTargetName, target)
	c.playMontage(c.climb.Montages.HopDown, ActionHopDown, nil)
}

func (c *Component) checkCanHopDown() (mgl64.Vec3, bool) {
	h := c.climb.Hop
	hop := c.prober.EyeHeight(c.body, h.TraceDistance, h.DownOffset)
	if !hop.Blocking {
		return mgl64.Vec3{}, false
	}
	return hop.ImpactPoint, true
}

// playMontage starts a clip unless one is already playing. The pending
// transition is armed only when the clip really started.
func (c *Component) playMontage(id component.MontageID, action Action, next *pendingTransition) bool {
	if id == component.NoMontage || c.animator == nil || c.animator.IsAnyMontagePlaying() {
		return false
	}
	if !c.animator.PlayMontage(id) {
		return false
	}
	if next != nil {
		next.montage = id
		next.action = action
	}
	c.pending = next

	c.log.WithFields(logrus.Fields{
		"action":  action.String(),
		"montage": string(id),
	}).Debug("traversal committed")
	c.events.Push(Event{Kind: EventActionCommitted, Action: action, Montage: id})
	return true
}

func (c *Component) setWarpTarget(name string, location mgl64.Vec3) {
	if c.warper == nil {
		return
	}
	c.warper.SetWarpTarget(name, location)
}

// OnMontageEnded finishes the transition a clip was committed for. It handles
// both the blending-out and the ended notification; whichever comes first
// consumes the pending transition. Interruption is not distinguished.
func (c *Component) OnMontageEnded(id component.MontageID, interrupted bool) {
	if c == nil || c.pending == nil || c.pending.montage != id {
		return
	}
	t := c.pending
	c.pending = nil

	c.events.Push(Event{Kind: EventMontageFinished, Action: t.action, Montage: id, Interrupted: interrupted})
	c.setMode(t.to, StopMontageFinished)
	if t.stopMovement {
		c.body.StopMovementImmediately()
	}
}
