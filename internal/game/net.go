package game

import "math"

// NetNode is a Verlet particle; velocity is implied by Pos - Old.
type NetNode struct {
	Pos    Vec2 `json:"pos"`
	Old    Vec2 `json:"-"`
	Pinned bool `json:"pinned"`
}

// NetLink keeps two nodes at their rest length.
type NetLink struct {
	A   int     `json:"a"`
	B   int     `json:"b"`
	Len float64 `json:"len"`
}

// Net is a hoop's cloth: NetRows x NetCols nodes, row-major, with the top row pinned to the rim.
type Net struct {
	Nodes []NetNode `json:"nodes"`
	Links []NetLink `json:"links"`
	Rows  int       `json:"rows"`
	Cols  int       `json:"cols"`
}

// NewNet lays the grid out below the rim center (x, y).
func NewNet(x, y float64) *Net {
	n := &Net{
		Nodes: make([]NetNode, 0, NetRows*NetCols),
		Rows:  NetRows,
		Cols:  NetCols,
	}
	for r := 0; r < NetRows; r++ {
		for c := 0; c < NetCols; c++ {
			p := n.restPosition(x, y, r, c)
			n.Nodes = append(n.Nodes, NetNode{Pos: p, Old: p, Pinned: r == 0})
		}
	}

	for r := 0; r < NetRows; r++ {
		for c := 0; c < NetCols; c++ {
			i := r*NetCols + c
			if c < NetCols-1 {
				n.link(i, i+1)
			}
			if r < NetRows-1 {
				n.link(i, i+NetCols)
			}
		}
	}
	return n
}

func (n *Net) link(a, b int) {
	n.Links = append(n.Links, NetLink{A: a, B: b, Len: n.Nodes[a].Pos.DistanceTo(n.Nodes[b].Pos)})
}

func (n *Net) restPosition(x, y float64, r, c int) Vec2 {
	return Vec2{
		X: x - NetWidth/2 + float64(c)*(NetWidth/float64(n.Cols-1)),
		Y: y + float64(r)*(NetHeight/float64(n.Rows-1)),
	}
}

// Step advances the cloth one frame for a hoop at (hoopX, hoopY) moving by moveX per frame.
// The ball drags the net only when airborne and near the rim.
func (n *Net) Step(hoopX, hoopY, moveX float64, ball *Ball, airborne bool) {
	for i := range n.Nodes {
		nd := &n.Nodes[i]
		if nd.Pinned {
			nd.Pos.X += moveX
			nd.Pos.Y = hoopY
			continue
		}
		vx := (nd.Pos.X - nd.Old.X) * NetDamping
		vy := (nd.Pos.Y - nd.Old.Y) * NetDamping
		nd.Old = nd.Pos
		nd.Pos.X += vx
		nd.Pos.Y += vy + NetGravity
	}

	for iter := 0; iter < NetIterations; iter++ {
		for _, l := range n.Links {
			n.relax(l)
		}
	}

	if airborne && ball != nil &&
		math.Abs(ball.Y-hoopY) < NetReachY && math.Abs(ball.X-hoopX) < NetReachX {
		n.dragBy(ball)
	}

	for c := 0; c < n.Cols && c < len(n.Nodes); c++ {
		n.Nodes[c].Pos = n.restPosition(hoopX, hoopY, 0, c)
	}
}

func (n *Net) relax(l NetLink) {
	a, b := &n.Nodes[l.A], &n.Nodes[l.B]
	d := b.Pos.Minus(a.Pos)
	dist := d.Magnitude()
	if dist == 0 {
		return
	}
	shift := d.Times((l.Len - dist) / dist * 0.5)
	if !a.Pinned {
		a.Pos = a.Pos.Minus(shift)
	}
	if !b.Pinned {
		b.Pos = b.Pos.Plus(shift)
	}
}

func (n *Net) dragBy(ball *Ball) {
	reach := ball.R + NetSkin
	for i := range n.Nodes {
		// Pinned nodes take the push too; the rim resync restores them afterwards.
		nd := &n.Nodes[i]
		d := nd.Pos.Minus(ball.pos())
		dist := d.Magnitude()
		if dist >= reach {
			continue
		}
		if dist == 0 {
			nd.Pos.Y += reach * 0.5
		} else {
			nd.Pos = nd.Pos.Plus(d.Times((reach - dist) / dist * 0.5))
		}
		ball.VX *= NetDrag
		ball.VY *= NetDrag
	}
}
