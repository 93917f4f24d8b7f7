// Command viatest runs the via pushout resolver against rectangular obstacles
// and prints the resulting force.
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"pcb-router/internal/item"
	"pcb-router/internal/node"
	"pcb-router/internal/pushout"
	"pcb-router/pkg/geometry"
)

// rectList collects -rect flags of the form x,y,w,h.
type rectList []*geometry.Rect

func (r *rectList) String() string {
	parts := make([]string, len(*r))
	for i, rc := range *r {
		parts[i] = fmt.Sprintf("%d,%d,%d,%d", rc.P0.X, rc.P0.Y, rc.Width, rc.Height)
	}
	return strings.Join(parts, " ")
}

func (r *rectList) Set(value string) error {
	fields := strings.Split(value, ",")
	if len(fields) != 4 {
		return fmt.Errorf("want x,y,w,h, got %q", value)
	}
	var v [4]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return fmt.Errorf("rect field %d: %w", i+1, err)
		}
		v[i] = n
	}
	*r = append(*r, geometry.NewRect(geometry.Point{X: v[0], Y: v[1]}, v[2], v[3]))
	return nil
}

func main() {
	var rects rectList
	x := flag.Int("x", 0, "Via X position")
	y := flag.Int("y", 0, "Via Y position")
	diameter := flag.Int("diameter", 600, "Via pad diameter")
	drill := flag.Int("drill", 250, "Via drill diameter")
	clearance := flag.Int("clearance", 0, "Clearance to obstacles")
	dirX := flag.Int("dirx", 0, "Push direction X")
	dirY := flag.Int("diry", 0, "Push direction Y")
	iterations := flag.Int("iterations", pushout.DefaultPolicy().MaxIterations, "Maximum pushout iterations")
	minStep := flag.Int("minstep", pushout.DefaultPolicy().MinStep, "Minimum step per iteration")
	flag.Var(&rects, "rect", "Obstacle rectangle x,y,w,h (repeatable)")
	flag.Parse()

	if len(rects) == 0 {
		fmt.Println("Usage: viatest -rect x,y,w,h [-rect ...] [-x 0 -y 0] [-diameter 600] [-dirx 1 -diry 0]")
		os.Exit(1)
	}

	n := node.New()
	for _, r := range rects {
		n.Add(item.NewSolid(r))
	}
	v := item.NewVia(geometry.Point{X: *x, Y: *y}, *diameter, *drill, 1)

	policy := pushout.DefaultPolicy().WithMaxIterations(*iterations).WithMinStep(*minStep)
	fmt.Printf("Via: %s\n", v)
	fmt.Printf("Obstacles: %d\n", len(rects))
	fmt.Printf("Policy: max %d iterations, min step %d, solids only %v\n",
		policy.MaxIterations, policy.MinStep, policy.SolidsOnly)

	q := node.Query{Clearance: *clearance}
	before := n.QueryColliding(v, q)
	fmt.Printf("\nColliding before pushout: %d\n", len(before))
	for _, o := range before {
		fmt.Printf("  #%d %s gap %d\n", o.ID, o.Item, o.Distance)
	}

	r := pushout.NewResolver(policy, *clearance, nil)
	force, ok := r.PushoutForce(n, v, geometry.Point{X: *dirX, Y: *dirY})
	if !ok {
		fmt.Printf("\nNo clear position found (last offset %d,%d)\n", force.X, force.Y)
		os.Exit(2)
	}

	moved := v.CloneVia()
	moved.Move(force)
	fmt.Printf("\nForce: (%d,%d) length %.1f\n", force.X, force.Y, force.EuclideanNorm())
	fmt.Printf("New position: (%d,%d)\n", moved.Pos().X, moved.Pos().Y)
}
