// Package versiongraph turns a flat fork lineage of recipes into a
// positioned node/edge tree for left-to-right rendering.
package versiongraph

import (
	"sort"

	"github.com/mise/backend/internal/domain/recipe"
)

// Layout constants, in logical pixels.
const (
	nodeWidth  = 220.0
	nodeHeight = 96.0
	hGap       = 80.0
	vGap       = 24.0
)

// Node wraps a recipe with its computed position. Nodes are rebuilt on
// every Build call and never mutated afterward.
type Node struct {
	Recipe    recipe.Recipe `json:"recipe"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Depth     int           `json:"depth"`
	IsCurrent bool          `json:"is_current"`
}

// Edge is a directed parent-to-child link between two recipe ids.
type Edge struct {
	FromID int64 `json:"from_id"`
	ToID   int64 `json:"to_id"`
}

// Graph is the positioned output of Build.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build constructs the version graph for one fork lineage. Records with
// an empty name are masked placeholders and are dropped before any
// other step. currentID marks the node being viewed.
func Build(recipes []recipe.Recipe, currentID int64) Graph {
	visible := make([]recipe.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Name != "" {
			visible = append(visible, r)
		}
	}
	if len(visible) == 0 {
		return Graph{Nodes: []Node{}, Edges: []Edge{}}
	}

	byID := make(map[int64]recipe.Recipe, len(visible))
	for _, r := range visible {
		byID[r.ID] = r
	}

	root := selectRoot(visible)

	// Children are indexed only under visible parents. An edge to a
	// filtered-out parent is dropped, not reattached.
	children := make(map[int64][]recipe.Recipe)
	for _, r := range visible {
		if r.RootID == nil {
			continue
		}
		if _, ok := byID[*r.RootID]; ok {
			children[*r.RootID] = append(children[*r.RootID], r)
		}
	}
	for id := range children {
		sort.Slice(children[id], func(i, j int) bool {
			if children[id][i].Version != children[id][j].Version {
				return children[id][i].Version < children[id][j].Version
			}
			return children[id][i].ID < children[id][j].ID
		})
	}

	depths := assignDepths(root, visible, children)

	return layout(visible, children, depths, currentID)
}

// selectRoot picks the recipe with a nil root reference, falling back
// to the lowest version when the true root was filtered out.
func selectRoot(visible []recipe.Recipe) recipe.Recipe {
	for _, r := range visible {
		if r.RootID == nil {
			return r
		}
	}
	root := visible[0]
	for _, r := range visible[1:] {
		if r.Version < root.Version {
			root = r
		}
	}
	return root
}

// assignDepths runs a BFS from the root. A visited set guards against
// malformed cyclic data. Recipes unreached by the BFS fall back to
// depth version-1.
func assignDepths(root recipe.Recipe, visible []recipe.Recipe, children map[int64][]recipe.Recipe) map[int64]int {
	depths := make(map[int64]int, len(visible))
	visited := make(map[int64]bool, len(visible))

	queue := []recipe.Recipe{root}
	visited[root.ID] = true
	depths[root.ID] = 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, child := range children[cur.ID] {
			if visited[child.ID] {
				continue
			}
			visited[child.ID] = true
			depths[child.ID] = depths[cur.ID] + 1
			queue = append(queue, child)
		}
	}

	for _, r := range visible {
		if !visited[r.ID] {
			depth := r.Version - 1
			if depth < 0 {
				depth = 0
			}
			depths[r.ID] = depth
		}
	}
	return depths
}

// layout stacks each depth level vertically, centered around y = 0,
// and places levels left to right.
func layout(visible []recipe.Recipe, children map[int64][]recipe.Recipe, depths map[int64]int, currentID int64) Graph {
	levels := make(map[int][]recipe.Recipe)
	maxDepth := 0
	for _, r := range visible {
		d := depths[r.ID]
		levels[d] = append(levels[d], r)
		if d > maxDepth {
			maxDepth = d
		}
	}

	nodes := make([]Node, 0, len(visible))
	for d := 0; d <= maxDepth; d++ {
		level := levels[d]
		sort.Slice(level, func(i, j int) bool {
			if level[i].Version != level[j].Version {
				return level[i].Version < level[j].Version
			}
			return level[i].ID < level[j].ID
		})

		totalHeight := float64(len(level))*nodeHeight + float64(len(level)-1)*vGap
		x := float64(d) * (nodeWidth + hGap)
		for i, r := range level {
			y := -totalHeight/2 + float64(i)*(nodeHeight+vGap)
			nodes = append(nodes, Node{
				Recipe:    r,
				X:         x,
				Y:         y,
				Depth:     d,
				IsCurrent: r.ID == currentID,
			})
		}
	}

	edges := make([]Edge, 0, len(visible))
	parentIDs := make([]int64, 0, len(children))
	for id := range children {
		parentIDs = append(parentIDs, id)
	}
	sort.Slice(parentIDs, func(i, j int) bool { return parentIDs[i] < parentIDs[j] })
	for _, id := range parentIDs {
		for _, child := range children[id] {
			edges = append(edges, Edge{FromID: id, ToID: child.ID})
		}
	}

	return Graph{Nodes: nodes, Edges: edges}
}
