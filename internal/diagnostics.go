package internal

import (
	"fmt"
	"sort"

	"github.com/m1gwings/treedrawer/tree"
)

// renderStuck builds an ASCII tree of every participant that entered this
// wave's engagement but never reached RESOLVED, showing what each is still
// waiting on. It is attached to convergence-failure errors only; it has no
// effect on propagation and is safe to call on a dead wave.
func (w *Wave) renderStuck() string {
	stuck := w.stuckParticipants()
	if len(stuck) == 0 {
		return ""
	}

	root := tree.NewTree(tree.NodeString("stuck participants"))
	visited := make(map[*Participant]bool)

	for _, p := range stuck {
		attachStuckBranch(root, p, visited)
	}

	return root.String()
}

func (w *Wave) stuckParticipants() []*Participant {
	var stuck []*Participant
	for _, p := range w.bootQueue {
		if p.state != StateResolved {
			stuck = append(stuck, p)
		}
	}
	sort.Slice(stuck, func(i, j int) bool { return stuck[i].Name < stuck[j].Name })
	return stuck
}

func attachStuckBranch(parent *tree.Tree, p *Participant, visited map[*Participant]bool) {
	if visited[p] {
		return
	}
	visited[p] = true

	label := fmt.Sprintf("%s (pendingDeps=%d, state=%s)", nameOrAnon(p), p.pendingDeps, p.state)
	node := parent.AddChild(tree.NodeString(label))

	for _, target := range p.waitingOn {
		attachStuckBranch(node, target, visited)
	}
}

func nameOrAnon(p *Participant) string {
	if p.Name == "" {
		return "<anonymous>"
	}
	return p.Name
}
