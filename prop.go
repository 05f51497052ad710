package main

// PropagateReanalysis implements spec.md §4.5: for each DeclId in
// functionsChanged, seed a worklist with its RCG node; pop nodes, skipping
// ones already marked, otherwise mark and append to the result then push
// every caller. The per-node mark ensures each node is appended at most
// once, terminating in O(|N|+|E|).
func PropagateReanalysis(g *ReverseCallGraph, functionsChanged map[DeclId]struct{}) []DeclId {
	marked := make(map[DeclId]struct{})
	var result []DeclId

	// Deterministic seed order (spec.md §5, determinism given deterministic
	// insertion order): sort the changed set before seeding the worklist.
	seeds := make([]DeclId, 0, len(functionsChanged))
	for id := range functionsChanged {
		seeds = append(seeds, id)
	}
	sortDeclIds(seeds)

	var worklist []DeclId
	worklist = append(worklist, seeds...)

	for len(worklist) > 0 {
		id := worklist[0]
		worklist = worklist[1:]

		if _, ok := marked[id]; ok {
			continue
		}
		marked[id] = struct{}{}
		result = append(result, id)

		node := g.GetNode(id)
		if node == nil {
			continue
		}
		for _, caller := range node.Callers() {
			if _, ok := marked[caller]; !ok {
				worklist = append(worklist, caller)
			}
		}
	}

	return result
}
