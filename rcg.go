package main

// RCGNode is one node in the Reverse Call Graph: a canonical function/method
// declaration plus the list of its distinct callers (spec.md §3, §4.2).
type RCGNode struct {
	Decl    *DeclRecord // nil for the sentinel root
	callers []DeclId    // deduplicated, insertion order
	seen    map[DeclId]struct{}
}

func newRCGNode(decl *DeclRecord) *RCGNode {
	return &RCGNode{Decl: decl, seen: make(map[DeclId]struct{})}
}

// addCaller records caller as a distinct predecessor of this node,
// deduplicating by DeclId. The original clang tool's ReverseCallGraphNode
// goes further and dedups by caller alone even across distinct call
// expressions ("different call records to the same caller compare equal");
// we reproduce that exactly since the RCG only needs reachability, not a
// multiset of call sites.
func (n *RCGNode) addCaller(caller DeclId) {
	if _, dup := n.seen[caller]; dup {
		return
	}
	n.seen[caller] = struct{}{}
	n.callers = append(n.callers, caller)
}

// Callers returns this node's distinct caller DeclIds, in first-seen order.
func (n *RCGNode) Callers() []DeclId { return n.callers }

// ReverseCallGraph is a directed graph whose nodes are canonical function
// declarations and whose edges point callee -> caller, plus a sentinel root
// with edges to every externally-linked function (spec.md §3, §4.2).
type ReverseCallGraph struct {
	nodes map[DeclId]*RCGNode
	root  *RCGNode
}

func NewReverseCallGraph() *ReverseCallGraph {
	g := &ReverseCallGraph{nodes: make(map[DeclId]*RCGNode)}
	g.root = newRCGNode(nil)
	g.nodes[rootDeclId] = g.root
	return g
}

// GetNode returns the existing node for id, or nil.
func (g *ReverseCallGraph) GetNode(id DeclId) *RCGNode {
	return g.nodes[id]
}

// GetOrInsert returns the node for decl.Id, creating one if absent.
func (g *ReverseCallGraph) GetOrInsert(decl *DeclRecord) *RCGNode {
	if n, ok := g.nodes[decl.Id]; ok {
		return n
	}
	n := newRCGNode(decl)
	g.nodes[decl.Id] = n
	return n
}

// Root returns the sentinel root node.
func (g *ReverseCallGraph) Root() *RCGNode { return g.root }

// AddEdge records a callee -> caller edge: callee is called by caller, so
// caller becomes one of callee's "callers" entries (spec.md: "edges point
// from callee to caller (reversed)"). Both ends are assumed already
// canonicalized and present via GetOrInsert.
func (g *ReverseCallGraph) AddEdge(calleeId, callerId DeclId) {
	callee, ok := g.nodes[calleeId]
	if !ok {
		return
	}
	callee.addCaller(callerId)
}

// AddRootEdge marks f as externally reachable by adding it to root's own
// caller list. This looks backwards next to AddEdge's callee/caller
// convention, but it isn't: ReversePostorder's DFS descends through a
// node's callers to find the next nodes to visit, and root is the DFS's
// entry point (spec.md §4.2, "sentinel root node has edges to
// externally-linked functions"). Putting f in root.callers is exactly what
// makes root's traversal step reach f next, then f's own callers, and so
// on — the same mechanism AddEdge uses for every other node, just rooted at
// the sentinel instead of a real declaration.
func (g *ReverseCallGraph) AddRootEdge(fId DeclId) {
	g.root.addCaller(fId)
}

// Size returns the number of nodes excluding the sentinel root.
func (g *ReverseCallGraph) Size() int {
	n := len(g.nodes)
	if _, ok := g.nodes[rootDeclId]; ok {
		n--
	}
	return n
}

// ReversePostorder visits every node reachable from root, each exactly
// once, in reverse-postorder (spec.md §4.2 "Iteration: reverse-postorder
// traversal starting from root"; §5 "deterministic given a deterministic
// node insertion order"). visit is called once per node with its DeclId.
func (g *ReverseCallGraph) ReversePostorder(visit func(DeclId)) {
	visited := make(map[DeclId]struct{})
	var order []DeclId

	var dfs func(id DeclId)
	dfs = func(id DeclId) {
		if _, ok := visited[id]; ok {
			return
		}
		visited[id] = struct{}{}
		n := g.nodes[id]
		if n == nil {
			return
		}
		for _, c := range n.callers {
			dfs(c)
		}
		order = append(order, id)
	}
	dfs(rootDeclId)

	// Any node not reachable from root (spec.md §4.2: "unreachable nodes,
	// which are either unused or are due to analysis imprecision") is still
	// visited, in a second deterministic pass over remaining node ids, so
	// callers (e.g. vfs.go's reverse-postorder scan for AffectedVFs) see
	// every declaration exactly once.
	var rest []DeclId
	for id := range g.nodes {
		if _, ok := visited[id]; !ok {
			rest = append(rest, id)
		}
	}
	sortDeclIds(rest)
	for _, id := range rest {
		dfs(id)
	}

	// Reverse: dfs appends a node only after all of its callers, so the
	// postorder lists callers before callees; reversing it reports each
	// callee before its callers (root before the functions wired to it).
	for i := len(order) - 1; i >= 0; i-- {
		visit(order[i])
	}
}

func sortDeclIds(ids []DeclId) {
	for i := 1; i < len(ids); i++ {
		for j := i; j > 0 && ids[j-1] > ids[j]; j-- {
			ids[j-1], ids[j] = ids[j], ids[j-1]
		}
	}
}
