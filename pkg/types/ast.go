package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types of the binding expression language.
const (
	// Literals
	NodeString  NodeType = "string"
	NodeNumber  NodeType = "number"
	NodeBoolean NodeType = "boolean"
	NodeNull    NodeType = "null"

	// Navigation
	NodePath     NodeType = "path"     // root step followed by member/index steps
	NodeName     NodeType = "name"     // identifier (root lookup or .member step)
	NodeIndex    NodeType = "index"    // [expr] step
	NodeVariable NodeType = "variable" // $index

	// Functions
	NodeFunction NodeType = "function" // name(args) or input | name(args)
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type      NodeType
	StrValue  string  // names, function names and string literals
	NumValue  float64 // NodeNumber
	BoolValue bool    // NodeBoolean
	Position  int

	// Relations
	LHS       *ASTNode   // NodeIndex: index expression; NodeFunction: piped input
	Steps     []*ASTNode // NodePath steps, root first
	Arguments []*ASTNode // NodeFunction arguments
}

// NewASTNode creates a new AST node of the specified type.
// Prefer NodeArena.Alloc when parsing to reduce per-node heap allocations.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// arenaChunkSize is the number of ASTNode values pre-allocated per arena chunk.
// Binding expressions are short; most fit in one chunk.
const arenaChunkSize = 16

// NodeArena is a bump-pointer allocator for ASTNode values.
//
// The arena pre-allocates fixed-size chunks of ASTNode structs and returns
// pointers into them, so a typical binding needs a single allocation for all
// of its nodes.
//
// # Lifetime
//
// The arena MUST stay alive as long as any pointer returned by Alloc is
// reachable. Attaching the arena to the [Expression] achieves this.
//
// # Thread safety
//
// NodeArena is NOT thread-safe. Each parser owns its own arena.
type NodeArena struct {
	chunks [][]ASTNode
	pos    int // next free index in the last chunk
}

// NewNodeArena allocates an arena pre-warmed with one initial chunk.
func NewNodeArena() *NodeArena {
	return &NodeArena{
		chunks: [][]ASTNode{make([]ASTNode, arenaChunkSize)},
	}
}

// Alloc returns a pointer to a zero-valued ASTNode inside the arena,
// with Type and Position set.
func (a *NodeArena) Alloc(nodeType NodeType, position int) *ASTNode {
	if a.pos >= arenaChunkSize {
		a.chunks = append(a.chunks, make([]ASTNode, arenaChunkSize))
		a.pos = 0
	}
	n := &a.chunks[len(a.chunks)-1][a.pos]
	a.pos++
	n.Type = nodeType
	n.Position = position
	return n
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}

// Calls returns the function call nodes of the tree rooted at n, in
// evaluation order: piped input first, then arguments, then the call itself.
func (n *ASTNode) Calls() []*ASTNode {
	var calls []*ASTNode
	var walk func(*ASTNode)
	walk = func(node *ASTNode) {
		if node == nil {
			return
		}
		walk(node.LHS)
		for _, s := range node.Steps {
			walk(s)
		}
		for _, a := range node.Arguments {
			walk(a)
		}
		if node.Type == NodeFunction {
			calls = append(calls, node)
		}
	}
	walk(n)
	return calls
}
