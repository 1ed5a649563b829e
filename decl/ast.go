package decl

import (
	"fmt"
	"strconv"
	"strings"

	gfn "github.com/panyam/goutils/fn"
)

// Node represents any node in a formula's syntax tree.
type Node interface {
	Pos() int       // Starting byte offset in the formula text
	End() int       // Byte offset just past the node
	String() string // String representation for debugging/printing
}

// NodeInfo embeddable struct for position tracking.
type NodeInfo struct{ StartPos, StopPos int }

func (n *NodeInfo) Pos() int { return n.StartPos }
func (n *NodeInfo) End() int { return n.StopPos }

// Expr is a formula expression. The set of implementations is closed:
// *NumberExpr, *VariableExpr, *BinaryExpr, *UnaryExpr and *CallExpr.
// Nodes are never modified once the parser returns them.
type Expr interface {
	Node
	exprNode()
}

// NumberExpr is a numeric literal.
type NumberExpr struct {
	NodeInfo
	Value float64
}

// VariableExpr is a bare identifier, resolved against the variable map and
// then the constant table at evaluation time.
type VariableExpr struct {
	NodeInfo
	Name string
}

// BinaryExpr applies one of + - * / ** to two operands.
type BinaryExpr struct {
	NodeInfo
	Op    string
	Left  Expr
	Right Expr
}

// UnaryExpr is a prefix operator. The parser only produces "-".
type UnaryExpr struct {
	NodeInfo
	Op      string
	Operand Expr
}

// CallExpr is an identifier immediately followed by an argument list.
type CallExpr struct {
	NodeInfo
	Name string
	Args []Expr
}

func (*NumberExpr) exprNode()   {}
func (*VariableExpr) exprNode() {}
func (*BinaryExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}

func (n *NumberExpr) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

func (v *VariableExpr) String() string { return v.Name }

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

func (u *UnaryExpr) String() string {
	return fmt.Sprintf("(%s%s)", u.Op, u.Operand)
}

func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(gfn.Map(c.Args, func(e Expr) string { return e.String() }), ", "))
}

// Constructors for building trees outside the parser (tests, programmatic
// formulas). Positions are left at zero.

func Number(value float64) *NumberExpr { return &NumberExpr{Value: value} }

func Variable(name string) *VariableExpr { return &VariableExpr{Name: name} }

func Binary(op string, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}

func Unary(op string, operand Expr) *UnaryExpr {
	return &UnaryExpr{Op: op, Operand: operand}
}

func Call(name string, args ...Expr) *CallExpr {
	if args == nil {
		args = []Expr{}
	}
	return &CallExpr{Name: name, Args: args}
}
