package ir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tiro-lang/tiro/internal/strtab"
)

// Dump renders fn as the human-readable text format described in spec
// §4.7. The format is not parseable; it exists for snapshot testing and
// diagnostics. table resolves the InternedString handles stored in fn back
// to text — the IR itself never holds a StringTable reference (spec §1: the
// interner is an external collaborator).
func Dump(fn *Function, table *strtab.StringTable) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Function\n  Name: %s\n  Type: %s\n", safeString(table, fn.Name), fn.Kind)
	b.WriteString("\n")

	order := blockOrder(fn)
	for i, id := range order {
		if i > 0 {
			b.WriteString("\n")
		}
		dumpBlock(&b, fn, table, id)
	}

	return b.String()
}

func dumpBlock(b *strings.Builder, fn *Function, table *strtab.StringTable, id BlockId) {
	blk := fn.Block(id)

	fmt.Fprintf(b, "%s (sealed: %t, filled: %t)\n", blockRef(fn, table, id), blk.Sealed, blk.Filled)

	if len(blk.Predecessors) > 0 {
		b.WriteString("  <- ")
		for i, pred := range blk.Predecessors {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(blockRef(fn, table, pred))
		}
		b.WriteString("\n")
	}

	width := 1
	if n := len(blk.Stmts); n > 0 {
		width = len(strconv.Itoa(n - 1))
	}
	for i, stmt := range blk.Stmts {
		fmt.Fprintf(b, "    %*d: %s\n", width, i, dumpStmt(fn, table, stmt))
	}

	fmt.Fprintf(b, "  %s\n", dumpTerminator(fn, table, blk.Terminator))
}

// blockOrder computes reverse postorder purely for dump layout. The public,
// spec-§4.4-facing traversal lives in internal/ir/cfg, which imports this
// package; duplicating the handful of lines of DFS here (rather than
// importing cfg back into ir) keeps the dependency graph acyclic.
func blockOrder(fn *Function) []BlockId {
	visited := make([]bool, fn.NumBlocks())
	var postorder []BlockId

	type frame struct {
		id   BlockId
		next int
	}
	succs := make(map[BlockId][]BlockId)

	var stack []frame
	if fn.NumBlocks() == 0 {
		return nil
	}
	start := fn.Entry()
	visited[start] = true
	succs[start] = Successors(fn.Block(start).Terminator)
	stack = append(stack, frame{id: start})

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(succs[top.id]) {
			next := succs[top.id][top.next]
			top.next++
			if !visited[next] {
				visited[next] = true
				succs[next] = Successors(fn.Block(next).Terminator)
				stack = append(stack, frame{id: next})
			}
			continue
		}
		postorder = append(postorder, top.id)
		stack = stack[:len(stack)-1]
	}

	order := make([]BlockId, len(postorder))
	for i, id := range postorder {
		order[len(postorder)-1-i] = id
	}
	return order
}

func blockRef(fn *Function, table *strtab.StringTable, id BlockId) string {
	blk := fn.Block(id)
	if blk.Named {
		return fmt.Sprintf("$%d-%s", uint32(id), safeString(table, blk.Label))
	}
	return fmt.Sprintf("$%d", uint32(id))
}

func localRef(fn *Function, table *strtab.StringTable, id LocalId) string {
	if !id.Valid() {
		return "%<invalid>"
	}
	local := fn.Local(id)
	if local.Named {
		return fmt.Sprintf("%%%s_%d", safeString(table, local.Name), uint32(id))
	}
	return fmt.Sprintf("%%%d", uint32(id))
}

func safeString(table *strtab.StringTable, s strtab.InternedString) string {
	if table == nil || !s.Valid() {
		return "<unnamed>"
	}
	return table.Value(s)
}

func dumpStmt(fn *Function, table *strtab.StringTable, s Stmt) string {
	switch s.Kind {
	case StmtAssign:
		return fmt.Sprintf("%s = %s", dumpLValue(fn, table, s.Target), localRef(fn, table, s.Value))
	case StmtDefine:
		return fmt.Sprintf("%s = %s", localRef(fn, table, s.Local), dumpRValue(fn, table, fn.Local(s.Local).Value))
	default:
		return "<?stmt>"
	}
}

func dumpTerminator(fn *Function, table *strtab.StringTable, t Terminator) string {
	switch term := t.(type) {
	case None:
		return "-> <unterminated>"
	case Jump:
		return fmt.Sprintf("-> jump %s", blockRef(fn, table, term.Target))
	case Branch:
		return fmt.Sprintf("-> branch %s %s target: %s fallthrough: %s",
			term.Type, localRef(fn, table, term.Value),
			blockRef(fn, table, term.Target), blockRef(fn, table, term.Fallthrough))
	case Return:
		return fmt.Sprintf("-> return %s target: %s", localRef(fn, table, term.Value), blockRef(fn, table, term.Target))
	case Exit:
		return "-> exit"
	case AssertFail:
		return fmt.Sprintf("-> assert fail expr: %s message: %s target: %s",
			localRef(fn, table, term.Expr), localRef(fn, table, term.Message), blockRef(fn, table, term.Target))
	case Never:
		return fmt.Sprintf("-> never %s", blockRef(fn, table, term.Target))
	default:
		return "-> <?terminator>"
	}
}

func dumpLValue(fn *Function, table *strtab.StringTable, lv LValue) string {
	switch v := lv.(type) {
	case ParamLValue:
		return fmt.Sprintf("param(%d)", uint32(v.Param))
	case ClosureLValue:
		return fmt.Sprintf("closure(env: %s, levels: %d, index: %d)", localRef(fn, table, v.Env), v.Levels, v.Index)
	case ModuleLValue:
		return fmt.Sprintf("module(%d)", uint32(v.Member))
	case FieldLValue:
		return fmt.Sprintf("%s.%s", localRef(fn, table, v.Object), safeString(table, v.Name))
	case TupleFieldLValue:
		return fmt.Sprintf("%s.%d", localRef(fn, table, v.Object), v.Index)
	case IndexLValue:
		return fmt.Sprintf("%s[%s]", localRef(fn, table, v.Object), localRef(fn, table, v.Index))
	default:
		return "<?lvalue>"
	}
}

func dumpAggregate(fn *Function, table *strtab.StringTable, agg Aggregate) string {
	switch v := agg.(type) {
	case MethodAggregate:
		return fmt.Sprintf("method(%s.%s)", localRef(fn, table, v.Instance), safeString(table, v.Function))
	case IteratorNextAggregate:
		return fmt.Sprintf("iterator_next(%s)", localRef(fn, table, v.Iterator))
	default:
		return "<?aggregate>"
	}
}

func dumpLocalList(fn *Function, table *strtab.StringTable, id LocalListId) string {
	list := fn.LocalListOf(id)
	parts := make([]string, len(list.Items))
	for i, item := range list.Items {
		parts[i] = localRef(fn, table, item)
	}
	return strings.Join(parts, ", ")
}

func dumpRValue(fn *Function, table *strtab.StringTable, rv RValue) string {
	switch v := rv.(type) {
	case UseLValueRValue:
		return dumpLValue(fn, table, v.Value)
	case UseLocalRValue:
		return localRef(fn, table, v.Local)
	case PhiRValue:
		phi := fn.Phi(v.Phi)
		parts := make([]string, len(phi.Operands))
		for i, op := range phi.Operands {
			parts[i] = localRef(fn, table, op)
		}
		return fmt.Sprintf("phi(%s)", strings.Join(parts, ", "))
	case Phi0RValue:
		return "phi0"
	case ConstantRValue:
		return dumpConstant(table, v.Value)
	case OuterEnvironmentRValue:
		return "outer_environment"
	case BinaryOpRValue:
		return fmt.Sprintf("%s %s %s", localRef(fn, table, v.Left), v.Op, localRef(fn, table, v.Right))
	case UnaryOpRValue:
		return fmt.Sprintf("%s%s", v.Op, localRef(fn, table, v.Operand))
	case CallRValue:
		return fmt.Sprintf("call %s(%s)", localRef(fn, table, v.Func), dumpLocalList(fn, table, v.Args))
	case AggregateRValue:
		return dumpAggregate(fn, table, v.Value)
	case GetAggregateMemberRValue:
		return fmt.Sprintf("%s.%s", localRef(fn, table, v.Aggregate), v.Member)
	case MethodCallRValue:
		return fmt.Sprintf("method_call %s(%s)", localRef(fn, table, v.Method), dumpLocalList(fn, table, v.Args))
	case MakeEnvironmentRValue:
		return fmt.Sprintf("make_environment(parent: %s, size: %d)", localRef(fn, table, v.Parent), v.Size)
	case MakeClosureRValue:
		return fmt.Sprintf("make_closure(env: %s, func: %s)", localRef(fn, table, v.Env), localRef(fn, table, v.Func))
	case MakeIteratorRValue:
		return fmt.Sprintf("make_iterator(%s)", localRef(fn, table, v.Container))
	case RecordRValue:
		rec := fn.RecordOf(v.Record)
		parts := make([]string, len(rec.Fields))
		for i, field := range rec.Fields {
			parts[i] = fmt.Sprintf("%s: %s", safeString(table, field.Name), localRef(fn, table, field.Value))
		}
		return fmt.Sprintf("record {%s}", strings.Join(parts, ", "))
	case ContainerRValue:
		return fmt.Sprintf("%s(%s)", strings.ToLower(v.Type.String()), dumpLocalList(fn, table, v.Args))
	case FormatRValue:
		return fmt.Sprintf("format(%s)", dumpLocalList(fn, table, v.Args))
	case ErrorRValue:
		return "<error>"
	default:
		return "<?rvalue>"
	}
}

func dumpConstant(table *strtab.StringTable, c Constant) string {
	switch c.Kind {
	case ConstantInteger:
		return strconv.FormatInt(c.Int, 10)
	case ConstantFloat:
		return formatFloat(c.Float)
	case ConstantString:
		return strconv.Quote(safeString(table, c.Str))
	case ConstantSymbol:
		return "#" + safeString(table, c.Str)
	case ConstantNull:
		return "null"
	case ConstantTrue:
		return "true"
	case ConstantFalse:
		return "false"
	default:
		return "<?constant>"
	}
}

func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}
