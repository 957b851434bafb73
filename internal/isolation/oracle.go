package isolation

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/hanibalsk/property-management-sub005/internal/core/identity"
)

// Oracle evaluates the per-table visibility expressions. It is the
// harness's independent answer to "should this identity see this row",
// kept deliberately separate from the SQL policies under test.
type Oracle struct {
	programs map[string]cel.Program
}

// NewOracle compiles the visibility expression of every protected table.
func NewOracle() (*Oracle, error) {
	env, err := cel.NewEnv(
		cel.Variable("row", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("ident", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("create cel env: %w", err)
	}

	programs := make(map[string]cel.Program, len(ProtectedTables))
	for _, table := range ProtectedTables {
		ast, iss := env.Compile(table.Visibility)
		if iss.Err() != nil {
			return nil, fmt.Errorf("compile visibility for %s: %w", table.Name, iss.Err())
		}
		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("program visibility for %s: %w", table.Name, err)
		}
		programs[table.Name] = prg
	}

	return &Oracle{programs: programs}, nil
}

// Visible reports whether the identity should see the given row of table.
func (o *Oracle) Visible(table string, row map[string]any, ri identity.RequestIdentity) (bool, error) {
	prg, ok := o.programs[table]
	if !ok {
		return false, fmt.Errorf("table %s is not in the protected list", table)
	}

	out, _, err := prg.Eval(map[string]any{
		"row": row,
		"ident": map[string]any{
			"org_id":         ri.OrgIDString(),
			"user_id":        ri.UserIDString(),
			"is_super_admin": ri.IsSuperAdmin,
		},
	})
	if err != nil {
		return false, fmt.Errorf("eval visibility for %s: %w", table, err)
	}

	visible, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("visibility for %s did not evaluate to bool", table)
	}
	return visible, nil
}
