package expect

import (
	"fmt"

	"github.com/itchyny/gojq"

	"github.com/datavet/datavet/internal/table"
	"github.com/datavet/datavet/pkg/types"
)

// selectRows returns the row indices an expectation applies to. With no
// row_condition kwarg that is every row; otherwise the condition is a jq
// predicate evaluated against each row's record, and only rows where it
// yields true are selected.
func selectRows(t *table.Table, cfg types.ExpectationConfig) ([]int, error) {
	cond, _ := cfg.Kwargs["row_condition"].(string)
	if cond == "" {
		rows := make([]int, t.NumRows())
		for i := range rows {
			rows[i] = i
		}
		return rows, nil
	}

	query, err := gojq.Parse(cond)
	if err != nil {
		return nil, fmt.Errorf("invalid row_condition %q: %w", cond, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, fmt.Errorf("compiling row_condition %q: %w", cond, err)
	}

	var rows []int
	for i := 0; i < t.NumRows(); i++ {
		iter := code.Run(t.Record(i))
		v, ok := iter.Next()
		if !ok {
			continue
		}
		if itErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("row_condition %q on row %d: %w", cond, i, itErr)
		}
		if v == true {
			rows = append(rows, i)
		}
	}
	return rows, nil
}
