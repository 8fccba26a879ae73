package worklens

// innerJoin combines two frames on (leftKey, rightKey) with inner-join
// semantics: a left row without at least one key match on the right
// contributes zero output rows, silently. Key uniqueness is not verified;
// duplicate keys on either side fan out into one output row per pair.
//
// The output header is the left header followed by the right header minus
// the right key column. Row order follows the left frame, with matches in
// right-frame order, so the join is stable. Pure function: neither input is
// modified and the result owns its cells.
func innerJoin(left, right *Frame, leftKey, rightKey string) (*Frame, error) {
	li := left.cols.index(leftKey)
	if li < 0 {
		return nil, ErrUnknownColumn
	}
	ri := right.cols.index(rightKey)
	if ri < 0 {
		return nil, ErrUnknownColumn
	}

	// Index right rows by key value, preserving order within a key.
	matches := make(map[string][]int, len(right.rows))
	for idx, r := range right.rows {
		k := r.cells[ri]
		matches[k] = append(matches[k], idx)
	}

	cols := make(header, 0, len(left.cols)+len(right.cols)-1)
	cols = append(cols, left.cols...)
	var rightCols []int // right column indices carried into the output
	for i, name := range right.cols {
		if i == ri {
			continue
		}
		cols = append(cols, name)
		rightCols = append(rightCols, i)
	}

	var records []Record
	for _, lr := range left.rows {
		for _, rIdx := range matches[lr.cells[li]] {
			rr := right.rows[rIdx]
			rec := make(Record, 0, len(cols))
			rec = append(rec, lr.cells...)
			for _, c := range rightCols {
				rec = append(rec, rr.cells[c])
			}
			records = append(records, rec)
		}
	}
	return newFrame(cols, records), nil
}

// joinTables denormalizes the loaded tables following the declared join
// plan. Any table missing from the map joins as an empty frame, which
// yields an empty result by inner-join closure.
func joinTables(tables map[string]*Frame) (*Frame, error) {
	joined := tables[TableEmployee]
	if joined == nil {
		joined = newFrame(employeeSchema[0].columns, nil)
	}
	for _, step := range joinPlan {
		right := tables[step.table]
		if right == nil {
			ts, ok := schemaFor(step.table)
			if !ok {
				return nil, ErrUnknownTable
			}
			right = newFrame(ts.columns, nil)
		}
		var err error
		joined, err = innerJoin(joined, right, step.leftKey, step.rightKey)
		if err != nil {
			return nil, err
		}
	}
	return joined, nil
}
