package board

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func task(id string) Task { return Task{ID: id, Content: "task " + id, Priority: PriorityLow} }

func ids(c Column) []string {
	out := make([]string, len(c.Tasks))
	for i, t := range c.Tasks {
		out[i] = t.ID
	}
	return out
}

func sampleBoard() Board {
	return Board{Columns: []Column{
		{ID: "todo", Title: "To Do", Order: 0, Tasks: []Task{task("A"), task("B"), task("C")}},
		{ID: "doing", Title: "In Progress", Order: 1},
		{ID: "done", Title: "Done", Order: 2, Tasks: []Task{task("D")}},
	}}
}

func column(t *testing.T, b Board, id string) Column {
	t.Helper()
	c, ok := b.Column(id)
	require.True(t, ok, "column %s missing", id)
	return c
}

func TestApplyMove_CrossColumn(t *testing.T) {
	b := sampleBoard()

	next, mv, err := ApplyMove(b, "B", "todo", 1, "done", 0)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, ids(column(t, next, "todo")))
	require.Equal(t, []string{"B", "D"}, ids(column(t, next, "done")))
	require.Equal(t, &Move{TaskID: "B", NewColumnID: "done", NewOrder: 0}, mv)

	// input untouched
	require.Equal(t, []string{"A", "B", "C"}, ids(column(t, b, "todo")))
	require.Equal(t, b.TaskCount(), next.TaskCount())
}

func TestApplyMove_SameColumn(t *testing.T) {
	b := Board{Columns: []Column{{ID: "x", Tasks: []Task{task("A"), task("B"), task("C")}}}}

	next, mv, err := ApplyMove(b, "A", "x", 0, "x", 2)
	require.NoError(t, err)
	require.Equal(t, []string{"B", "C", "A"}, ids(column(t, next, "x")))
	require.Equal(t, 2, mv.NewOrder)

	back, _, err := ApplyMove(next, "A", "x", 2, "x", 0)
	require.NoError(t, err)
	require.Equal(t, ids(column(t, b, "x")), ids(column(t, back, "x")))
}

func TestApplyMove_NoOp(t *testing.T) {
	b := sampleBoard()
	next, mv, err := ApplyMove(b, "C", "todo", 2, "todo", 2)
	require.NoError(t, err)
	require.Nil(t, mv)
	require.Equal(t, b, next)
}

func TestApplyMove_ClampOntoOwnSlotIsNoOp(t *testing.T) {
	b := sampleBoard()
	next, mv, err := ApplyMove(b, "C", "todo", 2, "todo", 5)
	require.NoError(t, err)
	require.Nil(t, mv)
	require.Equal(t, b, next)

	_, _, out, err := Apply(b, DragResult{
		TaskID:      "C",
		Source:      Location{ColumnID: "todo", Index: 2},
		Destination: &Location{ColumnID: "todo", Index: 5},
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoOp, out)

	// not the last task: clamping still moves it to the end
	next, mv, err = ApplyMove(b, "B", "todo", 1, "todo", 5)
	require.NoError(t, err)
	require.Equal(t, &Move{TaskID: "B", NewColumnID: "todo", NewOrder: 2}, mv)
	require.Equal(t, []string{"A", "C", "B"}, ids(column(t, next, "todo")))
}

func TestApplyMove_IntoEmptyColumnClampsIndex(t *testing.T) {
	next, mv, err := ApplyMove(sampleBoard(), "A", "todo", 0, "doing", 7)
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, ids(column(t, next, "doing")))
	require.Equal(t, 0, mv.NewOrder)
}

func TestApplyMove_Rejections(t *testing.T) {
	b := sampleBoard()

	cases := []struct {
		name           string
		task, src, dst string
		srcIdx, dstIdx int
		wantErr        error
	}{
		{"task absent from source", "D", "todo", "done", 0, 0, ErrStaleReference},
		{"task at other index", "A", "todo", "done", 1, 0, ErrStaleReference},
		{"source index past end", "A", "todo", "done", 9, 0, ErrStaleReference},
		{"unknown source column", "A", "nope", "done", 0, 0, ErrUnknownColumn},
		{"unknown destination column", "A", "todo", "nope", 0, 0, ErrUnknownColumn},
		{"negative index", "A", "todo", "done", 0, -1, ErrInvalidIndex},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next, mv, err := ApplyMove(b, tc.task, tc.src, tc.srcIdx, tc.dst, tc.dstIdx)
			require.ErrorIs(t, err, tc.wantErr)
			require.Nil(t, mv)
			require.Equal(t, b, next)
		})
	}
}

func TestApply_Outcomes(t *testing.T) {
	b := sampleBoard()

	_, mv, out, err := Apply(b, DragResult{TaskID: "A", Source: Location{"todo", 0}})
	require.NoError(t, err)
	require.Nil(t, mv)
	require.Equal(t, OutcomeNoOp, out)

	_, _, out, err = Apply(b, DragResult{TaskID: "A", Source: Location{"todo", 0}, Destination: &Location{"todo", 0}})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoOp, out)

	_, _, out, err = Apply(b, DragResult{TaskID: "A", Source: Location{"todo", 0}, Destination: &Location{"todo", 1}})
	require.NoError(t, err)
	require.Equal(t, OutcomeReordered, out)

	_, _, out, err = Apply(b, DragResult{TaskID: "A", Source: Location{"todo", 0}, Destination: &Location{"done", 1}})
	require.NoError(t, err)
	require.Equal(t, OutcomeMoved, out)
}

// Every reachable move keeps the task multiset and leaves contiguous positions.
func TestApplyMove_ExhaustivePreservesTasks(t *testing.T) {
	b := sampleBoard()
	for _, src := range b.Columns {
		for si, tk := range src.Tasks {
			for _, dst := range b.Columns {
				for di := 0; di <= len(dst.Tasks); di++ {
					next, _, err := ApplyMove(b, tk.ID, src.ID, si, dst.ID, di)
					require.NoError(t, err)
					require.Equal(t, b.TaskCount(), next.TaskCount())

					loc, ok := next.Locate(tk.ID)
					require.True(t, ok)
					require.Equal(t, dst.ID, loc.ColumnID)

					for _, c := range next.Columns {
						for i, p := range next.Positions(c.ID) {
							require.Equal(t, i, p.Order)
						}
					}
				}
			}
		}
	}
}
