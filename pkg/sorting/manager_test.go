package sorting

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stockRow struct {
	Code     string
	Quantity int
}

var stockFields = MustFields(
	String("code", "Code", "code", func(r stockRow) string { return r.Code }),
	Number("quantity", "Quantity", "quantity", func(r stockRow) int { return r.Quantity }),
)

func quantities(rows []stockRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.Quantity
	}
	return out
}

func TestManager_SingleKeyScenario(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "quantity", Direction: Asc}))

	rows := []stockRow{{Quantity: 5}, {Quantity: 2}, {Quantity: 9}}
	m.Sort(rows)
	assert.Equal(t, []int{2, 5, 9}, quantities(rows))

	require.NoError(t, m.ReverseSortDirection(0))
	m.Sort(rows)
	assert.Equal(t, []int{9, 5, 2}, quantities(rows))
}

func TestManager_MultiKeyScenario(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.SetSorts([]Criterion{
		{Field: "code", Direction: Asc},
		{Field: "quantity", Direction: Desc},
	}))

	rows := []stockRow{
		{Code: "A", Quantity: 1},
		{Code: "A", Quantity: 3},
		{Code: "B", Quantity: 0},
	}
	m.Sort(rows)

	want := []stockRow{
		{Code: "A", Quantity: 3},
		{Code: "A", Quantity: 1},
		{Code: "B", Quantity: 0},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("sorted rows mismatch (-want +got):\n%s", diff)
	}
}

func TestManager_PerformSortsAllTied(t *testing.T) {
	m := NewManager(stockFields)
	assert.Equal(t, 0, m.PerformSorts(stockRow{Code: "A"}, stockRow{Code: "B"}), "empty state ties everything")

	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Asc}))
	assert.Equal(t, 0, m.PerformSorts(stockRow{Code: "A", Quantity: 1}, stockRow{Code: "A", Quantity: 2}))
}

func randomRows(r *rand.Rand, n int) []stockRow {
	codes := []string{"A", "B", "C"}
	rows := make([]stockRow, n)
	for i := range rows {
		rows[i] = stockRow{Code: codes[r.Intn(len(codes))], Quantity: r.Intn(5)}
	}
	return rows
}

func TestManager_Antisymmetry(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	states := [][]Criterion{
		{{Field: "code", Direction: Asc}},
		{{Field: "quantity", Direction: Desc}},
		{{Field: "code", Direction: Desc}, {Field: "quantity", Direction: Asc}},
	}
	rows := randomRows(r, 40)

	for _, state := range states {
		m := NewManager(stockFields)
		require.NoError(t, m.SetSorts(state))
		for _, a := range rows {
			for _, b := range rows {
				ab, ba := m.PerformSorts(a, b), m.PerformSorts(b, a)
				if ab == 0 && ba == 0 {
					continue
				}
				assert.Equal(t, ab, -ba, "state %s a=%v b=%v", FormatCriteria(state), a, b)
			}
		}
	}
}

func TestManager_SortIsIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(11))
	m := NewManager(stockFields)
	require.NoError(t, m.SetSorts([]Criterion{
		{Field: "quantity", Direction: Desc},
		{Field: "code", Direction: Asc},
	}))

	rows := randomRows(r, 60)
	m.Sort(rows)
	once := slices.Clone(rows)
	m.Sort(rows)

	if diff := cmp.Diff(once, rows); diff != "" {
		t.Errorf("second sort changed order (-first +second):\n%s", diff)
	}
}

func TestManager_SortIsStable(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Asc}))

	rows := []stockRow{{"B", 1}, {"A", 1}, {"B", 2}, {"A", 2}, {"B", 3}}
	m.Sort(rows)

	assert.Equal(t, []stockRow{{"A", 1}, {"A", 2}, {"B", 1}, {"B", 2}, {"B", 3}}, rows)
}

func TestManager_MoveSortRoundTrip(t *testing.T) {
	initial := []Criterion{
		{Field: "code", Direction: Asc},
		{Field: "quantity", Direction: Desc},
	}
	extraFields := MustFields(
		String("code", "Code", "", func(r stockRow) string { return r.Code }),
		Number("quantity", "Quantity", "", func(r stockRow) int { return r.Quantity }),
		Number("len", "Length", "", func(r stockRow) int { return len(r.Code) }),
	)
	initial = append(initial, Criterion{Field: "len", Direction: Asc})

	for i := range initial {
		for j := range initial {
			if i == j {
				continue
			}
			m := NewManager(extraFields)
			require.NoError(t, m.SetSorts(initial))
			require.NoError(t, m.MoveSort(i, j))
			require.NoError(t, m.MoveSort(j, i))
			assert.Equal(t, initial, m.GetSorts(), "move %d->%d->%d", i, j, i)
		}
	}
}

func TestManager_MoveSortShiftsIntermediate(t *testing.T) {
	fields := MustFields(
		Number("a", "A", "", func(r stockRow) int { return 0 }),
		Number("b", "B", "", func(r stockRow) int { return 0 }),
		Number("c", "C", "", func(r stockRow) int { return 0 }),
	)
	m := NewManager(fields)
	require.NoError(t, m.SetSorts([]Criterion{{"a", Asc}, {"b", Asc}, {"c", Asc}}))

	require.NoError(t, m.MoveSort(0, 2))
	assert.Equal(t, []Criterion{{"b", Asc}, {"c", Asc}, {"a", Asc}}, m.GetSorts())
}

func TestManager_ReverseTwiceRestores(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Desc}))

	require.NoError(t, m.ReverseSortDirection(0))
	assert.Equal(t, Asc, m.GetSorts()[0].Direction)
	require.NoError(t, m.ReverseSortDirection(0))
	assert.Equal(t, Desc, m.GetSorts()[0].Direction)
}

func TestManager_ResetSorts(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Asc}))
	require.NoError(t, m.AddSort(Criterion{Field: "quantity", Direction: Asc}))

	m.ResetSorts()

	assert.Empty(t, m.GetSorts())
}

func TestManager_IndexOutOfRange(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Asc}))
	before := m.GetSorts()

	tests := []struct {
		name string
		op   func() error
	}{
		{"remove negative", func() error { return m.RemoveSort(-1) }},
		{"remove past end", func() error { return m.RemoveSort(1) }},
		{"move bad from", func() error { return m.MoveSort(3, 0) }},
		{"move bad to", func() error { return m.MoveSort(0, 1) }},
		{"reverse past end", func() error { return m.ReverseSortDirection(5) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op()
			assert.ErrorIs(t, err, ErrIndexOutOfRange)
			assert.Equal(t, before, m.GetSorts(), "list must be unchanged")
		})
	}
}

func TestManager_RemoveSort(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.SetSorts([]Criterion{{"code", Asc}, {"quantity", Desc}}))

	require.NoError(t, m.RemoveSort(0))

	assert.Equal(t, []Criterion{{"quantity", Desc}}, m.GetSorts())
}

func TestManager_DuplicatePolicies(t *testing.T) {
	seed := []Criterion{{"code", Asc}, {"quantity", Asc}}
	again := Criterion{Field: "code", Direction: Desc}

	tests := []struct {
		policy  DuplicatePolicy
		want    []Criterion
		wantErr error
	}{
		{ReplaceInPlace, []Criterion{{"code", Desc}, {"quantity", Asc}}, nil},
		{AppendDuplicate, []Criterion{{"code", Asc}, {"quantity", Asc}, {"code", Desc}}, nil},
		{RejectDuplicate, seed, ErrDuplicateField},
		{MoveToEnd, []Criterion{{"quantity", Asc}, {"code", Desc}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.policy.String(), func(t *testing.T) {
			m := NewManager(stockFields, WithDuplicatePolicy(tt.policy))
			require.NoError(t, m.SetSorts(seed))

			err := m.AddSort(again)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, m.GetSorts())
		})
	}
}

func TestManager_AddSortValidation(t *testing.T) {
	m := NewManager(stockFields)

	assert.ErrorIs(t, m.AddSort(Criterion{Field: "color", Direction: Asc}), ErrUnknownField)
	assert.ErrorIs(t, m.AddSort(Criterion{Field: "code", Direction: "up"}), ErrInvalidDirection)
	assert.Empty(t, m.GetSorts())
}

func TestManager_SetSortsKeepsPreviousOnError(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.SetSorts([]Criterion{{"quantity", Desc}}))

	err := m.SetSorts([]Criterion{{"code", Asc}, {"bogus", Asc}})

	assert.ErrorIs(t, err, ErrUnknownField)
	assert.Equal(t, []Criterion{{"quantity", Desc}}, m.GetSorts())
}

func TestManager_GetSortsReturnsCopy(t *testing.T) {
	m := NewManager(stockFields)
	require.NoError(t, m.AddSort(Criterion{Field: "code", Direction: Asc}))

	sorts := m.GetSorts()
	sorts[0].Direction = Desc

	assert.Equal(t, Asc, m.GetSorts()[0].Direction)
}

func TestParseDuplicatePolicy(t *testing.T) {
	cases := map[string]DuplicatePolicy{
		"":            ReplaceInPlace,
		"replace":     ReplaceInPlace,
		"APPEND":      AppendDuplicate,
		"reject":      RejectDuplicate,
		"move_to_end": MoveToEnd,
	}
	for raw, want := range cases {
		got, err := ParseDuplicatePolicy(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	_, err := ParseDuplicatePolicy("ignore")
	assert.Error(t, err)
}
