package metrics

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"routeeob/internal/depot"
	"routeeob/internal/model"
)

func routeTable(t *testing.T, rows ...[]interface{}) *model.Table {
	t.Helper()

	tb := model.MustTable("Depot", "DeliveryCases", "TotalTime", "OnTimePct")
	for _, row := range rows {
		values := make([]model.Value, len(row))
		for i, v := range row {
			switch x := v.(type) {
			case nil:
				values[i] = model.Empty()
			case string:
				values[i] = model.Text(x)
			case int:
				values[i] = model.Int(int64(x))
			case float64:
				values[i] = model.Number(x)
			default:
				t.Fatalf("unsupported cell %T", v)
			}
		}
		tb.Append(values...)
	}
	return tb
}

func TestAggregate_WorkedExample(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00001", 10, 5.7, 0.92},
		[]interface{}{"D9Q00001", 20, 4.2, 0.88},
	)

	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, []string{"Depot", "Delivery Cases", "Routes", "Delivery Hours", "On-time %"}, agg.Columns)
	want := [][]string{{"D9Q00001", "30", "2", "9", "90"}}
	if diff := cmp.Diff(want, agg.Records()); diff != "" {
		t.Fatalf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_FirstAppearanceOrderAndSkipsEmptyDepot(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00040", 5, 1.0, 1.0},
		[]interface{}{nil, 100, 100.0, 0.0},
		[]interface{}{" D9Q00001 ", 7, 2.5, 0.5},
		[]interface{}{"D9Q00040", 1, 0.9, 0.0},
	)

	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	want := [][]string{
		{"D9Q00040", "6", "2", "1", "50"},
		{"D9Q00001", "7", "1", "2", "50"},
	}
	if diff := cmp.Diff(want, agg.Records()); diff != "" {
		t.Fatalf("aggregate mismatch (-want +got):\n%s", diff)
	}
}

func TestAggregate_RoundsHalfUpAndTruncatesHours(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00002", 1, 3.99, 0.905},
		[]interface{}{"D9Q00002", 1, 3.99, 0.905},
		[]interface{}{"D9Q00003", 1, 0.5, 0.125},
		[]interface{}{"D9Q00003", 1, 0.25, nil},
	)

	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, "7", agg.Get(0, ColDeliveryHours).String())
	assert.Equal(t, "91", agg.Get(0, ColOnTime).String())
	assert.Equal(t, "0", agg.Get(1, ColDeliveryHours).String())
	// 空值不参与均值：mean(0.125) = 12.5 -> 13
	assert.Equal(t, "13", agg.Get(1, ColOnTime).String())
}

func TestAggregate_MissingDepotColumn(t *testing.T) {
	t.Parallel()

	in := model.MustTable("DeliveryCases", "TotalTime", "OnTimePct")
	_, err := Aggregate(in, DefaultSchema())

	var mce *model.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"Depot"}, mce.Columns)
}

func TestAggregate_ReportsAllMissingMetricColumns(t *testing.T) {
	t.Parallel()

	in := model.MustTable("Depot", "TotalTime")
	_, err := Aggregate(in, DefaultSchema())

	var mce *model.MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, []string{"DeliveryCases", "OnTimePct"}, mce.Columns)
}

func TestAggregate_RejectsTextInMetricColumn(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00001", 10, 5.7, 0.92},
		[]interface{}{"D9Q00001", "ten", 5.7, 0.92},
	)
	_, err := Aggregate(in, DefaultSchema())

	var pe *model.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "DeliveryCases", pe.Column)
	assert.Equal(t, 2, pe.Row)
}

func TestAggregate_CustomSchema(t *testing.T) {
	t.Parallel()

	in := model.MustTable("Site", "Cases", "Hours", "OnTime")
	in.Append(model.Text("X1"), model.Int(4), model.Number(2.2), model.Number(1))

	agg, err := Aggregate(in, Schema{Depot: "Site", Cases: "Cases", Time: "Hours", OnTime: "OnTime"})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"X1", "4", "1", "2", "100"}}, agg.Records())
}

func TestPivot_ThirteenColumnsInCatalogOrderWithZeroFill(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00043", 3, 1.5, 1.0},
		[]interface{}{"D9Q00001", 10, 5.7, 0.92},
		[]interface{}{"D9Q00001", 20, 4.2, 0.88},
	)
	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	pv, err := Pivot(agg, depot.Default())
	require.NoError(t, err)

	require.Len(t, pv.Columns, 13)
	assert.Equal(t, "Metric", pv.Columns[0])
	assert.Equal(t, append([]string{"Metric"}, depot.Default().Names()...), pv.Columns)
	require.Equal(t, 4, pv.Len())

	want := [][]string{
		{"Delivery Cases", "30", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "3"},
		{"Routes", "2", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "1"},
		{"Delivery Hours", "9", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "1"},
		{"On-time %", "90", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "100"},
	}
	if diff := cmp.Diff(want, pv.Records()); diff != "" {
		t.Fatalf("pivot mismatch (-want +got):\n%s", diff)
	}
}

func TestPivot_EmptyAggregateStillHasEveryDepot(t *testing.T) {
	t.Parallel()

	agg, err := Aggregate(routeTable(t), DefaultSchema())
	require.NoError(t, err)

	pv, err := Pivot(agg, depot.Default())
	require.NoError(t, err)
	assert.Len(t, pv.Columns, 13)
	assert.Equal(t, len(MetricColumns), pv.Len())
	for _, row := range pv.Rows {
		for _, v := range row[1:] {
			assert.Equal(t, "0", v.String())
		}
	}
}

func TestPivot_UnknownDepotIsRejected(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00001", 1, 1.0, 1.0},
		[]interface{}{"D9Q99999", 1, 1.0, 1.0},
		[]interface{}{"ZZZ", 1, 1.0, 1.0},
	)
	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	_, err = Pivot(agg, depot.Default())
	var ude *model.UnknownDepotError
	require.True(t, errors.As(err, &ude))
	assert.Equal(t, []string{"D9Q99999", "ZZZ"}, ude.Codes)
}

func TestPivot_NumericDepotCodeIsReadable(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{12345678, 1, 1.0, 1.0},
		[]interface{}{"D9Q00001", 1, 1.0, 1.0},
	)
	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, "12345678", agg.Get(0, ColDepot).String())

	_, err = Pivot(agg, depot.Default())
	var ude *model.UnknownDepotError
	require.True(t, errors.As(err, &ude))
	assert.Equal(t, []string{"12345678"}, ude.Codes)
}

func TestPivot_SubstituteCatalog(t *testing.T) {
	t.Parallel()

	cat, err := depot.New([]depot.Entry{{Code: "B", Name: "Bravo"}, {Code: "A", Name: "Alpha"}})
	require.NoError(t, err)

	in := routeTable(t, []interface{}{"A", 2, 1.0, 0.5})
	agg, err := Aggregate(in, DefaultSchema())
	require.NoError(t, err)

	pv, err := Pivot(agg, cat)
	require.NoError(t, err)
	assert.Equal(t, []string{"Metric", "Bravo", "Alpha"}, pv.Columns)
	assert.Equal(t, []string{"Delivery Cases", "0", "2"}, pv.Records()[0])
}

func TestPivot_Idempotent(t *testing.T) {
	t.Parallel()

	in := routeTable(t,
		[]interface{}{"D9Q00005", 4, 2.2, 0.75},
		[]interface{}{"D9Q00006", 8, 3.3, 0.5},
	)
	run := func() *model.Table {
		agg, err := Aggregate(in, DefaultSchema())
		require.NoError(t, err)
		pv, err := Pivot(agg, depot.Default())
		require.NoError(t, err)
		return pv
	}

	first, second := run(), run()
	assert.True(t, first.Equal(second))
}

func TestIntegerizeRow(t *testing.T) {
	t.Parallel()

	pv := model.MustTable("Metric", "Spokane", "Pasco")
	pv.Append(model.Text("Delivery Cases"), model.Number(30.0), model.Number(12.75))
	pv.Append(model.Text("Delivery Hours"), model.Number(9.5), model.Number(0))

	out := IntegerizeRow(pv, ColDeliveryCases)
	assert.Equal(t, []string{"Delivery Cases", "30", "12"}, out.Records()[0])
	assert.Equal(t, []string{"Delivery Hours", "9.5", "0"}, out.Records()[1])
	assert.Equal(t, "12.75", pv.Get(0, "Pasco").String())
}
