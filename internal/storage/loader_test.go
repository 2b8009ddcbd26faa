package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

// TestLoadRows_Basic verifies rows are grouped into batches in order and the
// total equals the sum of all successful copyFn returns.
func TestLoadRows_Basic(t *testing.T) {
	t.Parallel()

	rows := make([][]any, 7)
	for i := range rows {
		rows[i] = []any{i, "x"}
	}

	var sizes []int
	var firsts []any
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		sizes = append(sizes, len(batch))
		firsts = append(firsts, batch[0][0])
		return int64(len(batch)), nil
	}
	var observed []int64

	total, err := LoadRows(context.Background(), []string{"c1", "c2"}, rows, 3, copyFn,
		func(n int64) { observed = append(observed, n) })
	if err != nil {
		t.Fatalf("LoadRows error: %v", err)
	}
	if total != 7 {
		t.Fatalf("total rows %d, want 7", total)
	}
	if !reflect.DeepEqual(sizes, []int{3, 3, 1}) || !reflect.DeepEqual(firsts, []any{0, 3, 6}) {
		t.Fatalf("batches sizes=%v firsts=%v", sizes, firsts)
	}
	if !reflect.DeepEqual(observed, []int64{3, 3, 1}) {
		t.Fatalf("onBatch saw %v", observed)
	}
}

func TestLoadRows_Empty(t *testing.T) {
	t.Parallel()

	called := false
	total, err := LoadRows(context.Background(), []string{"c"}, nil, 10,
		func(context.Context, []string, [][]any) (int64, error) { called = true; return 0, nil }, nil)
	if err != nil || total != 0 || called {
		t.Fatalf("total=%d err=%v called=%v", total, err, called)
	}
}

// TestLoadRows_ErrorPropagation ensures the first copy error is returned and
// later batches are not attempted.
func TestLoadRows_ErrorPropagation(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	calls := 0
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		calls++
		if calls == 2 {
			return 1, boom
		}
		return int64(len(batch)), nil
	}
	rows := [][]any{{1}, {2}, {3}, {4}, {5}}

	total, err := LoadRows(context.Background(), []string{"c"}, rows, 2, copyFn, nil)
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if calls != 2 || total != 3 {
		t.Fatalf("calls=%d total=%d, want 2 and 3", calls, total)
	}
}

func TestLoadRows_ContextCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	copyFn := func(_ context.Context, _ []string, batch [][]any) (int64, error) {
		calls++
		cancel()
		return int64(len(batch)), nil
	}

	total, err := LoadRows(ctx, []string{"c"}, [][]any{{1}, {2}, {3}}, 1, copyFn, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if calls != 1 || total != 1 {
		t.Fatalf("calls=%d total=%d", calls, total)
	}
}

func TestLoadRows_ArgValidation(t *testing.T) {
	t.Parallel()

	ok := func(context.Context, []string, [][]any) (int64, error) { return 0, nil }
	if _, err := LoadRows(context.Background(), nil, nil, 0, ok, nil); err == nil {
		t.Fatal("expected error for batchSize=0")
	}
	if _, err := LoadRows(context.Background(), nil, nil, 1, nil, nil); err == nil {
		t.Fatal("expected error for nil copyFn")
	}
}
