package chunk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestProcess_PreservesOrderAcrossChunks(t *testing.T) {
	const n = 10000
	items := make([]int, n)
	for i := range items {
		items[i] = i
	}
	double := func(v int) (int, error) { return v * 2, nil }

	chunked, err := Process(context.Background(), items, double, Options{ChunkSize: 200})
	if err != nil {
		t.Fatalf("Process chunked: %v", err)
	}

	// One unchunked pass is the oracle.
	single, err := Process(context.Background(), items, double, Options{ChunkSize: n})
	if err != nil {
		t.Fatalf("Process single pass: %v", err)
	}

	if diff := cmp.Diff(single, chunked); diff != "" {
		t.Errorf("chunked output differs from single pass (-single +chunked):\n%s", diff)
	}
}

func TestProcess_ReportsProgress(t *testing.T) {
	items := make([]int, 450)
	var fractions []float64

	_, err := Process(context.Background(), items, func(v int) (int, error) { return v, nil }, Options{
		ChunkSize:  200,
		OnProgress: func(p Progress) { fractions = append(fractions, p.Fraction()) },
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []float64{200.0 / 450.0, 400.0 / 450.0, 1.0}
	if diff := cmp.Diff(want, fractions); diff != "" {
		t.Errorf("progress fractions mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_CancellationReturnsPartialOutput(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	items := make([]int, 1000)
	for i := range items {
		items[i] = i
	}

	out, err := Process(ctx, items, func(v int) (int, error) {
		if v == 199 {
			// Cancel mid-run; the check only happens between chunks.
			cancel()
		}
		return v, nil
	}, Options{ChunkSize: 200})

	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("error = %v, want ErrCancelled", err)
	}
	if len(out) != 200 {
		t.Fatalf("partial output length = %d, want the completed chunk of 200", len(out))
	}
	for i, v := range out {
		if v != i {
			t.Fatalf("partial output[%d] = %d; order must be preserved", i, v)
		}
	}
}

func TestProcess_ItemErrorStopsRun(t *testing.T) {
	boom := errors.New("boom")
	items := []int{0, 1, 2, 3, 4}

	out, err := Process(context.Background(), items, func(v int) (int, error) {
		if v == 3 {
			return 0, boom
		}
		return v, nil
	}, Options{ChunkSize: 2})

	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want wrapped boom", err)
	}
	if len(out) != 3 {
		t.Errorf("output length = %d, want 3 items completed before the failure", len(out))
	}
}

func TestProcess_YieldBetweenChunks(t *testing.T) {
	items := make([]int, 500)
	yields := 0

	_, err := Process(context.Background(), items, func(v int) (int, error) { return v, nil }, Options{
		ChunkSize: 200,
		Yield:     func() { yields++ },
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	// 3 chunks -> 2 yields between them; no leading or trailing yield.
	if yields != 2 {
		t.Errorf("yields = %d, want 2", yields)
	}
}

func TestProcess_EmptyAndNilFn(t *testing.T) {
	out, err := Process(context.Background(), nil, func(v int) (int, error) { return v, nil }, Options{})
	if err != nil || len(out) != 0 {
		t.Errorf("empty input: out=%v err=%v", out, err)
	}

	if _, err := Process[int, int](context.Background(), []int{1}, nil, Options{}); err == nil {
		t.Errorf("nil fn should be rejected")
	}
}

func TestProgress_Fraction(t *testing.T) {
	cases := []struct {
		p    Progress
		want float64
	}{
		{Progress{Completed: 0, Total: 0}, 1},
		{Progress{Completed: 1, Total: 4}, 0.25},
		{Progress{Completed: 4, Total: 4}, 1},
	}
	for _, c := range cases {
		if got := c.p.Fraction(); got != c.want {
			t.Errorf("Fraction(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func ExampleProcess() {
	nums := []int{1, 2, 3}
	squares, _ := Process(context.Background(), nums, func(v int) (int, error) {
		return v * v, nil
	}, Options{})
	fmt.Println(squares)
	// Output: [1 4 9]
}
