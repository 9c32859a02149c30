package vector

import (
	"context"
	"math"
	"testing"
)

func TestFlatIndex_Search(t *testing.T) {
	vecs := [][]float32{
		{1, 0, 0},
		{0.9, 0.1, 0},
		{0, 1, 0},
	}
	idx, err := NewFlatIndex(3, vecs)
	if err != nil {
		t.Fatal(err)
	}
	if idx.Size() != 3 || idx.Dimensions() != 3 {
		t.Errorf("Size=%d Dimensions=%d", idx.Size(), idx.Dimensions())
	}

	results, err := idx.Search(context.Background(), []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Position != 0 || results[1].Position != 1 {
		t.Errorf("order: got %+v", results)
	}
}

func TestFlatIndex_SearchKLargerThanSize(t *testing.T) {
	idx, _ := NewFlatIndex(2, [][]float32{{1, 0}, {0, 1}})
	results, err := idx.Search(context.Background(), []float32{0, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].Position != 1 {
		t.Errorf("got %+v", results)
	}
}

func TestFlatIndex_TiesKeepInsertionOrder(t *testing.T) {
	vecs := [][]float32{{0, 1}, {1, 0}, {1, 0}, {1, 0}}
	idx, _ := NewFlatIndex(2, vecs)
	results, _ := idx.Search(context.Background(), []float32{1, 0}, 4)
	want := []int{1, 2, 3, 0}
	for i, r := range results {
		if r.Position != want[i] {
			t.Fatalf("position[%d] = %d, want %d (results %+v)", i, r.Position, want[i], results)
		}
	}
}

func TestFlatIndex_CosineMetric(t *testing.T) {
	vecs := [][]float32{{2, 0}, {0, 5}, {0, 0}}
	idx, err := NewFlatIndex(2, vecs, WithMetric(MetricCosine))
	if err != nil {
		t.Fatal(err)
	}
	if idx.Metric() != MetricCosine {
		t.Errorf("metric = %v", idx.Metric())
	}
	scores, err := idx.Scores([]float32{0, 3})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(scores[0]) > 1e-9 || math.Abs(scores[1]-1) > 1e-6 || scores[2] != 0 {
		t.Errorf("scores = %v", scores)
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	if _, err := NewFlatIndex(3, [][]float32{{1, 0}}); err == nil {
		t.Error("expected error for mismatched vector")
	}
	if _, err := NewFlatIndex(0, nil); err == nil {
		t.Error("expected error for zero dimensions")
	}
	idx, _ := NewFlatIndex(2, [][]float32{{1, 0}})
	if _, err := idx.Search(context.Background(), []float32{1, 0, 0}, 1); err == nil {
		t.Error("expected error for mismatched query")
	}
}

func TestFlatIndex_CopiesInput(t *testing.T) {
	src := [][]float32{{1, 0}}
	idx, _ := NewFlatIndex(2, src)
	src[0][0] = 0
	if v := idx.Vector(0); v[0] != 1 {
		t.Errorf("index aliased input: %v", v)
	}
}

func TestFlatIndex_EmptyAndCanceled(t *testing.T) {
	idx, _ := NewFlatIndex(2, nil)
	results, err := idx.Search(context.Background(), []float32{1, 0}, 3)
	if err != nil || len(results) != 0 {
		t.Errorf("empty index: %v, %v", results, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := idx.Search(ctx, []float32{1, 0}, 3); err == nil {
		t.Error("expected context error")
	}
}

func TestFlatIndex_CosineZeroVector(t *testing.T) {
	idx, err := NewFlatIndex(2, [][]float32{{2, 2}, {0, 0}, {-1, 0}}, WithMetric(MetricCosine))
	if err != nil {
		t.Fatal(err)
	}
	scores, err := idx.Scores([]float32{1, 1})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(scores[0]-1) > 1e-6 {
		t.Errorf("parallel vectors: %v", scores[0])
	}
	if scores[1] != 0 || math.IsNaN(scores[1]) {
		t.Errorf("zero vector: %v", scores[1])
	}
	if math.Abs(scores[2]+math.Sqrt2/2) > 1e-6 {
		t.Errorf("opposite-leaning vector: %v", scores[2])
	}
}
