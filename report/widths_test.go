package report

import (
	"math"
	"testing"
)

func floatsNear(got, want []float64) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestEstimateWidths_ClampToMax(t *testing.T) {
	got := EstimateWidths(
		[]string{"序号", "施工部位"},
		[][]string{{"1", "测试较长的中文部位名称"}},
		[]float64{1.0, 2.0},
		[]float64{1.5, 3.5},
		15.5,
	)
	// Column 1's raw width (11 CJK chars plus padding = 6.0cm) clamps to
	// its 3.5cm ceiling; the slack budget never grows columns back.
	if !floatsNear(got, []float64{1.5, 3.5}) {
		t.Errorf("widths = %v, want [1.5 3.5]", got)
	}
}

func TestEstimateWidths_ClampToMin(t *testing.T) {
	got := EstimateWidths(
		[]string{"A"},
		[][]string{{"x"}},
		[]float64{2.0},
		[]float64{5.0},
		10,
	)
	if !floatsNear(got, []float64{2.0}) {
		t.Errorf("widths = %v, want [2.0]", got)
	}
}

func TestEstimateWidths_UniformShrink(t *testing.T) {
	headers := []string{"施工内容说明", "施工部位名称"}
	got := EstimateWidths(headers, nil,
		[]float64{1.0, 1.0},
		[]float64{10.0, 10.0},
		3.5,
	)
	// Both columns computed 3.5cm raw (6 CJK chars + 0.5 padding), so the
	// 3.5cm budget halves each while preserving proportions.
	if !floatsNear(got, []float64{1.75, 1.75}) {
		t.Errorf("widths = %v, want [1.75 1.75]", got)
	}
	sum := got[0] + got[1]
	if sum > 3.5+1e-9 {
		t.Errorf("sum %v exceeds budget", sum)
	}
}

func TestEstimateWidths_NeverGrowsPastComputed(t *testing.T) {
	got := EstimateWidths(
		[]string{"ab"},
		nil,
		[]float64{0},
		[]float64{100},
		50,
	)
	want := 2*narrowCharCM + headerPadCM
	if math.Abs(got[0]-want) > 1e-9 {
		t.Errorf("width = %v, want computed %v despite large budget", got[0], want)
	}
}

func TestVisualWidth_MixedScript(t *testing.T) {
	// 2 CJK chars and 3 ASCII chars.
	got := visualWidth("浇筑C30")
	want := 2*wideCharCM + 3*narrowCharCM
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("visualWidth = %v, want %v", got, want)
	}
}
