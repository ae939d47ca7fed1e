package report

import "golang.org/x/text/width"

// Character advance estimates in centimeters at the data-cell font size.
// CJK and other full-width characters take roughly twice the advance of
// Latin ones.
const (
	narrowCharCM = 0.25
	wideCharCM   = 0.5
	headerPadCM  = 0.5
	dataPadCM    = 0.5
)

// EstimateWidths sizes the columns of a generated table from its content.
// Each column gets the padded visual width of its longest value (header
// included), clamped to [minW[i], maxW[i]]; when the clamped sum still
// exceeds budget, all columns shrink by a uniform ratio. Columns are never
// grown to fill a slack budget. All lengths are in centimeters.
func EstimateWidths(headers []string, rows [][]string, minW, maxW []float64, budget float64) []float64 {
	out := make([]float64, len(headers))
	for i, h := range headers {
		out[i] = visualWidth(h) + headerPadCM
	}
	for _, row := range rows {
		for i, v := range row {
			if i >= len(out) {
				break
			}
			if w := visualWidth(v) + dataPadCM; w > out[i] {
				out[i] = w
			}
		}
	}

	sum := 0.0
	for i := range out {
		if i < len(minW) && out[i] < minW[i] {
			out[i] = minW[i]
		}
		if i < len(maxW) && out[i] > maxW[i] {
			out[i] = maxW[i]
		}
		sum += out[i]
	}

	if budget > 0 && sum > budget {
		ratio := budget / sum
		for i := range out {
			out[i] *= ratio
		}
	}
	return out
}

// visualWidth estimates the printed width of s in centimeters.
func visualWidth(s string) float64 {
	w := 0.0
	for _, r := range s {
		if isWide(r) {
			w += wideCharCM
		} else {
			w += narrowCharCM
		}
	}
	return w
}

func isWide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
